package model

type PermissionLevel string

const (
	PermissionReadOnly          PermissionLevel = "read_only"
	PermissionReadPrint         PermissionLevel = "read_print"
	PermissionReadPrintDownload PermissionLevel = "read_print_download"
)

func (p PermissionLevel) Valid() bool {
	switch p {
	case PermissionReadOnly, PermissionReadPrint, PermissionReadPrintDownload:
		return true
	}
	return false
}

func (p PermissionLevel) Label() string {
	switch p {
	case PermissionReadPrint:
		return "View & Print"
	case PermissionReadPrintDownload:
		return "Full Access"
	}
	return "View Only"
}

func (p PermissionLevel) CanPrint() bool {
	return p == PermissionReadPrint || p == PermissionReadPrintDownload
}

func (p PermissionLevel) CanDownload() bool {
	return p == PermissionReadPrintDownload
}

type ShareToken struct {
	TokenID           string          `json:"token_id"`
	Name              string          `json:"name"`
	ShareToken        string          `json:"share_token"`
	ExpiresAt         string          `json:"expires_at"`
	IncludeJournals   bool            `json:"include_journals"`
	IncludeViolations bool            `json:"include_violations"`
	IncludeDocuments  bool            `json:"include_documents"`
	IncludeCalendar   bool            `json:"include_calendar"`
	PermissionLevel   PermissionLevel `json:"permission_level"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         string          `json:"created_at,omitempty"`
}

type ShareTokenInput struct {
	Name              string          `json:"name"`
	ExpiresDays       int             `json:"expires_days"`
	IncludeJournals   bool            `json:"include_journals"`
	IncludeViolations bool            `json:"include_violations"`
	IncludeDocuments  bool            `json:"include_documents"`
	IncludeCalendar   bool            `json:"include_calendar"`
	PermissionLevel   PermissionLevel `json:"permission_level"`
}

// NewShareTokenInput returns the defaults of a new sharing link.
func NewShareTokenInput(name string) ShareTokenInput {
	return ShareTokenInput{
		Name:              name,
		ExpiresDays:       30,
		IncludeJournals:   true,
		IncludeViolations: true,
		IncludeDocuments:  true,
		IncludeCalendar:   true,
		PermissionLevel:   PermissionReadPrint,
	}
}

func (in *ShareTokenInput) Validate() error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	if in.ExpiresDays < 1 || in.ExpiresDays > 365 {
		return invalid("expires_days", "must be between 1 and 365")
	}
	if !in.IncludeJournals && !in.IncludeViolations && !in.IncludeDocuments && !in.IncludeCalendar {
		return invalid("include", "select at least one record type")
	}
	if in.PermissionLevel == "" {
		in.PermissionLevel = PermissionReadOnly
	}
	return checkEnum("permission_level", in.PermissionLevel, PermissionLevel.Valid)
}

// SharedView is the public, read-only payload behind a share link.
type SharedView struct {
	OwnerName       string          `json:"owner_name"`
	Name            string          `json:"name"`
	ExpiresAt       string          `json:"expires_at"`
	PermissionLevel PermissionLevel `json:"permission_level"`
	Journals        []JournalEntry  `json:"journals,omitempty"`
	Violations      []Violation     `json:"violations,omitempty"`
	Documents       []Document      `json:"documents,omitempty"`
	Events          []CalendarEvent `json:"events,omitempty"`
}

// DefaultTab picks the first non-empty section, in display order.
func (v SharedView) DefaultTab() string {
	switch {
	case len(v.Journals) > 0:
		return "journals"
	case len(v.Violations) > 0:
		return "violations"
	case len(v.Documents) > 0:
		return "documents"
	case len(v.Events) > 0:
		return "events"
	}
	return "journals"
}
