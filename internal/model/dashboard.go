package model

type DashboardCounts struct {
	Children   int `json:"children"`
	Journals   int `json:"journals"`
	Violations int `json:"violations"`
	Documents  int `json:"documents"`
	Events     int `json:"events"`
}

type DashboardStats struct {
	Counts           DashboardCounts `json:"counts"`
	UpcomingEvents   []CalendarEvent `json:"upcoming_events"`
	RecentJournals   []JournalEntry  `json:"recent_journals"`
	RecentViolations []Violation     `json:"recent_violations"`
}

type StateLaw struct {
	Statutes string `json:"statutes"`
	Name     string `json:"name"`
}

type StateLaws struct {
	States map[string]StateLaw `json:"states"`
}

type EmailRequest struct {
	RecipientEmail string   `json:"recipient_email"`
	Subject        string   `json:"subject"`
	ContentType    string   `json:"content_type"`
	ContentIDs     []string `json:"content_ids"`
}

func (in EmailRequest) Validate() error {
	if err := required("recipient_email", in.RecipientEmail); err != nil {
		return err
	}
	if err := required("subject", in.Subject); err != nil {
		return err
	}
	if in.ContentType != "journals" && in.ContentType != "violations" {
		return invalid("content_type", "must be journals or violations")
	}
	if len(in.ContentIDs) == 0 {
		return invalid("content_ids", "select at least one record")
	}
	return nil
}

type EmailResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	EmailID string `json:"email_id"`
}

type ImportResult struct {
	Success       bool     `json:"success"`
	ImportedCount int      `json:"imported_count"`
	SkippedCount  int      `json:"skipped_count"`
	Errors        []string `json:"errors"`
}

// ImportTypes are the record kinds the backend accepts as CSV.
var ImportTypes = []string{"journals", "violations", "calendar", "contacts"}

func ValidImportType(t string) bool {
	for _, v := range ImportTypes {
		if v == t {
			return true
		}
	}
	return false
}

type ExportBundle struct {
	ExportedAt string          `json:"exported_at"`
	User       *User           `json:"user,omitempty"`
	Children   []Child         `json:"children,omitempty"`
	Journals   []JournalEntry  `json:"journals,omitempty"`
	Violations []Violation     `json:"violations,omitempty"`
	Events     []CalendarEvent `json:"events,omitempty"`
	Contacts   []Contact       `json:"contacts,omitempty"`
}

type WritingAssistRequest struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

type WritingAssistResponse struct {
	Result string `json:"result"`
}

type JournalSummaryRequest struct {
	JournalIDs []string `json:"journal_ids"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`
}

type JournalSummary struct {
	Summary string `json:"summary"`
}

type Resource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
}
