package model

type EventType string

const (
	EventParentingTime     EventType = "parenting_time"
	EventFamilyCourt       EventType = "family_court"
	EventChildSupportCourt EventType = "child_support_court"
	EventAttorney          EventType = "attorney"
	EventExchange          EventType = "exchange"
	EventOther             EventType = "other"
)

var eventTypeLabels = map[EventType]string{
	EventParentingTime:     "Parenting Time",
	EventFamilyCourt:       "Family Court",
	EventChildSupportCourt: "Child Support Court",
	EventAttorney:          "Attorney Meeting",
	EventExchange:          "Child Exchange",
	EventOther:             "Other",
}

func (t EventType) Valid() bool {
	_, ok := eventTypeLabels[t]
	return ok
}

func (t EventType) Label() string {
	if l, ok := eventTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

type RecurrencePattern string

const (
	PatternNone     RecurrencePattern = ""
	PatternDaily    RecurrencePattern = "daily"
	PatternWeekly   RecurrencePattern = "weekly"
	PatternBiweekly RecurrencePattern = "biweekly"
	PatternMonthly  RecurrencePattern = "monthly"
)

func (p RecurrencePattern) Valid() bool {
	switch p {
	case PatternDaily, PatternWeekly, PatternBiweekly, PatternMonthly:
		return true
	}
	return false
}

// CalendarEvent is a stored event, or a display-only instance derived from
// a recurring template when IsRecurringInstance is set.
type CalendarEvent struct {
	EventID           string            `json:"event_id"`
	Title             string            `json:"title"`
	StartDate         string            `json:"start_date"`
	EndDate           string            `json:"end_date"`
	EventType         EventType         `json:"event_type"`
	ChildrenInvolved  []string          `json:"children_involved"`
	Notes             string            `json:"notes"`
	Location          string            `json:"location"`
	Recurring         bool              `json:"recurring"`
	RecurrencePattern RecurrencePattern `json:"recurrence_pattern,omitempty"`
	RecurrenceEndDate string            `json:"recurrence_end_date,omitempty"`
	CustomColor       string            `json:"custom_color,omitempty"`
	CreatedAt         string            `json:"created_at,omitempty"`

	IsRecurringInstance bool   `json:"isRecurringInstance,omitempty"`
	OriginalEventID     string `json:"originalEventId,omitempty"`
}

// TemplateID is the id of the stored event this one represents.
func (e CalendarEvent) TemplateID() string {
	if e.IsRecurringInstance {
		return e.OriginalEventID
	}
	return e.EventID
}

type EventInput struct {
	Title             string            `json:"title"`
	StartDate         string            `json:"start_date"`
	EndDate           string            `json:"end_date"`
	EventType         EventType         `json:"event_type"`
	ChildrenInvolved  []string          `json:"children_involved"`
	Notes             string            `json:"notes"`
	Location          string            `json:"location"`
	Recurring         bool              `json:"recurring"`
	RecurrencePattern RecurrencePattern `json:"recurrence_pattern,omitempty"`
	RecurrenceEndDate string            `json:"recurrence_end_date,omitempty"`
	CustomColor       string            `json:"custom_color,omitempty"`
}

// InputFrom copies the editable fields of an event.
func InputFrom(e CalendarEvent) EventInput {
	children := make([]string, len(e.ChildrenInvolved))
	copy(children, e.ChildrenInvolved)
	return EventInput{
		Title:             e.Title,
		StartDate:         e.StartDate,
		EndDate:           e.EndDate,
		EventType:         e.EventType,
		ChildrenInvolved:  children,
		Notes:             e.Notes,
		Location:          e.Location,
		Recurring:         e.Recurring,
		RecurrencePattern: e.RecurrencePattern,
		RecurrenceEndDate: e.RecurrenceEndDate,
		CustomColor:       e.CustomColor,
	}
}

func (in *EventInput) Validate() error {
	if err := required("title", in.Title); err != nil {
		return err
	}
	start, err := checkDate("start_date", in.StartDate)
	if err != nil {
		return err
	}
	if in.EndDate == "" {
		in.EndDate = in.StartDate
	}
	end, err := checkDate("end_date", in.EndDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return invalid("end_date", "must not be before start_date")
	}
	if in.EventType == "" {
		in.EventType = EventParentingTime
	}
	if err := checkEnum("event_type", in.EventType, EventType.Valid); err != nil {
		return err
	}
	if in.CustomColor != "" && !hexColorRegexp.MatchString(in.CustomColor) {
		return invalid("custom_color", "must be a #RRGGBB color")
	}
	if in.ChildrenInvolved == nil {
		in.ChildrenInvolved = []string{}
	}

	if !in.Recurring {
		in.RecurrencePattern = PatternNone
		in.RecurrenceEndDate = ""
		return nil
	}
	if err := checkEnum("recurrence_pattern", in.RecurrencePattern, RecurrencePattern.Valid); err != nil {
		return err
	}
	if in.RecurrenceEndDate != "" {
		until, err := checkDate("recurrence_end_date", in.RecurrenceEndDate)
		if err != nil {
			return err
		}
		if until.Before(start) {
			return invalid("recurrence_end_date", "must not be before start_date")
		}
	}
	return nil
}
