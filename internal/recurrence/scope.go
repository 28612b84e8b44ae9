package recurrence

import (
	"fmt"

	"github.com/dukerupert/custodykeeper/internal/model"
)

// Scope selects what an edit of a derived instance applies to.
type Scope int

const (
	// ScopeSeries edits the template and so every instance.
	ScopeSeries Scope = iota
	// ScopeOccurrence detaches the instance into its own event.
	ScopeOccurrence
)

// ParseScope reads a scope query value. An empty value means the series.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "series", "":
		return ScopeSeries, nil
	case "occurrence":
		return ScopeOccurrence, nil
	}
	return ScopeSeries, fmt.Errorf("unknown edit scope: %q", s)
}

func (s Scope) String() string {
	if s == ScopeOccurrence {
		return "occurrence"
	}
	return "series"
}

// Action is the kind of backend call a Mutation makes.
type Action int

const (
	ActionUpdate Action = iota
	ActionCreate
)

// Mutation is the single backend call an edit resolves to.
type Mutation struct {
	Action  Action
	EventID string // set for ActionUpdate
	Input   model.EventInput
}

// ResolveEdit maps an edit to one mutation. occurrence is the instance date
// (yyyy-MM-dd) being edited, or "" when the stored event itself is edited.
func ResolveEdit(template model.CalendarEvent, occurrence string, in model.EventInput, scope Scope) Mutation {
	if occurrence == "" || !template.Recurring {
		return Mutation{Action: ActionUpdate, EventID: template.EventID, Input: in}
	}

	switch scope {
	case ScopeOccurrence:
		in.Recurring = false
		in.RecurrencePattern = model.PatternNone
		in.RecurrenceEndDate = ""
		if in.StartDate == "" {
			in.StartDate = occurrence
		}
		if in.EndDate == "" {
			in.EndDate = in.StartDate
		}
		return Mutation{Action: ActionCreate, Input: in}
	default:
		// Dates left on the occurrence keep the series anchored where it was.
		if in.StartDate == "" || in.StartDate == occurrence {
			in.StartDate = template.StartDate
			in.EndDate = template.EndDate
		}
		return Mutation{Action: ActionUpdate, EventID: template.EventID, Input: in}
	}
}
