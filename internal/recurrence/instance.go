package recurrence

import (
	"slices"
	"time"

	"github.com/dukerupert/custodykeeper/internal/model"
)

// DefaultHorizonMonths caps open-ended series for display.
const DefaultHorizonMonths = 6

// Options tunes instance generation.
type Options struct {
	// HorizonMonths bounds a series without a recurrence end date,
	// counted from the template's start date.
	HorizonMonths int
}

// DefaultOptions returns Options with the default horizon.
func DefaultOptions() Options {
	return Options{HorizonMonths: DefaultHorizonMonths}
}

func (o Options) horizon() int {
	if o.HorizonMonths <= 0 {
		return DefaultHorizonMonths
	}
	return o.HorizonMonths
}

// InstanceID is the id of the instance of templateID on date d.
func InstanceID(templateID string, d time.Time) string {
	return templateID + "-" + DateOf(d).Format(model.DateLayout)
}

// SplitInstanceID reverses InstanceID. ok is false for ids that do not end
// in a -yyyy-MM-dd suffix.
func SplitInstanceID(id string) (templateID, date string, ok bool) {
	const suffix = len("-2006-01-02")
	if len(id) <= suffix || id[len(id)-suffix] != '-' {
		return "", "", false
	}
	date = id[len(id)-suffix+1:]
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return "", "", false
	}
	return id[:len(id)-suffix], date, true
}

// EndBound is the last date a template can produce an instance on.
func EndBound(e model.CalendarEvent, start time.Time, opts Options) time.Time {
	if e.RecurrenceEndDate != "" {
		if until, err := model.ParseDate(e.RecurrenceEndDate); err == nil {
			return until
		}
	}
	return AddMonths(start, opts.horizon())
}

// Matches reports whether template e recurs on date d. The start date
// itself never matches: the stored template already represents it.
func Matches(e model.CalendarEvent, d time.Time, opts Options) bool {
	if !e.Recurring || !e.RecurrencePattern.Valid() {
		return false
	}
	start, err := model.ParseDate(e.StartDate)
	if err != nil {
		return false
	}
	day := DateOf(d)
	if day.Equal(start) || day.Before(start) || day.After(EndBound(e, start, opts)) {
		return false
	}

	delta := DaysBetween(start, day)
	switch e.RecurrencePattern {
	case model.PatternMonthly:
		// No month-end clamping: a series on the 31st skips shorter months.
		return day.Day() == start.Day()
	default:
		return delta%stepDays[e.RecurrencePattern] == 0
	}
}

// Instance derives the display-only occurrence of template e on date d.
// e is not modified.
func Instance(e model.CalendarEvent, d time.Time, opts Options) (model.CalendarEvent, bool) {
	if !Matches(e, d, opts) {
		return model.CalendarEvent{}, false
	}
	date := DateOf(d).Format(model.DateLayout)

	inst := e
	inst.ChildrenInvolved = slices.Clone(e.ChildrenInvolved)
	inst.EventID = InstanceID(e.EventID, d)
	inst.StartDate = date
	inst.EndDate = date
	inst.IsRecurringInstance = true
	inst.OriginalEventID = e.EventID
	return inst, true
}
