package recurrence

import (
	"time"

	"github.com/dukerupert/custodykeeper/internal/model"
)

// Day is one cell of a month grid.
type Day struct {
	Date    time.Time             `json:"-"`
	Key     string                `json:"date"`
	InMonth bool                  `json:"in_month"`
	Events  []model.CalendarEvent `json:"events"`
}

// EventsOn returns the events shown on date d: stored events starting that
// day, plus instances derived from recurring templates. Order follows events.
func EventsOn(events []model.CalendarEvent, d time.Time, opts Options) []model.CalendarEvent {
	day := DateOf(d)
	out := []model.CalendarEvent{}
	for _, e := range events {
		if start, err := model.ParseDate(e.StartDate); err == nil && start.Equal(day) {
			out = append(out, e)
			continue
		}
		if inst, ok := Instance(e, day, opts); ok {
			out = append(out, inst)
		}
	}
	return out
}

// MonthGrid returns the dates of a Sunday-first grid covering month's month.
func MonthGrid(month time.Time) []time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, time.UTC)

	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var days []time.Time
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Month builds the grid for month with each day's events.
func Month(events []model.CalendarEvent, month time.Time, opts Options) []Day {
	grid := MonthGrid(month)
	days := make([]Day, 0, len(grid))
	for _, d := range grid {
		days = append(days, Day{
			Date:    d,
			Key:     d.Format(model.DateLayout),
			InMonth: d.Month() == month.Month(),
			Events:  EventsOn(events, d, opts),
		})
	}
	return days
}

// Occurrences lists every stored and derived event from from through to,
// inclusive, in date order.
func Occurrences(events []model.CalendarEvent, from, to time.Time, opts Options) []model.CalendarEvent {
	var out []model.CalendarEvent
	for d := DateOf(from); !d.After(DateOf(to)); d = d.AddDate(0, 0, 1) {
		out = append(out, EventsOn(events, d, opts)...)
	}
	return out
}
