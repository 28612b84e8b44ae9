// Package reminder finds calendar events that are about to start and
// announces each one once.
package reminder

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/recurrence"
)

// DefaultWindow is how far ahead reminders look.
const DefaultWindow = 24 * time.Hour

// Reminder is an event occurrence starting within the window.
type Reminder struct {
	Event model.CalendarEvent
	// Date is the occurrence date, yyyy-MM-dd.
	Date string
	// Hours until the start, rounded to the nearest hour.
	Hours int
}

// Upcoming returns the stored and derived events that start after now and
// no later than now+within, in date order. Events carry dates only, so an
// occurrence starts at midnight in now's location.
func Upcoming(events []model.CalendarEvent, now time.Time, within time.Duration, opts recurrence.Options) []Reminder {
	if within <= 0 {
		within = DefaultWindow
	}
	var out []Reminder
	for _, e := range recurrence.Occurrences(events, now, now.Add(within), opts) {
		day, err := model.ParseDate(e.StartDate)
		if err != nil {
			continue
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
		until := start.Sub(now)
		if until <= 0 || until > within {
			continue
		}
		out = append(out, Reminder{
			Event: e,
			Date:  day.Format(model.DateLayout),
			Hours: int(math.Round(until.Hours())),
		})
	}
	return out
}

// Key identifies the occurrence for de-duplication.
func (r Reminder) Key() (eventID, date string) {
	return r.Event.TemplateID(), r.Date
}

func (r Reminder) timeText() string {
	switch {
	case r.Hours < 1:
		return "in less than an hour"
	case r.Hours == 1:
		return "in 1 hour"
	case r.Hours < 24:
		return fmt.Sprintf("in %d hours", r.Hours)
	}
	if days := r.Hours / 24; days > 1 {
		return fmt.Sprintf("in %d days", days)
	}
	return "tomorrow"
}

// Format renders the notification text, e.g. "Upcoming: Weekend" and
// "parenting time in 3 hours at Home".
func Format(r Reminder) (title, body string) {
	title = "Upcoming: " + r.Event.Title
	body = strings.ReplaceAll(string(r.Event.EventType), "_", " ") + " " + r.timeText()
	if r.Event.Location != "" {
		body += " at " + r.Event.Location
	}
	return title, body
}
