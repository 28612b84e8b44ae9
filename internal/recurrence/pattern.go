package recurrence

import (
	"fmt"
	"strings"

	"github.com/dukerupert/custodykeeper/internal/model"
)

var patternFromName = map[string]model.RecurrencePattern{
	"daily":    model.PatternDaily,
	"weekly":   model.PatternWeekly,
	"biweekly": model.PatternBiweekly,
	"monthly":  model.PatternMonthly,
}

var patternDescriptions = map[model.RecurrencePattern]string{
	model.PatternDaily:    "Repeats daily",
	model.PatternWeekly:   "Repeats weekly",
	model.PatternBiweekly: "Repeats every 2 weeks",
	model.PatternMonthly:  "Repeats monthly",
}

// stepDays is the fixed day period of each pattern; monthly has none.
var stepDays = map[model.RecurrencePattern]int{
	model.PatternDaily:    1,
	model.PatternWeekly:   7,
	model.PatternBiweekly: 14,
}

// ParsePattern parses a pattern name such as "weekly" (case-insensitive).
func ParsePattern(s string) (model.RecurrencePattern, error) {
	p, ok := patternFromName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return model.PatternNone, fmt.Errorf("unknown recurrence pattern: %q", s)
	}
	return p, nil
}

// Describe returns a human-readable description of the pattern.
func Describe(p model.RecurrencePattern) string {
	return patternDescriptions[p]
}

// DescribeEvent describes an event's recurrence including its end bound.
func DescribeEvent(e model.CalendarEvent) string {
	if !e.Recurring || !e.RecurrencePattern.Valid() {
		return ""
	}
	desc := Describe(e.RecurrencePattern)
	if e.RecurrenceEndDate != "" {
		if until, err := model.ParseDate(e.RecurrenceEndDate); err == nil {
			desc += " until " + until.Format("Jan 2, 2006")
		}
	}
	return desc
}
