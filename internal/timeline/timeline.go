// Package timeline merges journals, violations, events and documents into
// one chronological record list.
package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dukerupert/custodykeeper/internal/model"
)

type RecordType string

const (
	TypeJournal   RecordType = "journal"
	TypeViolation RecordType = "violation"
	TypeEvent     RecordType = "event"
	TypeDocument  RecordType = "document"
)

func (t RecordType) Valid() bool {
	switch t {
	case TypeJournal, TypeViolation, TypeEvent, TypeDocument:
		return true
	}
	return false
}

type Record struct {
	ID      string            `json:"id"`
	Type    RecordType        `json:"type"`
	Title   string            `json:"title"`
	Content string            `json:"content"`
	Date    string            `json:"date"`
	Meta    map[string]string `json:"metadata,omitempty"`
}

// Sources are the four record lists a timeline is built from.
type Sources struct {
	Journals   []model.JournalEntry
	Violations []model.Violation
	Events     []model.CalendarEvent
	Documents  []model.Document
}

// Build normalizes every source record. Documents without an upload time
// are dated today.
func Build(src Sources, now time.Time) []Record {
	records := make([]Record, 0, len(src.Journals)+len(src.Violations)+len(src.Events)+len(src.Documents))

	for _, j := range src.Journals {
		records = append(records, Record{
			ID:      j.JournalID,
			Type:    TypeJournal,
			Title:   j.Title,
			Content: j.Content,
			Date:    j.Date,
			Meta: map[string]string{
				"mood":     string(j.Mood),
				"children": strings.Join(j.ChildrenInvolved, ","),
			},
		})
	}

	for _, v := range src.Violations {
		title := v.Title
		if title == "" {
			title = v.ViolationType.Label() + " Violation"
		}
		records = append(records, Record{
			ID:      v.ViolationID,
			Type:    TypeViolation,
			Title:   title,
			Content: v.Description,
			Date:    v.Date,
			Meta: map[string]string{
				"severity":  string(v.Severity),
				"witnesses": v.Witnesses,
			},
		})
	}

	for _, e := range src.Events {
		content := e.Notes
		if content == "" {
			content = fmt.Sprintf("%s event", e.EventType)
		}
		records = append(records, Record{
			ID:      e.EventID,
			Type:    TypeEvent,
			Title:   e.Title,
			Content: content,
			Date:    e.StartDate,
			Meta: map[string]string{
				"location":   e.Location,
				"event_type": string(e.EventType),
			},
		})
	}

	for _, d := range src.Documents {
		content := d.Description
		if content == "" {
			content = "Document uploaded"
		}
		date, _, _ := strings.Cut(d.Uploaded(), "T")
		if date == "" {
			date = now.Format(model.DateLayout)
		}
		records = append(records, Record{
			ID:      d.DocumentID,
			Type:    TypeDocument,
			Title:   d.FileName,
			Content: content,
			Date:    date,
			Meta: map[string]string{
				"file_type": d.FileType,
				"category":  string(d.Category),
			},
		})
	}

	return records
}

// Filter narrows and orders a timeline. Zero values select everything.
type Filter struct {
	Type      RecordType // "" or "all" for every type
	Query     string
	From      string // yyyy-MM-dd, inclusive
	To        string // yyyy-MM-dd, inclusive
	Ascending bool
}

// Apply returns the matching records sorted by date, newest first unless
// Ascending is set. records is not modified.
func (f Filter) Apply(records []Record) ([]Record, error) {
	var from, to time.Time
	var err error
	if f.From != "" {
		if from, err = model.ParseDate(f.From); err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
	}
	if f.To != "" {
		if to, err = model.ParseDate(f.To); err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Type != "" && f.Type != "all" && r.Type != f.Type {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(r.Title), query) &&
			!strings.Contains(strings.ToLower(r.Content), query) {
			continue
		}
		if !from.IsZero() || !to.IsZero() {
			d, err := model.ParseDate(r.Date)
			if err != nil {
				continue
			}
			if !from.IsZero() && d.Before(from) {
				continue
			}
			if !to.IsZero() && d.After(to) {
				continue
			}
		}
		out = append(out, r)
	}

	Sort(out, f.Ascending)
	return out, nil
}

// Sort orders records by date. Records with equal dates keep their order.
func Sort(records []Record, ascending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		if ascending {
			return records[i].Date < records[j].Date
		}
		return records[i].Date > records[j].Date
	})
}

// Counts tallies records per type.
func Counts(records []Record) map[RecordType]int {
	counts := make(map[RecordType]int, 4)
	for _, r := range records {
		counts[r.Type]++
	}
	return counts
}
