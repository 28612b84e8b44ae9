package timeline

import (
	"testing"
	"time"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/google/go-cmp/cmp"
)

var now = time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)

func sampleSources() Sources {
	return Sources{
		Journals: []model.JournalEntry{
			{JournalID: "j1", Title: "Pickup went well", Content: "Kids were happy", Date: "2024-03-02", Mood: model.MoodHappy, ChildrenInvolved: []string{"c1"}},
		},
		Violations: []model.Violation{
			{ViolationID: "v1", Title: "Late exchange", Description: "Arrived 2 hours late", Date: "2024-03-05", Severity: model.SeverityHigh},
			{ViolationID: "v2", ViolationType: "no_show", Description: "Did not show", Date: "2024-01-15"},
		},
		Events: []model.CalendarEvent{
			{EventID: "e1", Title: "Hearing", StartDate: "2024-04-01", EventType: model.EventFamilyCourt},
		},
		Documents: []model.Document{
			{DocumentID: "d1", FileName: "order.pdf", CreatedAt: "2024-02-10T09:30:00+00:00", FileType: "application/pdf", Category: "court_order"},
			{DocumentID: "d2", FileName: "notes.pdf"},
		},
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestBuildNormalizes(t *testing.T) {
	records := Build(sampleSources(), now)
	if len(records) != 6 {
		t.Fatalf("got %d records, want 6", len(records))
	}

	byID := map[string]Record{}
	for _, r := range records {
		byID[r.ID] = r
	}

	if got := byID["v2"].Title; got != "No Show for Exchange Violation" {
		t.Errorf("untitled violation title = %q", got)
	}
	if got := byID["e1"].Content; got != "family_court event" {
		t.Errorf("event without notes content = %q", got)
	}
	if got := byID["d1"].Date; got != "2024-02-10" {
		t.Errorf("document date = %q, want 2024-02-10", got)
	}
	if got := byID["d2"].Date; got != "2024-05-20" {
		t.Errorf("undated document date = %q, want today", got)
	}
	if got := byID["d2"].Content; got != "Document uploaded" {
		t.Errorf("document content = %q", got)
	}
}

func TestFilterDefaultNewestFirst(t *testing.T) {
	got, err := Filter{}.Apply(Build(sampleSources(), now))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := []string{"d2", "e1", "v1", "j1", "d1", "v2"}
	if diff := cmp.Diff(want, ids(got)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	records := Build(sampleSources(), now)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"by type", Filter{Type: TypeViolation}, []string{"v1", "v2"}},
		{"all type", Filter{Type: "all", To: "2024-01-31"}, []string{"v2"}},
		{"search title case-insensitive", Filter{Query: "PICKUP"}, []string{"j1"}},
		{"search content", Filter{Query: "2 hours"}, []string{"v1"}},
		{"inclusive range", Filter{From: "2024-02-10", To: "2024-03-05", Ascending: true}, []string{"d1", "j1", "v1"}},
		{"nothing", Filter{Query: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Apply(records)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("ids (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterBadDate(t *testing.T) {
	if _, err := (Filter{From: "March"}).Apply(nil); err == nil {
		t.Error("expected error for invalid from date")
	}
}

func TestCounts(t *testing.T) {
	counts := Counts(Build(sampleSources(), now))
	want := map[RecordType]int{TypeJournal: 1, TypeViolation: 2, TypeEvent: 1, TypeDocument: 2}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("counts (-want +got):\n%s", diff)
	}
}
