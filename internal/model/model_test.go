package model

import (
	"errors"
	"testing"
)

func TestEventInputValidate(t *testing.T) {
	tests := []struct {
		name  string
		in    EventInput
		field string
	}{
		{"valid single day", EventInput{Title: "Weekend", StartDate: "2024-01-06"}, ""},
		{"missing title", EventInput{StartDate: "2024-01-06"}, "title"},
		{"bad start", EventInput{Title: "x", StartDate: "01/06/2024"}, "start_date"},
		{"end before start", EventInput{Title: "x", StartDate: "2024-01-06", EndDate: "2024-01-05"}, "end_date"},
		{"unknown type", EventInput{Title: "x", StartDate: "2024-01-06", EventType: "picnic"}, "event_type"},
		{"recurring without pattern", EventInput{Title: "x", StartDate: "2024-01-06", Recurring: true}, "recurrence_pattern"},
		{"recurrence end before start", EventInput{Title: "x", StartDate: "2024-01-06", Recurring: true, RecurrencePattern: PatternWeekly, RecurrenceEndDate: "2024-01-01"}, "recurrence_end_date"},
		{"bad color", EventInput{Title: "x", StartDate: "2024-01-06", CustomColor: "red"}, "custom_color"},
		{"valid recurring", EventInput{Title: "x", StartDate: "2024-01-06", Recurring: true, RecurrencePattern: PatternBiweekly}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			err := in.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestEventInputDefaults(t *testing.T) {
	in := EventInput{Title: "Exchange", StartDate: "2024-02-01", RecurrencePattern: PatternWeekly, RecurrenceEndDate: "2024-03-01"}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.EndDate != "2024-02-01" {
		t.Errorf("EndDate = %q, want start date", in.EndDate)
	}
	if in.EventType != EventParentingTime {
		t.Errorf("EventType = %q, want parenting_time", in.EventType)
	}
	if in.RecurrencePattern != PatternNone || in.RecurrenceEndDate != "" {
		t.Errorf("non-recurring event kept recurrence fields: %q %q", in.RecurrencePattern, in.RecurrenceEndDate)
	}
	if in.ChildrenInvolved == nil {
		t.Error("ChildrenInvolved should be an empty list, not nil")
	}
}

func TestJournalInputDefaultsMood(t *testing.T) {
	in := JournalInput{Title: "Pickup", Content: "On time", Date: "2024-05-01"}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Mood != MoodNeutral {
		t.Errorf("Mood = %q, want neutral", in.Mood)
	}

	in.Mood = "grumpy"
	if err := in.Validate(); err == nil {
		t.Error("expected error for unknown mood")
	}
}

func TestViolationInputSeverity(t *testing.T) {
	in := ViolationInput{Title: "Late", Description: "45 minutes late", Date: "2024-05-01", ViolationType: "late_pickup_dropoff"}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Severity != SeverityMedium {
		t.Errorf("Severity = %q, want medium", in.Severity)
	}

	in.Severity = "critical"
	if err := in.Validate(); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestSeverityRank(t *testing.T) {
	if !(SeverityHigh.Rank() > SeverityMedium.Rank() && SeverityMedium.Rank() > SeverityLow.Rank()) {
		t.Error("severity ranks out of order")
	}
	if Severity("bogus").Rank() != 0 {
		t.Error("unknown severity should rank 0")
	}
}

func TestShareTokenInputValidate(t *testing.T) {
	in := NewShareTokenInput("Attorney")
	if err := in.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	in.ExpiresDays = 0
	if err := in.Validate(); err == nil {
		t.Error("expected error for zero expiry")
	}

	in = NewShareTokenInput("Attorney")
	in.IncludeJournals, in.IncludeViolations, in.IncludeDocuments, in.IncludeCalendar = false, false, false, false
	if err := in.Validate(); err == nil {
		t.Error("expected error when nothing is shared")
	}
}

func TestPermissionLevel(t *testing.T) {
	if PermissionReadOnly.CanPrint() || PermissionReadOnly.CanDownload() {
		t.Error("read_only should not print or download")
	}
	if !PermissionReadPrint.CanPrint() || PermissionReadPrint.CanDownload() {
		t.Error("read_print should print but not download")
	}
	if !PermissionReadPrintDownload.CanDownload() {
		t.Error("read_print_download should download")
	}
}

func TestContactInputDropsBlankPhones(t *testing.T) {
	in := ContactInput{
		Name:   "Dr. Lee",
		Phones: []Phone{{Phone: " 555-0100 "}, {Phone: "  ", Label: "work"}},
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(in.Phones) != 1 {
		t.Fatalf("got %d phones, want 1", len(in.Phones))
	}
	if in.Phones[0].Phone != "555-0100" || in.Phones[0].Label != "mobile" {
		t.Errorf("phone = %+v", in.Phones[0])
	}
}

func TestChildNames(t *testing.T) {
	children := []Child{{ChildID: "c1", Name: "Ava"}, {ChildID: "c2", Name: "Ben"}}
	got := ChildNames(children, []string{"c2", "missing"})
	if len(got) != 2 || got[0] != "Ben" || got[1] != "Unknown" {
		t.Errorf("ChildNames = %v", got)
	}
}

func TestParseDateAcceptsTimestamps(t *testing.T) {
	d, err := ParseDate("2024-03-10T14:22:00+00:00")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Format(DateLayout) != "2024-03-10" {
		t.Errorf("ParseDate = %s", d.Format(DateLayout))
	}
}

func TestSharedViewDefaultTab(t *testing.T) {
	v := SharedView{Documents: []Document{{DocumentID: "d1"}}}
	if got := v.DefaultTab(); got != "documents" {
		t.Errorf("DefaultTab = %q, want documents", got)
	}
}

func TestTheme(t *testing.T) {
	if ThemeLight.Toggled() != ThemeDark || ThemeDark.Toggled() != ThemeLight {
		t.Error("light and dark should toggle to each other")
	}
	if Theme("sepia").Toggled() != ThemeDark {
		t.Error("unknown theme should toggle to dark")
	}

	if got, err := ParseTheme("dark"); err != nil || got != ThemeDark {
		t.Errorf("ParseTheme(dark) = %q, %v", got, err)
	}
	got, err := ParseTheme("sepia")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "theme" {
		t.Errorf("ParseTheme(sepia) err = %v", err)
	}
	if got != ThemeLight {
		t.Errorf("ParseTheme(sepia) = %q, want light", got)
	}
}
