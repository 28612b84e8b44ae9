package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dukerupert/custodykeeper/internal/export"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/recurrence"
	"github.com/spf13/cobra"
)

var (
	calendarMonth  string
	exportMonth    string
	exportSeverity string
	exportOut      string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "List a month of events, recurring instances included",
	RunE:  runCalendar,
}

var exportCmd = &cobra.Command{
	Use:   "export <journals|violations|calendar|all>",
	Short: "Write a PDF report or a JSON export",
	Long: `Write a court-ready PDF of journals, violations or a calendar month, or a
JSON export of every record.

The file name defaults to the one the web client would download.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"journals", "violations", "calendar", "all"},
	RunE:      runExport,
}

func init() {
	calendarCmd.Flags().StringVarP(&calendarMonth, "month", "m", "", "Month as yyyy-MM (default current)")
	exportCmd.Flags().StringVarP(&exportMonth, "month", "m", "", "Calendar month as yyyy-MM (default current)")
	exportCmd.Flags().StringVar(&exportSeverity, "severity", "", "Only violations of this severity")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (- for stdout)")
}

// parseMonth returns the first of the month named by s, or of the current
// month when s is empty.
func parseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("month must be yyyy-MM, got %q", s)
	}
	return t, nil
}

func runCalendar(cmd *cobra.Command, args []string) error {
	month, err := parseMonth(calendarMonth, time.Now())
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	c, err := a.client()
	if err != nil {
		return err
	}

	events, err := c.ListEvents(cmd.Context())
	if err != nil {
		return err
	}
	printMonth(cmd.OutOrStdout(), recurrence.Month(events, month, a.recurrence()))
	return nil
}

func printMonth(w io.Writer, days []recurrence.Day) {
	found := false
	for _, d := range days {
		if !d.InMonth || len(d.Events) == 0 {
			continue
		}
		found = true
		fmt.Fprintln(w, d.Date.Format("Mon Jan 2"))
		for _, e := range d.Events {
			line := "  " + e.Title + " (" + e.EventType.Label() + ")"
			if e.Location != "" {
				line += " @ " + e.Location
			}
			if desc := recurrence.DescribeEvent(e); desc != "" {
				line += " - " + desc
			}
			fmt.Fprintln(w, line)
		}
	}
	if !found {
		fmt.Fprintln(w, "No events this month")
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	kind := strings.ToLower(args[0])
	now := time.Now()

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	c, err := a.client()
	if err != nil {
		return err
	}
	user, _ := a.sess.User()
	ctx := cmd.Context()

	var (
		buf      bytes.Buffer
		fileName string
	)
	switch kind {
	case "journals":
		data, err := c.LoadJournalReport(ctx)
		if err != nil {
			return err
		}
		report := export.Report{
			Kind:       export.KindJournal,
			PreparedBy: user.FullName,
			State:      user.State,
			Generated:  now,
			Journals:   data.Journals,
			Children:   data.Children,
		}
		fileName = report.FileName()
		if err := export.RecordsPDF(&buf, report); err != nil {
			return err
		}
	case "violations":
		severity := model.Severity(exportSeverity)
		if severity != "" && !severity.Valid() {
			return fmt.Errorf("severity must be low, medium or high")
		}
		violations, err := c.AllViolations(ctx, severity)
		if err != nil {
			return err
		}
		report := export.Report{
			Kind:       export.KindViolations,
			PreparedBy: user.FullName,
			State:      user.State,
			Generated:  now,
			Violations: violations,
		}
		fileName = report.FileName()
		if err := export.RecordsPDF(&buf, report); err != nil {
			return err
		}
	case "calendar":
		month, err := parseMonth(exportMonth, now)
		if err != nil {
			return err
		}
		events, err := c.ListEvents(ctx)
		if err != nil {
			return err
		}
		report := export.CalendarReport{
			Month:      month,
			Events:     events,
			PreparedBy: user.FullName,
			Generated:  now,
			Options:    a.recurrence(),
		}
		fileName = report.FileName()
		if err := export.CalendarPDF(&buf, report); err != nil {
			return err
		}
	case "all":
		bundle, err := c.ExportAll(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(bundle); err != nil {
			return err
		}
		fileName = "custodykeeper_export_" + now.Format("2006-01-02") + ".json"
	default:
		return fmt.Errorf("unknown export %q, want journals, violations, calendar or all", kind)
	}

	return writeOutput(cmd.OutOrStdout(), exportOut, fileName, buf.Bytes())
}

func writeOutput(stdout io.Writer, out, fileName string, data []byte) error {
	if out == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if out == "" {
		out = fileName
	}
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(stdout, "Wrote %s (%d bytes)\n", out, len(data))
	return nil
}
