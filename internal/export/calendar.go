package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/recurrence"
)

// CalendarReport is the input to CalendarPDF. Events may include recurring
// templates; their instances for Month are expanded before rendering.
type CalendarReport struct {
	Month      time.Time
	Events     []model.CalendarEvent
	PreparedBy string
	Generated  time.Time
	Options    recurrence.Options
}

func (r CalendarReport) FileName() string {
	return fileName("Calendar", r.Month.Format("2006-01"))
}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

const (
	colWidth   = 38.0
	cellLine   = 4.0
	cellMinH   = 18.0
	headRowH   = 8.0
	listRowH   = 7.0
	notesLimit = 50
)

// monthEvents returns every stored or derived event dated within the month
// of r.Month, in date order.
func (r CalendarReport) monthEvents() []model.CalendarEvent {
	first := time.Date(r.Month.Year(), r.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return recurrence.Occurrences(r.Events, first, last, r.Options)
}

// weeks splits the days of the month into Sunday-first rows. Cells outside
// the month are zero.
func weeksOf(month time.Time) [][7]time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	var weeks [][7]time.Time
	var week [7]time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		week[d.Weekday()] = d
		if d.Weekday() == time.Saturday || d.AddDate(0, 0, 1).Month() != first.Month() {
			weeks = append(weeks, week)
			week = [7]time.Time{}
		}
	}
	return weeks
}

// CalendarPDF writes a landscape month calendar followed by a list of the
// month's events.
func CalendarPDF(w io.Writer, r CalendarReport) error {
	generated := r.Generated
	if generated.IsZero() {
		generated = time.Now()
	}
	d := newDoc("L", generated)
	d.SetTitle("Calendar - "+r.Month.Format("January 2006"), true)
	d.SetFooterFunc(func() {
		d.SetFont("Helvetica", "", 8)
		d.textColor(footerText)
		d.centered(d.height-10, fmt.Sprintf("Page %d of {nb}", d.PageNo()))
	})
	d.AddPage()

	d.SetFont("Helvetica", "B", 20)
	d.textColor(black)
	d.text(14, 15, brandTitle)
	d.SetFont("Helvetica", "B", 16)
	d.text(14, 25, "Calendar - "+r.Month.Format("January 2006"))
	d.SetFont("Helvetica", "", 10)
	d.textColor(metaText)
	d.text(14, 32, "Generated: "+generated.Format(longDate))
	if r.PreparedBy != "" {
		d.text(14, 37, "Prepared by: "+r.PreparedBy)
	}

	events := r.monthEvents()
	byDate := make(map[string][]model.CalendarEvent)
	for _, e := range events {
		key := e.StartDate
		if t, err := model.ParseDate(key); err == nil {
			key = t.Format(model.DateLayout)
		}
		byDate[key] = append(byDate[key], e)
	}

	y := 45.0
	limit := d.height - 15
	head := func() {
		d.drawColor(tableBorder)
		d.SetLineWidth(0.5)
		d.fillColor(headerFill)
		d.textColor(white)
		d.SetFont("Helvetica", "B", 8)
		for i, name := range weekdays {
			d.SetXY(14+float64(i)*colWidth, y)
			d.CellFormat(colWidth, headRowH, name, "1", 0, "C", true, 0, "")
		}
		y += headRowH
	}
	head()

	d.SetFont("Helvetica", "", 8)
	for _, week := range weeksOf(r.Month) {
		cells := make([][]string, 7)
		rowH := cellMinH
		for i, day := range week {
			if day.IsZero() {
				continue
			}
			lines := []string{day.Format("2")}
			for _, e := range byDate[day.Format(model.DateLayout)] {
				lines = append(lines, d.SplitText(d.tr("• "+e.Title), colWidth-6)...)
			}
			cells[i] = lines
			if h := float64(len(lines))*cellLine + 6; h > rowH {
				rowH = h
			}
		}
		if y+rowH > limit {
			d.AddPage()
			y = 20
			head()
			d.SetFont("Helvetica", "", 8)
		}
		for i, lines := range cells {
			x := 14 + float64(i)*colWidth
			style := "D"
			if len(lines) > 1 {
				d.fillColor(eventFill)
				style = "FD"
			}
			d.drawColor(tableBorder)
			d.Rect(x, y, colWidth, rowH, style)
			d.textColor(black)
			for n, line := range lines {
				d.Text(x+3, y+6+float64(n)*cellLine, line)
			}
		}
		y += rowH
	}

	if len(events) == 0 {
		return d.Output(w)
	}

	y += 10
	if y+20 > limit {
		d.AddPage()
		y = 20
	}
	d.SetFont("Helvetica", "B", 12)
	d.textColor(black)
	d.text(14, y, "Events This Month")
	y += 5

	columns := []struct {
		name  string
		width float64
	}{
		{"Date", 25}, {"Event", 70}, {"Type", 45}, {"Location", 60}, {"Notes", 69},
	}
	listHead := func() {
		d.SetFont("Helvetica", "B", 8)
		d.fillColor(headerFill)
		d.textColor(white)
		d.SetLineWidth(0.2)
		x := 14.0
		for _, c := range columns {
			d.SetXY(x, y)
			d.CellFormat(c.width, listRowH, c.name, "1", 0, "L", true, 0, "")
			x += c.width
		}
		y += listRowH
	}
	listHead()

	for _, e := range events {
		if y+listRowH > limit {
			d.AddPage()
			y = 20
			listHead()
		}
		date := e.StartDate
		if t, err := model.ParseDate(e.StartDate); err == nil {
			date = t.Format("Jan 2")
		}
		row := []string{
			date,
			e.Title,
			strings.ReplaceAll(string(e.EventType), "_", " "),
			orDefault(e.Location, "-"),
			orDefault(truncate(e.Notes, notesLimit), "-"),
		}
		d.SetFont("Helvetica", "", 8)
		d.textColor(black)
		x := 14.0
		for i, c := range columns {
			d.SetXY(x, y)
			d.CellFormat(c.width, listRowH, d.fit(row[i], c.width-2), "1", 0, "L", false, 0, "")
			x += c.width
		}
		y += listRowH
	}

	return d.Output(w)
}
