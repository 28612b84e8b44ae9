package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dukerupert/custodykeeper/internal/model"
)

// Kind selects which record list a Report renders.
type Kind int

const (
	KindJournal Kind = iota
	KindViolations
)

func (k Kind) String() string {
	if k == KindViolations {
		return "Violations"
	}
	return "Journal"
}

func (k Kind) defaultTitle() string {
	if k == KindViolations {
		return "Violation Log Records"
	}
	return "Journal Entry Records"
}

// Report is the input to RecordsPDF.
type Report struct {
	Kind       Kind
	Title      string
	PreparedBy string
	State      string
	Generated  time.Time
	Journals   []model.JournalEntry
	Violations []model.Violation
	// Children resolves the child ids on journal entries to names.
	Children []model.Child
}

// FileName is the download name for the report, stamped with its
// generation date.
func (r Report) FileName() string {
	return fileName(r.Kind.String(), r.generated().Format(fileLayout))
}

func (r Report) generated() time.Time {
	if r.Generated.IsZero() {
		return time.Now()
	}
	return r.Generated
}

// entry is one rendered record, independent of its source type.
type entry struct {
	title   string
	date    string
	content string
	meta    []string
}

func (r Report) entries() []entry {
	if r.Kind == KindViolations {
		out := make([]entry, 0, len(r.Violations))
		for _, v := range r.Violations {
			var meta []string
			if v.Witnesses != "" {
				meta = append(meta, "Witnesses: "+v.Witnesses)
			}
			if v.EvidenceNotes != "" {
				meta = append(meta, "Evidence: "+v.EvidenceNotes)
			}
			severity := "N/A"
			if v.Severity != "" {
				severity = strings.ToUpper(string(v.Severity[:1])) + string(v.Severity[1:])
			}
			kind := "Violation"
			if v.ViolationType != "" {
				kind = v.ViolationType.Label()
			}
			out = append(out, entry{
				title:   fmt.Sprintf("%s - %s Severity", kind, severity),
				date:    v.Date,
				content: v.Description,
				meta:    meta,
			})
		}
		return out
	}

	out := make([]entry, 0, len(r.Journals))
	for _, j := range r.Journals {
		var meta []string
		if j.Mood != "" {
			meta = append(meta, "Mood: "+j.Mood.Label())
		}
		if j.Location != "" {
			meta = append(meta, "Location: "+j.Location)
		}
		if len(j.ChildrenInvolved) > 0 {
			meta = append(meta, "Children: "+strings.Join(model.ChildNames(r.Children, j.ChildrenInvolved), ", "))
		}
		out = append(out, entry{title: j.Title, date: j.Date, content: j.Content, meta: meta})
	}
	return out
}

const (
	lineHeight = 5.0
	boxPadding = 30.0
	minBox     = 40.0
	bottomEdge = 20.0
)

// RecordsPDF writes a court-ready PDF of the journal entries or violations
// in r to w.
func RecordsPDF(w io.Writer, r Report) error {
	generated := r.generated()
	d := newDoc("P", generated)
	d.SetTitle(orDefault(r.Title, r.Kind.defaultTitle()), true)
	d.SetFooterFunc(func() {
		d.SetFont("Helvetica", "", 8)
		d.textColor(footerText)
		d.centered(d.height-10, fmt.Sprintf("Page %d of {nb}", d.PageNo()))
		d.rightAligned(d.width-14, d.height-10, footerBrand)
	})
	d.AddPage()

	entries := r.entries()
	y := 20.0

	d.SetFont("Helvetica", "B", 18)
	d.textColor(black)
	d.centered(y, brandTitle)
	y += 8
	d.SetFont("Helvetica", "B", 14)
	d.centered(y, strings.ToUpper(orDefault(r.Title, r.Kind.defaultTitle())))
	y += 10

	d.drawColor(infoBorder)
	d.fillColor(infoFill)
	d.Rect(14, y, d.width-28, 25, "FD")
	d.SetFont("Helvetica", "", 10)
	d.textColor(infoText)
	d.text(20, y+8, "Generated: "+generated.Format(stampLayout))
	d.text(20, y+15, "Prepared by: "+orDefault(r.PreparedBy, "Parent"))
	d.text(20, y+22, "State: "+orDefault(r.State, "N/A"))
	d.text(d.width-60, y+15, fmt.Sprintf("Total Records: %d", len(entries)))
	y += 35

	d.SetFont("Helvetica", "", 8)
	d.textColor(noteText)
	d.centered(y, disclaimer)
	y += 15

	ensure := func(space float64) {
		if y+space > d.height-bottomEdge {
			d.AddPage()
			y = 20
		}
	}

	contentWidth := d.width - 40
	for i, e := range entries {
		ensure(60)

		d.fillColor(headerFill)
		d.Rect(14, y, d.width-28, 10, "F")
		d.SetFont("Helvetica", "B", 11)
		d.textColor(white)
		date := formatDate(e.date, model.ParseDate)
		title := d.fit(fmt.Sprintf("Record #%d: %s", i+1, e.title), d.width-50-20-4)
		d.Text(20, y+7, title)
		d.text(d.width-50, y+7, date)
		y += 15

		d.SetFont("Helvetica", "", 10)
		lines := d.lines(orDefault(e.content, "No content provided."), contentWidth)

		// Content longer than a page continues in further boxes.
		for len(lines) > 0 {
			avail := d.height - bottomEdge - y - 10
			fits := int((avail - boxPadding) / lineHeight)
			if fits < 1 {
				d.AddPage()
				y = 20
				continue
			}
			chunk := lines
			if len(chunk) > fits {
				chunk = lines[:fits]
			}
			lines = lines[len(chunk):]

			height := float64(len(chunk))*lineHeight + boxPadding
			if height < minBox {
				height = minBox
			}
			d.drawColor(boxBorder)
			d.fillColor(white)
			d.Rect(14, y, d.width-28, height, "FD")

			d.SetFont("Helvetica", "", 10)
			d.textColor(black)
			for n, line := range chunk {
				d.Text(20, y+8+float64(n)*lineHeight, line)
			}

			if len(lines) == 0 && len(e.meta) > 0 {
				d.SetFont("Helvetica", "", 8)
				d.textColor(metaText)
				d.Text(20, y+height-12, d.fit(strings.Join(e.meta, "  |  "), d.width-40))
			}
			y += height + 10
		}
	}

	return d.Output(w)
}
