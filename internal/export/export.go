// Package export renders court-ready PDF reports of journal entries,
// violations and calendar months.
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

const (
	brandTitle  = "CUSTODYKEEPER"
	footerBrand = "CustodyKeeper - Family Court Documentation"
	disclaimer  = "This document is generated for record-keeping purposes. Verify all information before submission to court."
	fileLayout  = "2006-01-02"
	longDate    = "January 2, 2006"
	stampLayout = "January 2, 2006 at 3:04 PM"
)

type rgb struct{ r, g, b int }

var (
	headerFill  = rgb{44, 62, 80}
	infoFill    = rgb{248, 248, 248}
	infoBorder  = rgb{200, 200, 200}
	boxBorder   = rgb{220, 220, 220}
	eventFill   = rgb{232, 246, 243}
	infoText    = rgb{80, 80, 80}
	metaText    = rgb{100, 100, 100}
	noteText    = rgb{120, 120, 120}
	footerText  = rgb{150, 150, 150}
	black       = rgb{0, 0, 0}
	white       = rgb{255, 255, 255}
	tableBorder = rgb{200, 200, 200}
)

// doc wraps an fpdf document with the helpers shared by every report.
type doc struct {
	*fpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64
}

func newDoc(orientation string, generated time.Time) *doc {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(14, 20, 14)
	pdf.AliasNbPages("")
	pdf.SetCreator("CustodyKeeper", true)
	if !generated.IsZero() {
		pdf.SetCreationDate(generated)
	}
	w, h := pdf.GetPageSize()
	return &doc{
		Fpdf:   pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		width:  w,
		height: h,
	}
}

func (d *doc) textColor(c rgb) { d.SetTextColor(c.r, c.g, c.b) }
func (d *doc) fillColor(c rgb) { d.SetFillColor(c.r, c.g, c.b) }
func (d *doc) drawColor(c rgb) { d.SetDrawColor(c.r, c.g, c.b) }

// text writes s at (x, y) after translating it to the core font encoding.
func (d *doc) text(x, y float64, s string) {
	d.Text(x, y, d.tr(s))
}

func (d *doc) centered(y float64, s string) {
	s = d.tr(s)
	d.Text((d.width-d.GetStringWidth(s))/2, y, s)
}

func (d *doc) rightAligned(right, y float64, s string) {
	s = d.tr(s)
	d.Text(right-d.GetStringWidth(s), y, s)
}

// lines wraps s to width w in the current font.
func (d *doc) lines(s string, w float64) []string {
	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(para) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, d.SplitText(d.tr(para), w)...)
	}
	return out
}

// fit shortens s until it is at most w wide in the current font.
func (d *doc) fit(s string, w float64) string {
	s = d.tr(s)
	for s != "" && d.GetStringWidth(s) > w {
		s = s[:len(s)-1]
	}
	return s
}

// truncate cuts s to n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func formatDate(s string, parse func(string) (time.Time, error)) string {
	t, err := parse(s)
	if err != nil {
		return s
	}
	return t.Format(longDate)
}

func fileName(kind string, suffix string) string {
	return fmt.Sprintf("CustodyKeeper_%s_%s.pdf", kind, suffix)
}
