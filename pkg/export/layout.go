// Package export renders daily reports to an A4 PDF.
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/store"
)

// Page geometry in millimetres, portrait A4.
const (
	pageWidth      = 210.0
	pageHeight     = 297.0
	marginTop      = 20.0
	marginBottom   = 10.0
	headerHeight   = 30.0
	firstEntryY    = 40.0
	breakThreshold = 255.0
	textX          = 14.0
	valueX         = 38.0
	bandX          = 10.0
	bandHeight     = 10.0
	bodyWidth      = pageWidth - 30
	lineHeight     = 5.0
)

const (
	emptyValue   = "—"
	noReportsMsg = "No reports found."
	defaultTitle = "Daily Work Report"
)

// OpKind identifies a drawing instruction.
type OpKind int

const (
	OpHeaderBand OpKind = iota
	OpTitle
	OpSubtitle
	OpEmpty
	OpDateBand
	OpLabel
	OpValue
	OpBody
	OpRule
)

// Op is one positioned drawing instruction. Text is UTF-8.
type Op struct {
	Kind OpKind
	X, Y float64
	W, H float64
	Text string
	Key  datekey.Key
}

// Page is the ordered drawing instructions for one page.
type Page struct {
	Ops []Op
}

// Plan is the laid-out document before any PDF bytes are produced.
type Plan struct {
	Filename string
	Entries  []datekey.Key
	Pages    []Page
}

// Measurer reports the rendered width of text in millimetres for the body
// font.
type Measurer interface {
	Width(text string) float64
}

// Options configure the title block.
type Options struct {
	Title  string
	Author string
	Site   string
	// Now stamps the generation time; defaults to time.Now.
	Now func() time.Time
	// Uncompressed disables stream compression, leaving text searchable in
	// the output bytes.
	Uncompressed bool
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Filename returns all_reports.pdf, or report_<key>.pdf when filtered.
func Filename(filter *datekey.Key) string {
	if filter != nil {
		return fmt.Sprintf("report_%s.pdf", *filter)
	}
	return "all_reports.pdf"
}

// Layout positions the title block and every selected entry in ascending
// key order, starting a new page before an entry when the cursor is past the
// break threshold or the entry would not fit on the rest of the page.
func Layout(reports store.Reports, filter *datekey.Key, m Measurer, opts Options) Plan {
	plan := Plan{Filename: Filename(filter)}
	l := &layout{plan: &plan}
	l.newPage()

	title := opts.Title
	if title == "" {
		title = defaultTitle
	}
	l.add(Op{Kind: OpHeaderBand, X: 0, Y: 0, W: pageWidth, H: headerHeight})
	l.add(Op{Kind: OpTitle, X: textX, Y: 13, Text: title})
	l.add(Op{Kind: OpSubtitle, X: textX, Y: 20, Text: generator(opts)})
	l.add(Op{Kind: OpSubtitle, X: textX, Y: 26, Text: "Generated: " + opts.now().Format("02/01/2006, 3:04:05 pm")})
	l.y = firstEntryY

	records := reports.Filter(filter).Sorted(store.Ascending)
	if len(records) == 0 {
		l.add(Op{Kind: OpEmpty, X: textX, Y: l.y, Text: noReportsMsg})
		return plan
	}

	for _, rec := range records {
		plan.Entries = append(plan.Entries, rec.Key)
		body := Wrap(orDash(rec.Entry.Report), bodyWidth, m)
		height := entryHeight(len(body))

		fits := l.y+height <= pageHeight-marginBottom
		if l.y > breakThreshold || (!fits && l.y > marginTop) {
			l.newPage()
		}

		l.add(Op{Kind: OpDateBand, X: bandX, Y: l.y, W: pageWidth - 2*bandX, H: bandHeight, Text: rec.Key.Format(), Key: rec.Key})
		l.y += 14

		l.add(Op{Kind: OpLabel, X: textX, Y: l.y, Text: "Company:", Key: rec.Key})
		l.add(Op{Kind: OpValue, X: valueX, Y: l.y, Text: orDash(rec.Entry.Company), Key: rec.Key})
		l.y += 6

		l.add(Op{Kind: OpLabel, X: textX, Y: l.y, Text: "Report:", Key: rec.Key})
		l.y += 5

		for _, line := range body {
			// Only entries taller than a whole page reach this break.
			if l.y > pageHeight-marginBottom {
				l.newPage()
			}
			l.add(Op{Kind: OpBody, X: textX, Y: l.y, Text: line, Key: rec.Key})
			l.y += lineHeight
		}
		l.y += 6

		if l.y > pageHeight-marginBottom {
			l.newPage()
		}
		l.add(Op{Kind: OpRule, X: bandX, Y: l.y, W: pageWidth - 2*bandX, Key: rec.Key})
		l.y += 8
	}
	return plan
}

// entryHeight is the vertical space an entry with n body lines consumes.
func entryHeight(n int) float64 {
	return 14 + 6 + 5 + float64(n)*lineHeight + 6 + 8
}

func generator(opts Options) string {
	switch {
	case opts.Author != "" && opts.Site != "":
		return fmt.Sprintf("Generated by %s — %s", opts.Author, opts.Site)
	case opts.Author != "":
		return "Generated by " + opts.Author
	case opts.Site != "":
		return "Generated by " + opts.Site
	}
	return "Generated by dailyreport"
}

func orDash(s string) string {
	if s == "" {
		return emptyValue
	}
	return s
}

type layout struct {
	plan *Plan
	y    float64
}

func (l *layout) newPage() {
	l.plan.Pages = append(l.plan.Pages, Page{})
	l.y = marginTop
}

func (l *layout) add(op Op) {
	p := &l.plan.Pages[len(l.plan.Pages)-1]
	p.Ops = append(p.Ops, op)
}

// Wrap breaks text into lines no wider than width. Existing newlines are
// kept; words longer than a line are split by character.
func Wrap(text string, width float64, m Measurer) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if m.Width(candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for m.Width(word) > width {
				head, rest := splitToWidth(word, width, m)
				lines = append(lines, head)
				word = rest
			}
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}

// splitToWidth returns the longest prefix of word (at least one rune) that
// fits width, and the remainder.
func splitToWidth(word string, width float64, m Measurer) (string, string) {
	end := 0
	for i := range word {
		if i == 0 {
			continue
		}
		if m.Width(word[:i]) > width {
			break
		}
		end = i
	}
	if end == 0 {
		_, size := utf8.DecodeRuneInString(word)
		end = size
	}
	return word[:end], word[end:]
}
