package export

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/entry"
	"tableflip.dev/dailyreport/pkg/store"
)

// monoMeasurer treats every rune as 2mm wide.
type monoMeasurer struct{}

func (monoMeasurer) Width(s string) float64 {
	return 2 * float64(utf8.RuneCountInString(s))
}

var fixedNow = func() time.Time {
	return time.Date(2024, time.February, 5, 18, 30, 0, 0, time.UTC)
}

func scenario() store.Reports {
	return store.Reports{
		"2024-02-05": entry.Entry{
			Company: "Acme",
			Report:  "Did X",
			SavedAt: entry.Timestamp{Time: time.Date(2024, time.February, 5, 10, 0, 0, 0, time.UTC)},
		},
	}
}

func opsOf(plan Plan, kind OpKind) []Op {
	var out []Op
	for _, p := range plan.Pages {
		for _, op := range p.Ops {
			if op.Kind == kind {
				out = append(out, op)
			}
		}
	}
	return out
}

func TestLayoutSingleEntry(t *testing.T) {
	plan := Layout(scenario(), nil, monoMeasurer{}, Options{Author: "Naveen Kumar", Site: "NK Portfolio", Now: fixedNow})

	if plan.Filename != "all_reports.pdf" {
		t.Fatalf("unexpected filename %q", plan.Filename)
	}
	if len(plan.Entries) != 1 || plan.Entries[0] != "2024-02-05" {
		t.Fatalf("expected exactly one entry, got %v", plan.Entries)
	}
	bands := opsOf(plan, OpDateBand)
	if len(bands) != 1 || bands[0].Text != "Monday, 5 February 2024" || bands[0].Y != firstEntryY {
		t.Fatalf("unexpected date bands: %+v", bands)
	}
	values := opsOf(plan, OpValue)
	if len(values) != 1 || values[0].Text != "Acme" {
		t.Fatalf("expected company Acme, got %+v", values)
	}
	body := opsOf(plan, OpBody)
	if len(body) != 1 || body[0].Text != "Did X" {
		t.Fatalf("expected body Did X, got %+v", body)
	}
	if len(opsOf(plan, OpRule)) != 1 {
		t.Fatalf("expected one separator rule")
	}
	if len(opsOf(plan, OpEmpty)) != 0 {
		t.Fatalf("unexpected empty message")
	}

	subtitles := opsOf(plan, OpSubtitle)
	if subtitles[0].Text != "Generated by Naveen Kumar — NK Portfolio" {
		t.Fatalf("unexpected generator line %q", subtitles[0].Text)
	}
	if subtitles[1].Text != "Generated: 05/02/2024, 6:30:00 pm" {
		t.Fatalf("unexpected timestamp line %q", subtitles[1].Text)
	}
}

func TestLayoutFilterMissingKey(t *testing.T) {
	filter := datekey.Key("2024-03-01")
	plan := Layout(scenario(), &filter, monoMeasurer{}, Options{Now: fixedNow})
	if plan.Filename != "report_2024-03-01.pdf" {
		t.Fatalf("unexpected filename %q", plan.Filename)
	}
	if len(plan.Entries) != 0 {
		t.Fatalf("expected no entries, got %v", plan.Entries)
	}
	empty := opsOf(plan, OpEmpty)
	if len(empty) != 1 || empty[0].Text != "No reports found." {
		t.Fatalf("expected no reports message, got %+v", empty)
	}
	if len(opsOf(plan, OpDateBand)) != 0 {
		t.Fatalf("no entry blocks expected")
	}
}

func TestLayoutFilterKeepsOnlyKey(t *testing.T) {
	reports := scenario().With("2024-02-06", entry.Entry{Company: "Other"})
	filter := datekey.Key("2024-02-06")
	plan := Layout(reports, &filter, monoMeasurer{}, Options{Now: fixedNow})
	if len(plan.Entries) != 1 || plan.Entries[0] != filter {
		t.Fatalf("expected only filtered entry, got %v", plan.Entries)
	}
	body := opsOf(plan, OpBody)
	if len(body) != 1 || body[0].Text != "—" {
		t.Fatalf("empty report should render a dash, got %+v", body)
	}
}

func TestLayoutAscendingOrder(t *testing.T) {
	reports := store.Reports{}
	for _, k := range []datekey.Key{"2024-03-02", "2023-11-30", "2024-01-15"} {
		reports = reports.With(k, entry.Entry{Company: string(k)})
	}
	plan := Layout(reports, nil, monoMeasurer{}, Options{Now: fixedNow})
	want := []datekey.Key{"2023-11-30", "2024-01-15", "2024-03-02"}
	for i, k := range want {
		if plan.Entries[i] != k {
			t.Fatalf("entry %d = %s, want %s", i, plan.Entries[i], k)
		}
	}
}

func TestLayoutPaginationKeepsEntriesWhole(t *testing.T) {
	reports := store.Reports{}
	for day := 1; day <= 28; day++ {
		lines := make([]string, day%6+1)
		for i := range lines {
			lines[i] = "work item"
		}
		reports = reports.With(datekey.MustEncode(2024, 1, day), entry.Entry{
			Company: "Acme",
			Report:  strings.Join(lines, "\n"),
		})
	}
	plan := Layout(reports, nil, monoMeasurer{}, Options{Now: fixedNow})
	if len(plan.Pages) < 2 {
		t.Fatalf("expected several pages, got %d", len(plan.Pages))
	}

	pageOf := make(map[datekey.Key]int)
	for i, p := range plan.Pages {
		for _, op := range p.Ops {
			if op.Key == "" {
				continue
			}
			if prev, ok := pageOf[op.Key]; ok && prev != i {
				t.Fatalf("entry %s split across pages %d and %d", op.Key, prev, i)
			}
			pageOf[op.Key] = i
			if op.Y > pageHeight-marginBottom {
				t.Fatalf("op %+v below the printable area", op)
			}
		}
	}
	if len(pageOf) != 28 {
		t.Fatalf("expected 28 entries laid out, got %d", len(pageOf))
	}
	for i, p := range plan.Pages[1:] {
		if first := p.Ops[0]; first.Kind != OpDateBand || first.Y != marginTop {
			t.Fatalf("page %d should start with a date band at the top margin, got %+v", i+1, first)
		}
	}
}

func TestLayoutOversizedEntryFlows(t *testing.T) {
	lines := make([]string, 80)
	for i := range lines {
		lines[i] = "line"
	}
	reports := scenario().With("2024-02-06", entry.Entry{Company: "Long", Report: strings.Join(lines, "\n")})
	plan := Layout(reports, nil, monoMeasurer{}, Options{Now: fixedNow})

	bodies := 0
	for _, op := range opsOf(plan, OpBody) {
		if op.Key == "2024-02-06" {
			bodies++
		}
	}
	if bodies != 80 {
		t.Fatalf("expected every body line, got %d", bodies)
	}
	if len(plan.Pages) < 3 {
		t.Fatalf("expected the long entry to start on a new page and flow on, got %d pages", len(plan.Pages))
	}
	if band := plan.Pages[1].Ops[0]; band.Key != "2024-02-06" || band.Y != marginTop {
		t.Fatalf("long entry should start at the top of page 2, got %+v", band)
	}
}

func TestWrap(t *testing.T) {
	m := monoMeasurer{}
	got := Wrap("aaa bbb ccc\n\nddd", 14, m)
	want := []string{"aaa bbb", "ccc", "", "ddd"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Wrap = %q, want %q", got, want)
	}

	got = Wrap("abcdefghij", 8, m)
	want = []string{"abcd", "efgh", "ij"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("long word Wrap = %q, want %q", got, want)
	}
}

func TestExportProducesPDF(t *testing.T) {
	r := NewRenderer(Options{Author: "Naveen Kumar", Site: "NK Portfolio", Now: fixedNow, Uncompressed: true})
	doc, err := r.Export(scenario(), nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	out := doc.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
	for _, want := range []string{"Acme", "Did X", "Daily Work Report"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Fatalf("expected %q in output", want)
		}
	}
	if doc.Filename != "all_reports.pdf" {
		t.Fatalf("unexpected filename %q", doc.Filename)
	}

	path, err := doc.Save(t.TempDir())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(path, "all_reports.pdf") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestExportEmpty(t *testing.T) {
	filter := datekey.Key("2024-03-01")
	doc, err := NewRenderer(Options{Now: fixedNow, Uncompressed: true}).Export(scenario(), &filter)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !bytes.Contains(doc.Bytes(), []byte("No reports found.")) {
		t.Fatalf("expected empty message in output")
	}
	if bytes.Contains(doc.Bytes(), []byte("Acme")) {
		t.Fatalf("filtered export should not include other entries")
	}
}
