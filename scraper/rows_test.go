package scraper

import (
	"strings"
	"testing"

	"github.com/tiwpheerachan/ledharvest/config"
)

// recordingSink captures every published event for assertions.
type recordingSink struct {
	events []Event
}

func (r *recordingSink) Publish(ev Event) { r.events = append(r.events, ev) }

func (r *recordingSink) ofKind(kind EventKind) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func newTestEngine() (*Engine, *recordingSink) {
	sink := &recordingSink{}
	// Zero-value scraper config: all settle delays off, which is what
	// the non-browser tests want.
	return NewEngine(config.BrowserConfig{}, config.ScraperConfig{}, sink), sink
}

// buildTable renders a results table the way the registry does: a header
// row followed by data rows of td cells.
func buildTable(rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<table class="table linkevent"><tr><th>ลำดับ</th><th>ล็อตที่</th></tr>`)
	for _, cells := range rows {
		b.WriteString("<tr>")
		for _, c := range cells {
			b.WriteString("<td>" + c + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

func fullRow(order string) []string {
	return []string{order, "A-1", "CASE-001", "house", "2", "1", "50", "1,500,000 บาท", "Sub X", "Dist Y", "Prov Z"}
}

func TestExtractRows(t *testing.T) {
	e, _ := newTestEngine()

	html := buildTable([][]string{fullRow("1"), fullRow("2")})
	rows, err := e.extractRows(html, 1)
	if err != nil {
		t.Fatalf("extractRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("extracted %d rows, want 2", len(rows))
	}
	if rows[0][0] != "1" || rows[1][0] != "2" {
		t.Errorf("row order wrong: %q, %q", rows[0][0], rows[1][0])
	}
	if rows[0][10] != "Prov Z" {
		t.Errorf("province cell = %q, want %q", rows[0][10], "Prov Z")
	}
}

func TestExtractRows_SkipsHeaderRow(t *testing.T) {
	e, _ := newTestEngine()

	// Only the header row: no data rows should come out even though the
	// header itself has cells.
	rows, err := e.extractRows(buildTable(nil), 1)
	if err != nil {
		t.Fatalf("extractRows: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("extracted %d rows from header-only table, want 0", len(rows))
	}
}

func TestExtractRows_SkipsShortRows(t *testing.T) {
	e, sink := newTestEngine()

	short := []string{"spacer", "only three", "cells"}
	html := buildTable([][]string{fullRow("1"), short, fullRow("3")})

	rows, err := e.extractRows(html, 2)
	if err != nil {
		t.Fatalf("extractRows: %v", err)
	}
	// Exactly one row dropped; siblings unaffected.
	if len(rows) != 2 {
		t.Fatalf("extracted %d rows, want 2 (short row skipped)", len(rows))
	}
	if rows[0][0] != "1" || rows[1][0] != "3" {
		t.Errorf("sibling rows affected by skip: %q, %q", rows[0][0], rows[1][0])
	}

	skipped := sink.ofKind(EventRowSkipped)
	if len(skipped) != 1 {
		t.Fatalf("published %d row_skipped events, want 1", len(skipped))
	}
	if skipped[0].Page != 2 {
		t.Errorf("row_skipped event page = %d, want 2", skipped[0].Page)
	}
}

func TestExtractRows_ProvinceColumnOptional(t *testing.T) {
	e, _ := newTestEngine()

	// 10-cell row: the trailing province column is absent.
	tenCells := fullRow("1")[:10]
	rows, err := e.extractRows(buildTable([][]string{tenCells}), 1)
	if err != nil {
		t.Fatalf("extractRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("extracted %d rows, want 1", len(rows))
	}
	if rows[0][10] != "" {
		t.Errorf("missing province cell should default to empty, got %q", rows[0][10])
	}

	records := Normalize(rows)
	if records[0].Province != "" {
		t.Errorf("normalized province = %q, want empty", records[0].Province)
	}
	if records[0].AppraisedPrice == nil || *records[0].AppraisedPrice != 1500000 {
		t.Errorf("normalized price = %v, want 1500000", records[0].AppraisedPrice)
	}
}
