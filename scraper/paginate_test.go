package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tiwpheerachan/ledharvest/models"
)

// fakeDriver simulates the registry's pagination without a browser.
// Pages with a table are listed in tables; advancing to a page above
// maxReach fails in every strategy.
type fakeDriver struct {
	current  int
	tables   map[int]string
	maxReach int

	linkCalls   int
	glyphCalls  int
	scriptCalls int

	// disable individual strategies to test fallback order
	linkBroken  bool
	glyphBroken bool
}

func newFakeDriver(pages, maxReach int) *fakeDriver {
	tables := make(map[int]string, pages)
	for i := 1; i <= pages; i++ {
		tables[i] = buildTable([][]string{fullRow(fmt.Sprintf("p%d", i))})
	}
	return &fakeDriver{current: 1, tables: tables, maxReach: maxReach}
}

func (f *fakeDriver) waitTable() (string, error) {
	html, ok := f.tables[f.current]
	if !ok {
		return "", errors.New("results table not present")
	}
	return html, nil
}

func (f *fakeDriver) goTo(n int) error {
	if n > f.maxReach {
		return errors.New("page unreachable")
	}
	f.current = n
	return nil
}

func (f *fakeDriver) clickPageLink(n int) error {
	f.linkCalls++
	if f.linkBroken {
		return errors.New("numbered link not found")
	}
	return f.goTo(n)
}

func (f *fakeDriver) clickNextGlyph() error {
	f.glyphCalls++
	if f.glyphBroken {
		return errors.New("next glyph not found")
	}
	return f.goTo(f.current + 1)
}

func (f *fakeDriver) callPageScript(n int) error {
	f.scriptCalls++
	return f.goTo(n)
}

// walk runs walkPages against the fake driver and collects visits.
func walk(t *testing.T, e *Engine, d *fakeDriver, state *models.PageState) (visits []int, status string, err error) {
	t.Helper()
	status, err = e.walkPages(context.Background(), d, state, func(page int, tableHTML string) error {
		if tableHTML == "" {
			t.Fatalf("visit called with empty table HTML on page %d", page)
		}
		visits = append(visits, page)
		return nil
	})
	return visits, status, err
}

func TestWalkPages_VisitsEveryPage(t *testing.T) {
	e, _ := newTestEngine()
	d := newFakeDriver(3, 3)
	state := capPages(3, 0)

	visits, status, err := walk(t, e, d, &state)
	if err != nil {
		t.Fatalf("walkPages: %v", err)
	}
	if status != "" {
		t.Errorf("clean walk should have empty status, got %q", status)
	}
	if len(visits) != 3 {
		t.Fatalf("visited %d pages, want 3", len(visits))
	}
	for i, p := range visits {
		if p != i+1 {
			t.Errorf("visit %d was page %d, want %d", i, p, i+1)
		}
	}
}

func TestWalkPages_RespectsCap(t *testing.T) {
	// Detected 5 pages, capped to 2: exactly 2 visits, never more.
	e, sink := newTestEngine()
	d := newFakeDriver(5, 5)
	state := capPages(5, 2)
	if !state.Capped || state.Total != 2 {
		t.Fatalf("capPages(5, 2) = %+v, want Total 2 Capped true", state)
	}

	visits, _, err := walk(t, e, d, &state)
	if err != nil {
		t.Fatalf("walkPages: %v", err)
	}
	if len(visits) != 2 {
		t.Errorf("visited %d pages, want 2", len(visits))
	}

	fetching := sink.ofKind(EventFetchingPage)
	if len(fetching) != 2 {
		t.Errorf("published %d fetching_page events, want 2", len(fetching))
	}
}

func TestWalkPages_NoTableOnFirstPage(t *testing.T) {
	e, sink := newTestEngine()
	d := &fakeDriver{current: 1, tables: map[int]string{}, maxReach: 1}
	state := capPages(1, 0)

	visits, _, err := walk(t, e, d, &state)
	if !errors.Is(err, errNoResults) {
		t.Fatalf("walkPages error = %v, want errNoResults", err)
	}
	if len(visits) != 0 {
		t.Errorf("visited %d pages, want 0", len(visits))
	}
	if got := sink.ofKind(EventNoResults); len(got) != 1 {
		t.Errorf("published %d no_results events, want 1", len(got))
	}
}

func TestWalkPages_StallsKeepHarvestedPages(t *testing.T) {
	// 5 detected pages but nothing can advance past page 3: the walk
	// keeps pages 1-3 and flags page 3 as the stopping point.
	e, sink := newTestEngine()
	d := newFakeDriver(5, 3)
	state := capPages(5, 0)

	visits, status, err := walk(t, e, d, &state)
	if err != nil {
		t.Fatalf("walkPages: %v", err)
	}
	if len(visits) != 3 {
		t.Fatalf("visited %d pages, want 3", len(visits))
	}
	if status == "" {
		t.Error("stalled walk should report a non-empty status")
	}

	stalls := sink.ofKind(EventPaginationStalled)
	if len(stalls) != 1 {
		t.Fatalf("published %d pagination_stalled events, want 1", len(stalls))
	}
	if stalls[0].Page != 3 {
		t.Errorf("stall event page = %d, want 3", stalls[0].Page)
	}
}

func TestWalkPages_TableMissingMidWalk(t *testing.T) {
	// Table present on pages 1-2 but page 3 never renders one: partial
	// result, not an error, not a no-results outcome.
	e, sink := newTestEngine()
	d := newFakeDriver(5, 5)
	delete(d.tables, 3)
	state := capPages(5, 0)

	visits, status, err := walk(t, e, d, &state)
	if err != nil {
		t.Fatalf("walkPages: %v", err)
	}
	if len(visits) != 2 {
		t.Errorf("visited %d pages, want 2", len(visits))
	}
	if status == "" {
		t.Error("interrupted walk should report a non-empty status")
	}
	if got := sink.ofKind(EventNoResults); len(got) != 0 {
		t.Errorf("published %d no_results events mid-walk, want 0", len(got))
	}
}

func TestWalkPages_StrategyFallbackOrder(t *testing.T) {
	e, _ := newTestEngine()
	d := newFakeDriver(2, 2)
	d.linkBroken = true

	state := capPages(2, 0)
	visits, _, err := walk(t, e, d, &state)
	if err != nil {
		t.Fatalf("walkPages: %v", err)
	}
	if len(visits) != 2 {
		t.Fatalf("visited %d pages, want 2", len(visits))
	}
	// The numbered link was tried first, failed, and the glyph took over;
	// the page-script strategy was never needed.
	if d.linkCalls != 1 || d.glyphCalls != 1 || d.scriptCalls != 0 {
		t.Errorf("strategy calls link=%d glyph=%d script=%d, want 1/1/0",
			d.linkCalls, d.glyphCalls, d.scriptCalls)
	}
}

func TestWalkPages_ScriptStrategyLastResort(t *testing.T) {
	e, _ := newTestEngine()
	d := newFakeDriver(2, 2)
	d.linkBroken = true
	d.glyphBroken = true

	state := capPages(2, 0)
	visits, _, err := walk(t, e, d, &state)
	if err != nil {
		t.Fatalf("walkPages: %v", err)
	}
	if len(visits) != 2 {
		t.Fatalf("visited %d pages, want 2", len(visits))
	}
	if d.scriptCalls != 1 {
		t.Errorf("script strategy calls = %d, want 1", d.scriptCalls)
	}
}
