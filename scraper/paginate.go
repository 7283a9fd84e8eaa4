package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/tiwpheerachan/ledharvest/models"
)

// errNoResults signals that the results table never appeared after search
// submission. It is an expected zero-match outcome, not a failure; the
// orchestrator converts it to an empty result with a status note.
var errNoResults = errors.New("results table never appeared")

// navAttemptTimeout bounds each individual navigation-strategy attempt.
// Kept short: a missing link should fail over to the next strategy
// quickly instead of burning the whole element-wait budget.
const navAttemptTimeout = 3 * time.Second

// pageDriver abstracts the per-page browser interactions the paginator
// needs, so the walk and the strategy chain are testable without a
// browser.
type pageDriver interface {
	// waitTable blocks until the results table is present and returns
	// its outer HTML.
	waitTable() (string, error)

	// clickPageLink clicks the link labeled with the literal page number.
	clickPageLink(n int) error

	// clickNextGlyph clicks the site's forward-navigation control.
	clickNextGlyph() error

	// callPageScript invokes the site's own client-side page-change
	// routine with the target page number.
	callPageScript(n int) error
}

// navStrategy is one way of advancing to the next result page. Strategies
// report failure as an error; they are tried in order until one succeeds.
// The site has shipped at least three pagination widgets over time, which
// is why a single mechanism cannot be relied on.
type navStrategy struct {
	name string
	fn   func(target int) error
}

func strategiesFor(d pageDriver) []navStrategy {
	return []navStrategy{
		{name: "numbered_link", fn: d.clickPageLink},
		{name: "next_glyph", fn: func(int) error { return d.clickNextGlyph() }},
		{name: "page_script", fn: d.callPageScript},
	}
}

// walkPages drives the multi-page walk: for each page up to state.Total
// it waits for the results table, hands its HTML to visit, and advances
// via the strategy chain.
//
// Failure handling is deliberately soft everywhere except the visit
// callback: a table missing on page 1 means "no matches" (errNoResults);
// a table missing later, or every strategy failing, stops the walk early
// with the harvested rows kept and a stall event identifying the page.
// The returned status is non-empty when the walk stopped early, so the
// caller can flag the result set as partial.
func (e *Engine) walkPages(ctx context.Context, d pageDriver, state *models.PageState, visit func(page int, tableHTML string) error) (status string, err error) {
	strategies := strategiesFor(d)

	for state.Current = 1; state.Current <= state.Total; state.Current++ {
		e.sink.Publish(Event{
			Kind:  EventFetchingPage,
			Page:  state.Current,
			Total: state.Total,
			Note:  fmt.Sprintf("fetching page %d/%d", state.Current, state.Total),
		})

		tableHTML, err := d.waitTable()
		if err != nil {
			if state.Current == 1 {
				e.sink.Publish(Event{
					Kind: EventNoResults,
					Note: "no listings matched the search criteria",
				})
				return "", errNoResults
			}
			note := fmt.Sprintf("results table did not reload on page %d; keeping rows harvested so far", state.Current)
			e.sink.Publish(Event{
				Kind:  EventPaginationStalled,
				Page:  state.Current,
				Total: state.Total,
				Note:  note,
			})
			return note, nil
		}

		if err := visit(state.Current, tableHTML); err != nil {
			return "", err
		}

		if state.Current == state.Total {
			break
		}
		if !e.advance(strategies, state.Current+1) {
			note := fmt.Sprintf("no navigation strategy advanced past page %d; results are partial", state.Current)
			e.sink.Publish(Event{
				Kind:  EventPaginationStalled,
				Page:  state.Current,
				Total: state.Total,
				Note:  note,
			})
			return note, nil
		}
		// The table reloads asynchronously after every advance.
		if err := e.settle(ctx, e.scraperCfg.PageSettle); err != nil {
			return "", categorizeError(err, "canceled while paging through results")
		}
	}
	return "", nil
}

// advance tries each navigation strategy in order until one succeeds.
func (e *Engine) advance(strategies []navStrategy, target int) bool {
	for _, s := range strategies {
		if err := s.fn(target); err != nil {
			slog.Debug("navigation strategy failed",
				"strategy", s.name,
				"target", target,
				"error", err,
			)
			continue
		}
		slog.Debug("advanced to next page", "strategy", s.name, "target", target)
		return true
	}
	return false
}

// rodDriver is the production pageDriver backed by a live rod page.
type rodDriver struct {
	page      *rod.Page
	tableWait time.Duration
}

// selResultsTable matches the registry's results table. The class list on
// the live site is "table linkevent".
const selResultsTable = `table.linkevent`

func (r *rodDriver) waitTable() (string, error) {
	el, err := r.page.Timeout(r.tableWait).Element(selResultsTable)
	if err != nil {
		return "", err
	}
	return el.HTML()
}

func (r *rodDriver) clickPageLink(n int) error {
	el, err := r.page.Timeout(navAttemptTimeout).ElementR("a", fmt.Sprintf(`^\s*%d\s*$`, n))
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (r *rodDriver) clickNextGlyph() error {
	el, err := r.page.Timeout(navAttemptTimeout).ElementR("a", "»")
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (r *rodDriver) callPageScript(n int) error {
	_, err := r.page.Timeout(navAttemptTimeout).Eval(fmt.Sprintf(`() => goToPage(%d)`, n))
	return err
}
