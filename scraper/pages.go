package scraper

import (
	"regexp"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/tiwpheerachan/ledharvest/models"
)

// pageIndicatorRe matches the registry's "หน้าที่ current/total" strip.
var pageIndicatorRe = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// indicatorWait bounds the pagination-indicator lookup. Kept short: the
// indicator is legitimately absent whenever results fit on one page, and
// that case must not cost the full element-wait budget.
const indicatorWait = 5 * time.Second

// detectPageState reads the pagination indicator and builds the initial
// PageState, applying the MaxPages cap. A missing indicator is the normal
// single-page case, not an error.
func (e *Engine) detectPageState(page *rod.Page, maxPages int) models.PageState {
	total := 1
	// ElementR matches by visible text; the indicator is a plain div
	// containing "หน้าที่ X/Y" with no stable id or class.
	if el, err := page.Timeout(indicatorWait).ElementR("div", "หน้าที่"); err == nil {
		if text, terr := el.Text(); terr == nil {
			if n, ok := parsePageIndicator(text); ok {
				total = n
			}
		}
	}

	state := capPages(total, maxPages)

	e.sink.Publish(Event{Kind: EventPageCount, Total: total, Note: "page count detected"})
	if state.Capped {
		e.sink.Publish(Event{
			Kind:  EventCapped,
			Total: state.Total,
			Note:  "results are partial: page walk capped by max_pages",
		})
	}
	return state
}

// parsePageIndicator extracts the total page count from indicator text
// like "หน้าที่ 1/12". The second capture group is the total.
func parsePageIndicator(text string) (int, bool) {
	m := pageIndicatorRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	total, err := strconv.Atoi(m[2])
	if err != nil || total < 1 {
		return 0, false
	}
	return total, true
}

// capPages builds a PageState from the detected total and the caller's
// cap. maxPages <= 0 means uncapped.
func capPages(detected, maxPages int) models.PageState {
	if detected < 1 {
		detected = 1
	}
	state := models.PageState{Current: 1, Total: detected}
	if maxPages > 0 && maxPages < detected {
		state.Total = maxPages
		state.Capped = true
	}
	return state
}
