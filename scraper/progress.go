package scraper

import "log/slog"

// EventKind identifies a progress event emitted during a scrape.
type EventKind string

const (
	// EventPageCount reports the detected number of result pages.
	EventPageCount EventKind = "page_count"

	// EventCapped reports that the walk was clamped by MaxPages and the
	// result set will be partial.
	EventCapped EventKind = "capped"

	// EventFetchingPage reports the page currently being harvested.
	EventFetchingPage EventKind = "fetching_page"

	// EventPaginationStalled reports that no navigation strategy could
	// advance past the given page; rows harvested so far are kept.
	EventPaginationStalled EventKind = "pagination_stalled"

	// EventRowSkipped reports a malformed table row that was dropped.
	EventRowSkipped EventKind = "row_skipped"

	// EventNoResults reports that the results table never appeared
	// after search submission (an expected zero-match outcome).
	EventNoResults EventKind = "no_results"
)

// Event is one structured progress notification. The UI collaborator
// renders these; tests assert on the emitted sequence.
type Event struct {
	Kind  EventKind
	Page  int    // current page, when applicable
	Total int    // total pages, when applicable
	Row   int    // row index within the page, for EventRowSkipped
	Note  string // human-readable detail
}

// ProgressSink receives progress events during a scrape. Implementations
// must be cheap; Publish is called from the scrape's single goroutine.
type ProgressSink interface {
	Publish(ev Event)
}

// SinkFunc adapts a function to the ProgressSink interface.
type SinkFunc func(ev Event)

func (f SinkFunc) Publish(ev Event) { f(ev) }

// slogSink is the default sink: it logs every event via slog.
type slogSink struct{}

func (slogSink) Publish(ev Event) {
	slog.Info("scrape progress",
		"event", string(ev.Kind),
		"page", ev.Page,
		"total", ev.Total,
		"note", ev.Note,
	)
}
