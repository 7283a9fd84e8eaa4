package models

// RawRow is one result-table row as extracted, positionally. The column
// order mirrors the registry's table: order number, lot-set, case number,
// property type, rai, ngan, sq.wa, appraised price, subdistrict, district,
// province. The province column is optional on the site; when absent the
// last slot stays empty.
type RawRow [11]string

// ListingRecord is the normalized form of a RawRow.
type ListingRecord struct {
	// OrderNumber is the site's row ordinal, kept as text (it restarts
	// per page and sometimes carries annotations).
	OrderNumber string `json:"order_number"`

	// LotSet identifies the auction lot and set ("ล็อตที่-ชุดที่").
	LotSet string `json:"lot_set"`

	// CaseNumber is the court case number the property is auctioned under.
	CaseNumber string `json:"case_number"`

	// PropertyType is the site's own classification (house, land,
	// condominium, ...). Open set, passed through verbatim.
	PropertyType string `json:"property_type"`

	// Land area in Thai units. 0 when the cell is empty or unparseable;
	// area absence is common and must not poison downstream aggregates.
	AreaRai  float64 `json:"area_rai"`
	AreaNgan float64 `json:"area_ngan"`
	AreaSqWa float64 `json:"area_sq_wa"`

	// AppraisedPrice in baht. Nil when the cell is empty or unparseable:
	// unknown price is meaningful and must not collapse to zero.
	AppraisedPrice *float64 `json:"appraised_price"`

	Subdistrict string `json:"subdistrict"`
	District    string `json:"district"`
	Province    string `json:"province"`
}

// PageState tracks the pagination walk for one scrape.
// Invariant: 1 <= Current <= Total while iterating.
type PageState struct {
	// Current is the page being visited, starting at 1.
	Current int

	// Total is the number of pages that will be visited. Already clamped
	// to the criteria's MaxPages when that cap is smaller than what the
	// site reports.
	Total int

	// Capped records that Total was reduced by MaxPages, so the caller
	// knows the result set is partial.
	Capped bool
}

// ScrapeOutcome is what Engine.Scrape always returns; no error ever
// propagates past the engine's entry point.
type ScrapeOutcome struct {
	// Records is the normalized result set. Never nil on a non-error
	// outcome: a search with no matches yields an empty slice.
	Records []ListingRecord

	// PagesFetched is how many result pages were actually visited.
	PagesFetched int

	// Capped records that the page walk was clamped by MaxPages.
	Capped bool

	// Status carries a human-readable note for non-fatal conditions
	// ("no matching records", "stopped early at page N"). Empty on a
	// clean full scrape.
	Status string

	// ScreenshotPath points at a diagnostic screenshot captured on
	// fatal failure. Best-effort; empty when capture was not possible.
	ScreenshotPath string

	// Err is set only on fatal outcomes (navigation failure, timeout,
	// browser crash). When set, Records is empty.
	Err *ScrapeError
}

// EngineStats is a snapshot of the engine's current load.
type EngineStats struct {
	// ActiveScrapes is the number of scrapes currently in flight, each
	// owning its own browser process.
	ActiveScrapes int `json:"active_scrapes"`
}
