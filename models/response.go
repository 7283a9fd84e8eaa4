package models

// SearchResponse is the response for POST /api/v1/search.
type SearchResponse struct {
	// Success indicates whether the scrape completed without a fatal error.
	// A search that matched nothing is still a success with Total == 0.
	Success bool `json:"success"`

	// Records is the normalized result set, in site order.
	Records []ListingRecord `json:"records"`

	// Total is len(Records), kept explicit for API consumers.
	Total int `json:"total"`

	// PagesFetched is how many result pages were actually visited.
	PagesFetched int `json:"pages_fetched"`

	// Capped indicates the walk was cut short by max_pages.
	Capped bool `json:"capped,omitempty"`

	// Status carries non-fatal notes: "no matching records", or a warning
	// that pagination stopped early and the result set is partial.
	Status string `json:"status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// ScreenshotPath points at the diagnostic capture taken when a scrape
	// failed. Only set on failure, and only when the capture succeeded.
	ScreenshotPath string `json:"screenshot_path,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ScrapeMs is the time spent inside the browser session
	// (navigation, form fill, pagination, extraction).
	ScrapeMs int64 `json:"scrape_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string      `json:"status"` // "healthy" or "degraded"
	Uptime  string      `json:"uptime"`
	Engine  EngineStats `json:"engine"`
	Version string      `json:"version"`
}
