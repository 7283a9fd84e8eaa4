package models

// SearchCriteria is the engine-level input for one scrape of the LED
// auction registry. All fields are free text matched against the site's
// own autocomplete index; empty fields are left blank on the form.
type SearchCriteria struct {
	// Province is sent to the form as-is. The registry's province field
	// accepts the full name without any prefix handling.
	Province string

	// District may still carry the เขต/อำเภอ administrative prefix; the
	// engine strips it before typing, since unstripped values do not
	// match the site's autocomplete index.
	District string

	// Subdistrict may still carry the ตำบล/แขวง prefix; stripped likewise.
	Subdistrict string

	// MaxPages caps how many result pages are fetched. 0 means no cap.
	MaxPages int
}

// SearchRequest is the payload for POST /api/v1/search.
type SearchRequest struct {
	// Province filters by province name (Thai). Optional.
	Province string `json:"province"`

	// District filters by district name. An administrative prefix
	// (เขต/อำเภอ) is accepted and stripped server-side. Optional.
	District string `json:"district"`

	// Subdistrict filters by subdistrict name (ตำบล/แขวง prefix accepted).
	// Optional.
	Subdistrict string `json:"subdistrict"`

	// MaxPages caps the number of result pages fetched.
	// 0 (default) fetches every detected page.
	MaxPages int `json:"max_pages,omitempty" binding:"omitempty,min=0,max=500"`

	// MaxAge enables the response cache for this request: a cached
	// result younger than this many milliseconds is returned directly.
	// Default: 0 (cache bypassed).
	MaxAge int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *SearchRequest) Defaults() {
	if r.MaxPages < 0 {
		r.MaxPages = 0
	}
}

// Criteria converts the API request to engine-level search criteria.
func (r *SearchRequest) Criteria() SearchCriteria {
	return SearchCriteria{
		Province:    r.Province,
		District:    r.District,
		Subdistrict: r.Subdistrict,
		MaxPages:    r.MaxPages,
	}
}
