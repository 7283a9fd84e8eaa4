package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tiwpheerachan/ledharvest/cache"
	"github.com/tiwpheerachan/ledharvest/models"
)

// Searcher is the engine surface the handlers need. Defined here so the
// API layer can be tested with a stub instead of a live browser.
type Searcher interface {
	Scrape(ctx context.Context, criteria models.SearchCriteria) *models.ScrapeOutcome
	Stats() models.EngineStats
}

// Search returns a handler for POST /api/v1/search.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup (opt-in via max_age_ms).
//  3. Engine.Scrape → outcome          (records scrape_ms)
//  4. Map outcome → SearchResponse, fill timing, return.
//
// A scrape that found nothing is a 200 with total=0, not an error; only
// outcomes with Err set map to failure status codes.
func Search(eng Searcher, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.SearchResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()
		criteria := req.Criteria()

		// ── 2. Cache lookup ─────────────────────────────────────────
		cacheKey := cache.Key(criteria)
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				cached.CacheStatus = "hit"
				cached.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		// ── 3. Scrape ───────────────────────────────────────────────
		scrapeStart := time.Now()
		outcome := eng.Scrape(c.Request.Context(), criteria)
		scrapeMs := time.Since(scrapeStart).Milliseconds()

		timing := models.TimingInfo{
			TotalMs:  time.Since(totalStart).Milliseconds(),
			ScrapeMs: scrapeMs,
		}

		if outcome.Err != nil {
			c.JSON(mapErrorToStatus(outcome.Err), models.SearchResponse{
				Success:        false,
				Status:         outcome.Status,
				Timing:         timing,
				ScreenshotPath: outcome.ScreenshotPath,
				Error:          outcome.Err.ToDetail(),
			})
			return
		}

		// ── 4. Success response ─────────────────────────────────────
		resp := &models.SearchResponse{
			Success:      true,
			Records:      outcome.Records,
			Total:        len(outcome.Records),
			PagesFetched: outcome.PagesFetched,
			Capped:       outcome.Capped,
			Status:       outcome.Status,
			Timing:       timing,
		}

		if cc != nil && req.MaxAge > 0 {
			cc.Set(cacheKey, resp)
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
