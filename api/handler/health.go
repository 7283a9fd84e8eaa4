package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tiwpheerachan/ledharvest/models"
)

// Health returns a handler for GET /api/v1/health.
//
// Each active scrape owns a Chromium process, so the endpoint degrades
// status when several run at once — the usual signal that callers are
// not respecting the rate limit or that scrapes are hanging.
func Health(eng Searcher, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := eng.Stats()

		status := "healthy"
		if stats.ActiveScrapes > 4 {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Engine:  stats,
			Version: "0.1.0",
		})
	}
}
