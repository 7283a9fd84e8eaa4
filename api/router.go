package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tiwpheerachan/ledharvest/api/handler"
	"github.com/tiwpheerachan/ledharvest/api/middleware"
	"github.com/tiwpheerachan/ledharvest/cache"
	"github.com/tiwpheerachan/ledharvest/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(eng handler.Searcher, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(eng, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Search — one registry scrape per call.
	protected.POST("/search", handler.Search(eng, cc))

	return r
}
