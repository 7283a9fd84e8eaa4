package scraper

import (
	"sync/atomic"

	"github.com/tiwpheerachan/ledharvest/config"
	"github.com/tiwpheerachan/ledharvest/models"
)

// Engine scrapes the LED auction registry. It is safe for concurrent use:
// every Scrape call launches and owns an independent browser session, so
// concurrent callers are fully isolated (at the cost of one Chromium
// process per in-flight scrape — pooling, if ever wanted, belongs to an
// orchestrator above this engine).
type Engine struct {
	browserCfg    config.BrowserConfig
	scraperCfg    config.ScraperConfig
	sink          ProgressSink
	activeScrapes atomic.Int32
}

// NewEngine creates an Engine. No browser is launched here; sessions are
// acquired per scrape. sink may be nil, in which case progress events are
// logged via slog.
func NewEngine(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig, sink ProgressSink) *Engine {
	if sink == nil {
		sink = slogSink{}
	}
	return &Engine{
		browserCfg: browserCfg,
		scraperCfg: scraperCfg,
		sink:       sink,
	}
}

// Stats returns a snapshot of the engine's current load.
func (e *Engine) Stats() models.EngineStats {
	return models.EngineStats{
		ActiveScrapes: int(e.activeScrapes.Load()),
	}
}
