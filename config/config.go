package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the per-scrape Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// WindowWidth/WindowHeight fix the viewport so the registry's
	// layout (and the pagination strip) renders deterministically.
	WindowWidth  int // default: 1920
	WindowHeight int // default: 1080

	// UserAgent is sent so the registry does not reject the session
	// as an unidentified client.
	UserAgent string // default: a current desktop Chrome string

	// AcceptLanguage is sent with every request; the registry serves
	// Thai content and some deployments vary markup by locale.
	AcceptLanguage string // default: "th-TH,th;q=0.9,en;q=0.8"
}

// ScraperConfig controls scraping behavior against the LED registry.
//
// The settle delays exist because the site performs server-side rendering
// and client-side autocomplete with no programmatic ready signal; the
// defaults mirror what the site needs in practice.
type ScraperConfig struct {
	// TargetURL is the registry search page.
	TargetURL string // default: "https://asset.led.go.th/newbidreg/default.asp"

	// NavigationTimeout bounds the initial page load.
	NavigationTimeout time.Duration // default: 30s

	// ElementWait bounds each wait for a form control or indicator.
	ElementWait time.Duration // default: 30s

	// TableWait bounds the wait for the results table on each page.
	TableWait time.Duration // default: 30s

	// FieldSettle is the pause after typing into a location field,
	// giving the site's autocomplete time to react.
	FieldSettle time.Duration // default: 3s

	// SearchSettle is the pause after triggering the search.
	SearchSettle time.Duration // default: 7s

	// PageSettle is the pause after advancing to the next result page.
	PageSettle time.Duration // default: 5s

	// ScreenshotDir is where diagnostic screenshots are written on
	// fatal failures. Empty disables capture.
	ScreenshotDir string // default: os.TempDir()
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key. Scrapes are
	// expensive (one browser each), so the default is deliberately low.
	RequestsPerSecond float64 // default: 0.5

	// Burst is the maximum burst size per API key.
	Burst int // default: 2
}

// CacheConfig controls the search response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 200
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("LEDHARVEST_HOST", "0.0.0.0"),
			Port: envIntOr("LEDHARVEST_PORT", 8080),
			Mode: envOr("LEDHARVEST_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("LEDHARVEST_HEADLESS", true),
			NoSandbox:    envBoolOr("LEDHARVEST_NO_SANDBOX", true),
			BrowserBin:   os.Getenv("LEDHARVEST_BROWSER_BIN"),
			WindowWidth:  envIntOr("LEDHARVEST_WINDOW_WIDTH", 1920),
			WindowHeight: envIntOr("LEDHARVEST_WINDOW_HEIGHT", 1080),
			UserAgent: envOr("LEDHARVEST_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			AcceptLanguage: envOr("LEDHARVEST_ACCEPT_LANGUAGE", "th-TH,th;q=0.9,en;q=0.8"),
		},
		Scraper: ScraperConfig{
			TargetURL:         envOr("LEDHARVEST_TARGET_URL", "https://asset.led.go.th/newbidreg/default.asp"),
			NavigationTimeout: envDurationOr("LEDHARVEST_NAV_TIMEOUT", 30*time.Second),
			ElementWait:       envDurationOr("LEDHARVEST_ELEMENT_WAIT", 30*time.Second),
			TableWait:         envDurationOr("LEDHARVEST_TABLE_WAIT", 30*time.Second),
			FieldSettle:       envDurationOr("LEDHARVEST_FIELD_SETTLE", 3*time.Second),
			SearchSettle:      envDurationOr("LEDHARVEST_SEARCH_SETTLE", 7*time.Second),
			PageSettle:        envDurationOr("LEDHARVEST_PAGE_SETTLE", 5*time.Second),
			ScreenshotDir:     envOr("LEDHARVEST_SCREENSHOT_DIR", os.TempDir()),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("LEDHARVEST_AUTH_ENABLED", true),
			APIKeys: envSliceOr("LEDHARVEST_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("LEDHARVEST_RATE_RPS", 0.5),
			Burst:             envIntOr("LEDHARVEST_RATE_BURST", 2),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("LEDHARVEST_CACHE_MAX_ENTRIES", 200),
		},
		Log: LogConfig{
			Level:  envOr("LEDHARVEST_LOG_LEVEL", "info"),
			Format: envOr("LEDHARVEST_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
