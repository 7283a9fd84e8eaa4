package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/tiwpheerachan/ledharvest/config"
	"github.com/tiwpheerachan/ledharvest/models"
	"github.com/ysmood/gson"
)

// session owns one browser process for the duration of one scrape.
// It is acquired at the top of Engine.Scrape and released on every exit
// path; Close is idempotent so a caller aborting mid-scrape can force
// teardown even after a clean release already happened.
type session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser

	// page is bound to the scrape's context: every component interaction
	// through it honors cancellation. raw is the same page without the
	// context, kept so teardown and diagnostic screenshots still work
	// after the scrape's context has expired.
	page *rod.Page
	raw  *rod.Page

	closeOnce sync.Once
}

// newSession launches a fresh Chromium and connects to it. The registry
// renders server-side and rejects obviously automated clients, so the
// launch fixes a deterministic viewport and a realistic user agent.
func newSession(cfg config.BrowserConfig) (*session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	l.Set(flags.Flag("window-size"), fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight))
	l.Set(flags.Flag("user-agent"), cfg.UserAgent)
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}
	slog.Debug("browser session launched", "controlURL", controlURL)

	return &session{launcher: l, browser: browser}, nil
}

// open creates the page, installs stealth and headers, and navigates to
// the registry search form. Navigation is bounded by navTimeout.
//
// Order matters: the stealth script and extra headers only take effect
// for navigations that happen after they are installed.
func (s *session) open(ctx context.Context, targetURL string, cfg config.BrowserConfig, navTimeout time.Duration) error {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to create page",
			err,
		)
	}
	s.raw = page
	s.page = page.Context(ctx)

	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth",
			"error", evalErr,
		)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.WindowWidth,
		Height:            cfg.WindowHeight,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}); err != nil {
		slog.Warn("failed to set viewport", "error", err)
	}

	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{
			"Accept-Language": cfg.AcceptLanguage,
		}),
	}.Call(page)

	p := s.page.Timeout(navTimeout)
	if err := p.Navigate(targetURL); err != nil {
		return categorizeError(err, "registry did not load within timeout")
	}
	if err := p.WaitLoad(); err != nil {
		return categorizeError(err, "registry did not finish loading within timeout")
	}
	return nil
}

// Close tears the session down: page, browser connection, and the
// underlying Chromium process. Safe to call more than once and safe to
// call concurrently with an in-flight scrape (force-terminate).
func (s *session) Close() {
	s.closeOnce.Do(func() {
		if s.raw != nil {
			if err := s.raw.Close(); err != nil {
				slog.Debug("page close failed (browser likely gone)", "error", err)
			}
		}
		if err := s.browser.Close(); err != nil {
			slog.Warn("browser close failed, killing process", "error", err)
		}
		// The launcher kill is the backstop that prevents zombie
		// Chromium processes when the CDP connection is already dead.
		s.launcher.Kill()
	})
}

// captureScreenshot writes a diagnostic PNG of the current page state.
// Best-effort: any failure is reported to the caller but never escalated.
func (s *session) captureScreenshot(dir string) (string, error) {
	if dir == "" || s.raw == nil {
		return "", fmt.Errorf("screenshot capture disabled")
	}
	// Captured via the context-free page handle so it still works when
	// the scrape's own context has already expired.
	data, err := s.raw.Screenshot(false, nil)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("ledharvest-%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
