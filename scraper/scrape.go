package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tiwpheerachan/ledharvest/models"
)

// Scrape runs one full search against the registry and always returns an
// outcome — no error and no panic ever propagates past this entry point.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Recover guard     – converts any unexpected panic into an outcome
//  2. Acquire session   – fresh browser, released on every exit path
//  3. Open registry     – bounded navigation to the search form
//  4. Submit form       – location fields + verification code + search
//  5. Detect pages      – pagination indicator, MaxPages cap
//  6. Walk pages        – harvest raw rows per page, strategy-chain advance
//  7. Normalize         – raw text rows → typed listing records
//
// Fatal failures (steps 2-4, or anything unexpected) yield an outcome
// with Err set, empty records, and a best-effort diagnostic screenshot.
// "No matches" and early pagination stalls are not fatal: they yield a
// successful outcome with a Status note.
func (e *Engine) Scrape(ctx context.Context, criteria models.SearchCriteria) (outcome *models.ScrapeOutcome) {
	e.activeScrapes.Add(1)
	defer e.activeScrapes.Add(-1)

	var sess *session

	// ── 1. Recover guard ──────────────────────────────────────────────
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scrape panicked", "panic", r)
			outcome = e.fatalOutcome(sess, models.NewScrapeError(
				models.ErrCodeInternal,
				fmt.Sprintf("unexpected failure during scrape: %v", r),
				nil,
			))
		}
	}()

	slog.Info("scrape starting",
		"province", criteria.Province,
		"district", criteria.District,
		"subdistrict", criteria.Subdistrict,
		"maxPages", criteria.MaxPages,
	)

	// ── 2. Acquire session ────────────────────────────────────────────
	sess, err := newSession(e.browserCfg)
	if err != nil {
		return e.fatalOutcome(nil, asScrapeError(err))
	}
	defer sess.Close()

	// ── 3. Open registry ──────────────────────────────────────────────
	if err := sess.open(ctx, e.scraperCfg.TargetURL, e.browserCfg, e.scraperCfg.NavigationTimeout); err != nil {
		return e.fatalOutcome(sess, asScrapeError(err))
	}

	// ── 4. Submit search form ─────────────────────────────────────────
	if err := e.submitSearch(ctx, sess.page, criteria); err != nil {
		return e.fatalOutcome(sess, asScrapeError(err))
	}

	// ── 5. Detect page count ──────────────────────────────────────────
	state := e.detectPageState(sess.page, criteria.MaxPages)

	// ── 6. Walk pages, harvesting raw rows ────────────────────────────
	driver := &rodDriver{page: sess.page, tableWait: e.scraperCfg.TableWait}
	var raw []models.RawRow
	pagesFetched := 0

	status, err := e.walkPages(ctx, driver, &state, func(pageNum int, tableHTML string) error {
		rows, extractErr := e.extractRows(tableHTML, pageNum)
		if extractErr != nil {
			return models.NewScrapeError(
				models.ErrCodeInternal,
				fmt.Sprintf("failed to parse results table on page %d", pageNum),
				extractErr,
			)
		}
		pagesFetched++
		raw = append(raw, rows...)
		return nil
	})
	if errors.Is(err, errNoResults) {
		return &models.ScrapeOutcome{
			Records: []models.ListingRecord{},
			Capped:  state.Capped,
			Status:  "no listings matched the search criteria",
		}
	}
	if err != nil {
		return e.fatalOutcome(sess, asScrapeError(err))
	}

	// ── 7. Normalize ──────────────────────────────────────────────────
	records := Normalize(raw)
	slog.Info("scrape complete",
		"records", len(records),
		"pagesFetched", pagesFetched,
		"capped", state.Capped,
	)
	return &models.ScrapeOutcome{
		Records:      records,
		PagesFetched: pagesFetched,
		Capped:       state.Capped,
		Status:       status,
	}
}

// fatalOutcome builds the terminal outcome for an unrecoverable failure,
// attempting a diagnostic screenshot first. Screenshot capture is
// best-effort and never escalates.
func (e *Engine) fatalOutcome(sess *session, serr *models.ScrapeError) *models.ScrapeOutcome {
	out := &models.ScrapeOutcome{
		Records: []models.ListingRecord{},
		Err:     serr,
	}
	if sess != nil {
		if path, shotErr := sess.captureScreenshot(e.scraperCfg.ScreenshotDir); shotErr == nil {
			out.ScreenshotPath = path
		} else {
			slog.Debug("diagnostic screenshot failed", "error", shotErr)
		}
	}
	slog.Error("scrape failed",
		"code", serr.Code,
		"error", serr.Error(),
		"screenshot", out.ScreenshotPath,
	)
	return out
}

// asScrapeError coerces any error into a typed ScrapeError, defaulting
// to the internal code.
func asScrapeError(err error) *models.ScrapeError {
	var serr *models.ScrapeError
	if errors.As(err, &serr) {
		return serr
	}
	return models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
}

// categorizeError wraps raw errors into typed ScrapeErrors so the API
// layer can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
