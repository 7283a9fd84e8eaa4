package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/tiwpheerachan/ledharvest/models"
)

// Registry form selectors. The search form is a classic ASP page; every
// control is addressed by its name attribute.
const (
	selProvince  = `input[name="province"]`
	selDistrict  = `input[name="ampur"]`
	selSubdist   = `input[name="tumbol"]`
	selCode      = `input[name="seckey"]`
	selCodeText  = `font[color="blue"]`
	selSearchBtn = `[name="search"]`
)

// StripDistrictPrefix removes the เขต (Bangkok) and อำเภอ (provincial)
// administrative prefixes. The registry's autocomplete indexes bare names;
// an unstripped value silently matches nothing.
func StripDistrictPrefix(district string) string {
	district = strings.ReplaceAll(district, "เขต", "")
	district = strings.ReplaceAll(district, "อำเภอ", "")
	return strings.TrimSpace(district)
}

// StripSubdistrictPrefix removes the ตำบล (provincial) and แขวง (Bangkok)
// subdistrict prefixes, for the same reason as StripDistrictPrefix.
func StripSubdistrictPrefix(subdistrict string) string {
	subdistrict = strings.ReplaceAll(subdistrict, "ตำบล", "")
	subdistrict = strings.ReplaceAll(subdistrict, "แขวง", "")
	return strings.TrimSpace(subdistrict)
}

// submitSearch fills the search form and triggers the server-side search.
//
// The three location fields are each optional. District and subdistrict
// are prefix-stripped here even if the caller already stripped them —
// this normalization is load-bearing, so the form layer does not trust
// its inputs. Province is deliberately sent as-is: the site's own client
// fills it raw, and it is unverified whether the form tolerates an
// adjusted value.
//
// The verification code is not an image challenge: the site renders it as
// plain blue text next to the field, so it is read verbatim and echoed.
func (e *Engine) submitSearch(ctx context.Context, page *rod.Page, c models.SearchCriteria) error {
	fields := []struct {
		selector string
		value    string
	}{
		{selProvince, strings.TrimSpace(c.Province)},
		{selDistrict, StripDistrictPrefix(c.District)},
		{selSubdist, StripSubdistrictPrefix(c.Subdistrict)},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := e.fillField(page, f.selector, f.value); err != nil {
			return err
		}
		// The site runs autocomplete/validation against each field and
		// needs time to react before the next input lands.
		if err := e.settle(ctx, e.scraperCfg.FieldSettle); err != nil {
			return categorizeError(err, "canceled while filling search form")
		}
	}

	codeEl, err := page.Timeout(e.scraperCfg.ElementWait).Element(selCodeText)
	if err != nil {
		return models.NewScrapeError(
			models.ErrCodeNavigation,
			"verification code text not found on page",
			err,
		)
	}
	code, err := codeEl.Text()
	if err != nil {
		return models.NewScrapeError(
			models.ErrCodeNavigation,
			"failed to read verification code text",
			err,
		)
	}
	if err := e.fillField(page, selCode, strings.TrimSpace(code)); err != nil {
		return err
	}

	btn, err := page.Timeout(e.scraperCfg.ElementWait).Element(selSearchBtn)
	if err != nil {
		return models.NewScrapeError(
			models.ErrCodeNavigation,
			"search control not found on page",
			err,
		)
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return models.NewScrapeError(
			models.ErrCodeNavigation,
			"failed to activate search control",
			err,
		)
	}

	// Results render server-side with no ready signal.
	if err := e.settle(ctx, e.scraperCfg.SearchSettle); err != nil {
		return categorizeError(err, "canceled while waiting for search results")
	}
	return nil
}

// fillField waits for the input, clears it, and types the value.
func (e *Engine) fillField(page *rod.Page, selector, value string) error {
	el, err := page.Timeout(e.scraperCfg.ElementWait).Element(selector)
	if err != nil {
		return models.NewScrapeError(
			models.ErrCodeNavigation,
			"form field "+selector+" not available within timeout",
			err,
		)
	}
	// Select-all then input replaces any prefilled value.
	if err := el.SelectAllText(); err != nil {
		return models.NewScrapeError(
			models.ErrCodeNavigation,
			"failed to clear "+selector,
			err,
		)
	}
	if err := el.Input(value); err != nil {
		return models.NewScrapeError(
			models.ErrCodeNavigation,
			"failed to input value into "+selector,
			err,
		)
	}
	return nil
}

// settle pauses for d, honoring cancellation. The registry exposes no
// programmatic ready signal, so fixed waits are the only option.
func (e *Engine) settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
