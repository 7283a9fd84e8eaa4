package scraper

import (
	"strconv"
	"strings"

	"github.com/tiwpheerachan/ledharvest/models"
)

// Normalize converts raw table rows into typed listing records. It never
// fails: field-level parse problems degrade to the documented defaults.
func Normalize(rows []models.RawRow) []models.ListingRecord {
	records := make([]models.ListingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.ListingRecord{
			OrderNumber:    strings.TrimSpace(row[0]),
			LotSet:         strings.TrimSpace(row[1]),
			CaseNumber:     strings.TrimSpace(row[2]),
			PropertyType:   strings.TrimSpace(row[3]),
			AreaRai:        parseArea(row[4]),
			AreaNgan:       parseArea(row[5]),
			AreaSqWa:       parseArea(row[6]),
			AppraisedPrice: parsePrice(row[7]),
			Subdistrict:    strings.TrimSpace(row[8]),
			District:       strings.TrimSpace(row[9]),
			Province:       strings.TrimSpace(row[10]),
		})
	}
	return records
}

// parseArea parses a land-area cell. Empty or malformed cells become 0,
// never nil: area absence is common on the site and a zero keeps
// downstream aggregates well-defined.
func parseArea(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parsePrice parses an appraised-price cell like "1,250,000 บาท".
// Thousands separators and the currency word are stripped in either
// position. Unlike areas, an unparseable price stays nil: unknown price
// is meaningful and downstream statistics exclude nils rather than
// treating them as zero.
func parsePrice(s string) *float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "บาท", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
