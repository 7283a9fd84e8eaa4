package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tiwpheerachan/ledharvest/models"
)

// minRowCells is the minimum cell count for a data row. The table has 11
// columns, but the trailing province column is omitted on some result
// sets, so 10 cells is still a complete row.
const minRowCells = 10

// extractRows parses one page's results table (its outer HTML, read in a
// single round-trip from the browser) into positional raw rows.
//
// Parsing a static HTML snapshot instead of walking live DOM elements
// sidesteps stale-element failures while the site re-renders. The header
// row is skipped; rows with fewer than minRowCells cells are dropped with
// a row_skipped event — typically spacer or ad rows, not data.
func (e *Engine) extractRows(tableHTML string, pageNum int) ([]models.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return nil, fmt.Errorf("parse results table: %w", err)
	}

	var rows []models.RawRow
	doc.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		cells := tr.Find("td")
		if cells.Length() < minRowCells {
			e.sink.Publish(Event{
				Kind: EventRowSkipped,
				Page: pageNum,
				Row:  i,
				Note: fmt.Sprintf("incomplete row: %d of %d cells", cells.Length(), minRowCells),
			})
			return
		}

		var row models.RawRow
		cells.EachWithBreak(func(j int, td *goquery.Selection) bool {
			if j >= len(row) {
				return false
			}
			row[j] = strings.TrimSpace(td.Text())
			return true
		})
		rows = append(rows, row)
	})
	return rows, nil
}
