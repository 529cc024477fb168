package baltimorewater

import (
	"waterbills/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// HistoryRow maps a history-table header to the matching cell of one
// billing period.
type HistoryRow map[string]string

// extractHistory captures the payment-history table by id. The first
// row names the columns; data rows with a different cell count are
// dropped rather than partially mapped.
func extractHistory(doc *goquery.Document, tableID string) []HistoryRow {
	rows := doc.Find("table#" + tableID + " tr")
	if rows.Length() < 2 {
		return nil
	}

	headerCells := rows.First().Find("th")
	if headerCells.Length() == 0 {
		headerCells = rows.First().Find("td")
	}
	var headers []string
	headerCells.Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, htmlutil.CleanText(cell.Text()))
	})
	if len(headers) == 0 {
		return nil
	}

	var history []HistoryRow
	rows.Slice(1, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, htmlutil.CleanText(cell.Text()))
		})
		if len(cells) != len(headers) {
			return
		}

		row := HistoryRow{}
		for i, header := range headers {
			row[header] = cells[i]
		}
		history = append(history, row)
	})
	return history
}
