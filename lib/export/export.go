package export

import (
	"waterbills/lib/batch"
	"waterbills/lib/scrapers/baltimorewater"
	"waterbills/lib/textutil"
)

// Options fixes the column layout of an export: the query column first,
// the field labels in variant order, then the status column.
type Options struct {
	QueryHeader string
	Labels      []string
	// labels whose values get reformatted to $X,XXX.XX on the way out
	CurrencyLabels []string
}

func DefaultCurrencyLabels() []string {
	return []string{
		baltimorewater.LabelCurrentBalance,
		baltimorewater.LabelPreviousBalance,
		baltimorewater.LabelLastPayAmount,
		baltimorewater.LabelCurrentBillAmount,
	}
}

// BuildRows renders a batch result into a header row plus one row per
// query, in batch order.
func BuildRows(result []batch.Row, opts Options) [][]string {
	currency := map[string]bool{}
	for _, label := range opts.CurrencyLabels {
		currency[label] = true
	}

	header := make([]string, 0, len(opts.Labels)+2)
	header = append(header, opts.QueryHeader)
	header = append(header, opts.Labels...)
	header = append(header, "Status")

	rows := [][]string{header}
	for _, row := range result {
		cells := make([]string, 0, len(header))
		cells = append(cells, row.Query)
		for _, label := range opts.Labels {
			value, ok := row.Fields[label]
			if !ok {
				value = baltimorewater.NotAvailable
			}
			if currency[label] && value != batch.ErrorValue {
				value = textutil.FormatCurrency(value)
			}
			cells = append(cells, value)
		}
		cells = append(cells, row.Status)
		rows = append(rows, cells)
	}
	return rows
}
