package batch

import (
	"context"
	"log/slog"
	"time"
	"waterbills/lib/scrapers/baltimorewater"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("batch")

const (
	StatusSuccess = "Success"
	// distinct from the extractor's "N/A": the field wasn't absent,
	// the whole lookup failed
	ErrorValue = "Error"
)

// Fetcher is the one-query lookup the driver runs per input.
type Fetcher interface {
	GetBillInfo(ctx context.Context, query string) (baltimorewater.Record, error)
}

// Row pairs one input query with its extracted fields and an outcome:
// StatusSuccess, or the failure's message verbatim.
type Row struct {
	Query   string
	Fields  map[string]string
	History []baltimorewater.HistoryRow
	Status  string
}

type Options struct {
	Labels []string
	// pause after every query, success or failure, to bound request
	// rate against the portal. Defaults to one second.
	Delay time.Duration
	// called after each item with (done, total), nil to disable
	Progress func(done, total int)
}

// Run processes queries strictly in order, one lookup at a time, and
// always returns exactly one row per query. Failures never abort the
// batch; a cancelled context marks the remaining queries with the
// context's error instead of dropping them.
func Run(ctx context.Context, fetcher Fetcher, queries []string, opts Options) []Row {
	ctx, span := tracer.Start(ctx, "batch:Run")
	defer span.End()

	delay := opts.Delay
	if delay == 0 {
		delay = time.Second
	}

	total := len(queries)
	rows := make([]Row, 0, total)

	for idx, query := range queries {
		if err := ctx.Err(); err != nil {
			rows = append(rows, errorRow(query, opts.Labels, err.Error()))
			notify(opts.Progress, idx+1, total)
			continue
		}

		record, err := fetcher.GetBillInfo(ctx, query)
		if err != nil {
			slog.WarnContext(ctx, "query failed", "query", query, "err", err)
			rows = append(rows, errorRow(query, opts.Labels, err.Error()))
		} else {
			fields := map[string]string{}
			for _, label := range opts.Labels {
				value, ok := record.Fields[label]
				if !ok {
					value = baltimorewater.NotAvailable
				}
				fields[label] = value
			}
			rows = append(rows, Row{
				Query:   query,
				Fields:  fields,
				History: record.History,
				Status:  StatusSuccess,
			})
		}

		notify(opts.Progress, idx+1, total)

		if idx == total-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}

	return rows
}

func errorRow(query string, labels []string, status string) Row {
	fields := map[string]string{}
	for _, label := range labels {
		fields[label] = ErrorValue
	}
	return Row{
		Query:  query,
		Fields: fields,
		Status: status,
	}
}

func notify(progress func(done, total int), done, total int) {
	if progress == nil {
		return
	}
	progress(done, total)
}
