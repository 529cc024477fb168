package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"waterbills/lib/batch"
	"waterbills/lib/configutil"
	"waterbills/lib/export"
	"waterbills/lib/scrapers/baltimorewater"
	"waterbills/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type Config struct {
	BaseUrl        string `json:"base_url"`
	DelaySeconds   int    `json:"delay_seconds"`
	HistoryTableID string `json:"history_table_id"`
}

var (
	scrapeInput     *string
	scrapeCsvOut    *string
	scrapeXlsxOut   *string
	scrapeAddresses *bool
)

func init() {
	scrapeInput = scrapeCmd.Flags().String("input", "", "File with one query per line, instead of arguments.")
	scrapeCsvOut = scrapeCmd.Flags().String("csv", "", "Write results to a CSV file.")
	scrapeXlsxOut = scrapeCmd.Flags().String("xlsx", "", "Write results to a single-sheet XLSX file.")
	scrapeAddresses = scrapeCmd.Flags().Bool("addresses", false, "Treat queries as street addresses instead of account numbers.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [queries...]",
	Short: "Fetches water bill records and exports them.",
	Run: func(cmd *cobra.Command, args []string) {
		queries := args
		if *scrapeInput != "" {
			raw, err := os.ReadFile(*scrapeInput)
			if err != nil {
				fatal("failed to read input file", err)
			}
			queries = nil
			for _, line := range strings.Split(string(raw), "\n") {
				line = strings.TrimSpace(line)
				if line != "" {
					queries = append(queries, line)
				}
			}
		}
		if len(queries) == 0 {
			fatal("no queries given", os.ErrInvalid)
		}

		opts := baltimorewater.DefaultOptions()
		queryHeader := "Account Number"
		if *scrapeAddresses {
			opts = baltimorewater.AddressOptions()
			queryHeader = "Address"

			valid, invalid := textutil.PartitionAddresses(queries)
			for _, addr := range invalid {
				slog.Warn("skipping invalid address", "address", addr)
			}
			if len(valid) == 0 {
				fatal("no valid addresses to process", os.ErrInvalid)
			}
			queries = valid
		}

		cfg, err := configutil.ReadConfig[Config]("waterbills.json5")
		if err != nil && !os.IsNotExist(err) {
			fatal("failed to read config", err)
		}
		if cfg.BaseUrl != "" {
			opts.BaseUrl = cfg.BaseUrl
		}
		if cfg.HistoryTableID != "" {
			opts.HistoryTableID = cfg.HistoryTableID
		}

		rows := runBatch(cmd.Context(), opts, queries, time.Duration(cfg.DelaySeconds)*time.Second)
		cells := export.BuildRows(rows, export.Options{
			QueryHeader:    queryHeader,
			Labels:         opts.Labels,
			CurrencyLabels: export.DefaultCurrencyLabels(),
		})

		renderTable(cells)

		if *scrapeCsvOut != "" {
			writeFile(*scrapeCsvOut, cells, export.WriteCSV)
		}
		if *scrapeXlsxOut != "" {
			writeFile(*scrapeXlsxOut, cells, export.WriteXLSX)
		}
	},
}

func runBatch(ctx context.Context, opts baltimorewater.Options, queries []string, delay time.Duration) []batch.Row {
	client, err := baltimorewater.NewClient(ctx, opts)
	if err != nil {
		fatal("failed to initialize scraper", err)
	}

	t1 := time.Now()
	rows := batch.Run(ctx, client, queries, batch.Options{
		Labels: opts.Labels,
		Delay:  delay,
		Progress: func(done, total int) {
			slog.Info("progress", "done", done, "total", total)
		},
	})
	slog.Info("batch finished", "queries", len(queries), "seconds", time.Since(t1).Seconds())

	return rows
}

func renderTable(cells [][]string) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)

	t.AppendHeader(toRow(cells[0]))
	for _, row := range cells[1:] {
		t.AppendRow(toRow(row))
	}
	t.SetRowPainter(func(row table.Row) text.Colors {
		status, ok := row[len(row)-1].(string)
		if ok && status != batch.StatusSuccess {
			return text.Colors{text.FgRed}
		}
		return nil
	})
	t.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}

func writeFile(path string, cells [][]string, write func(w io.Writer, rows [][]string) error) {
	file, err := os.Create(path)
	if err != nil {
		fatal("failed to create output file", err)
	}
	defer file.Close()

	err = write(file, cells)
	if err != nil {
		fatal("failed to write output file", err)
	}
	slog.Info("wrote results", "path", path)
}
