package commands

import (
	"os"
	"time"
	"waterbills/lib/export"
	"waterbills/lib/scrapers/baltimorewater"
	"waterbills/lib/sheets"

	"github.com/spf13/cobra"
)

var (
	sheetsSpreadsheet *string
	sheetsReadRange   *string
	sheetsWriteRange  *string
	sheetsAddresses   *bool
)

func init() {
	sheetsSpreadsheet = sheetsRunCmd.Flags().String("spreadsheet", "", "Spreadsheet id to read queries from and write results to.")
	sheetsReadRange = sheetsRunCmd.Flags().String("read-range", "Sheet1!A2:A", "Range whose first column holds one query per row.")
	sheetsWriteRange = sheetsRunCmd.Flags().String("write-range", "Results!A1", "Cell the result header row starts at.")
	sheetsAddresses = sheetsRunCmd.Flags().Bool("addresses", false, "Treat queries as street addresses instead of account numbers.")
	sheetsRunCmd.MarkFlagRequired("spreadsheet")

	sheetsCmd.AddCommand(sheetsRunCmd)
	rootCmd.AddCommand(sheetsCmd)
}

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Runs batches against a Google spreadsheet.",
}

var sheetsRunCmd = &cobra.Command{
	Use:   "run --spreadsheet <id>",
	Short: "Reads queries from a spreadsheet range and writes results back.",
	Run: func(cmd *cobra.Command, args []string) {
		credentials := os.Getenv("GOOGLE_CREDENTIALS")
		if credentials == "" {
			fatal("GOOGLE_CREDENTIALS is not set", os.ErrNotExist)
		}

		ctx := cmd.Context()
		adapter, err := sheets.NewClient(ctx, []byte(credentials))
		if err != nil {
			fatal("failed to initialize sheets client", err)
		}

		queries, err := adapter.ReadQueries(ctx, *sheetsSpreadsheet, *sheetsReadRange)
		if err != nil {
			fatal("failed to read queries from spreadsheet", err)
		}
		if len(queries) == 0 {
			fatal("no queries found in spreadsheet range", os.ErrInvalid)
		}

		opts := baltimorewater.DefaultOptions()
		queryHeader := "Account Number"
		if *sheetsAddresses {
			opts = baltimorewater.AddressOptions()
			queryHeader = "Address"
		}

		rows := runBatch(ctx, opts, queries, time.Second)
		cells := export.BuildRows(rows, export.Options{
			QueryHeader:    queryHeader,
			Labels:         opts.Labels,
			CurrencyLabels: export.DefaultCurrencyLabels(),
		})

		err = adapter.WriteResults(ctx, *sheetsSpreadsheet, *sheetsWriteRange, cells)
		if err != nil {
			fatal("failed to write results to spreadsheet", err)
		}
	},
}
