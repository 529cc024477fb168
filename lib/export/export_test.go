package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"
	"waterbills/lib/batch"
	"waterbills/lib/scrapers/baltimorewater"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildRows(t *testing.T) {
	result := []batch.Row{
		{
			Query: "12345678",
			Fields: map[string]string{
				baltimorewater.LabelCurrentBalance: "28.26",
				baltimorewater.LabelLastPayDate:    "01/15/2024",
			},
			Status: batch.StatusSuccess,
		},
	}

	rows := BuildRows(result, Options{
		QueryHeader:    "Account Number",
		Labels:         []string{baltimorewater.LabelCurrentBalance, baltimorewater.LabelLastPayDate},
		CurrencyLabels: DefaultCurrencyLabels(),
	})

	require.Equal(t, [][]string{
		{"Account Number", baltimorewater.LabelCurrentBalance, baltimorewater.LabelLastPayDate, "Status"},
		{"12345678", "$28.26", "01/15/2024", "Success"},
	}, rows)
}

func TestBuildRowsSentinelsPassThrough(t *testing.T) {
	result := []batch.Row{
		{
			Query: "a",
			Fields: map[string]string{
				baltimorewater.LabelCurrentBalance: baltimorewater.NotAvailable,
			},
			Status: batch.StatusSuccess,
		},
		{
			Query: "b",
			Fields: map[string]string{
				baltimorewater.LabelCurrentBalance: batch.ErrorValue,
			},
			Status: "network error: timeout",
		},
	}

	rows := BuildRows(result, Options{
		QueryHeader:    "Account Number",
		Labels:         []string{baltimorewater.LabelCurrentBalance},
		CurrencyLabels: DefaultCurrencyLabels(),
	})

	require.Equal(t, "N/A", rows[1][1])
	require.Equal(t, "Error", rows[2][1])
	require.Equal(t, "network error: timeout", rows[2][2])
}

func TestBuildRowsMissingLabel(t *testing.T) {
	rows := BuildRows(
		[]batch.Row{{Query: "a", Fields: map[string]string{}, Status: batch.StatusSuccess}},
		Options{
			QueryHeader: "Account Number",
			Labels:      []string{baltimorewater.LabelPenaltyDate},
		},
	)
	require.Equal(t, baltimorewater.NotAvailable, rows[1][1])
}

type scriptedFetcher map[string]func() (baltimorewater.Record, error)

func (s scriptedFetcher) GetBillInfo(ctx context.Context, query string) (baltimorewater.Record, error) {
	return s[query]()
}

// two account numbers, one full record and one transport failure: the
// exported CSV keeps both rows, in order, with the failure's message in
// the status column and Error sentinels in the value columns.
func TestBatchToCSV(t *testing.T) {
	labels := baltimorewater.DefaultLabels()

	fetcher := scriptedFetcher{
		"11111111": func() (baltimorewater.Record, error) {
			fields := map[string]string{}
			for _, label := range labels {
				fields[label] = "x"
			}
			fields[baltimorewater.LabelCurrentBalance] = "28.26"
			fields[baltimorewater.LabelServiceAddress] = "123 MAIN ST"
			return baltimorewater.Record{Fields: fields}, nil
		},
		"22222222": func() (baltimorewater.Record, error) {
			return baltimorewater.Record{}, errors.New("network error: connection reset")
		},
	}

	result := batch.Run(context.Background(), fetcher, []string{"11111111", "22222222"}, batch.Options{
		Labels: labels,
		Delay:  time.Millisecond,
	})

	var buf bytes.Buffer
	err := WriteCSV(&buf, BuildRows(result, Options{
		QueryHeader:    "Account Number",
		Labels:         labels,
		CurrencyLabels: DefaultCurrencyLabels(),
	}))
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	require.Equal(t, "Account Number", header[0])
	require.Equal(t, "Status", header[len(header)-1])

	success := records[1]
	require.Equal(t, "11111111", success[0])
	require.Equal(t, "Success", success[len(success)-1])
	require.Contains(t, success, "$28.26")
	require.Contains(t, success, "123 MAIN ST")

	failure := records[2]
	require.Equal(t, "22222222", failure[0])
	require.Equal(t, "network error: connection reset", failure[len(failure)-1])
	for _, cell := range failure[1 : len(failure)-1] {
		require.Equal(t, batch.ErrorValue, cell)
	}
}

func TestWriteXLSX(t *testing.T) {
	rows := [][]string{
		{"Account Number", "Current Balance", "Status"},
		{"11111111", "$28.26", "Success"},
	}

	var buf bytes.Buffer
	err := WriteXLSX(&buf, rows)
	require.NoError(t, err)

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	got, err := file.GetRows("Results")
	require.NoError(t, err)
	require.Equal(t, rows, got)
}
