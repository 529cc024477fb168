package export

import (
	"encoding/csv"
	"io"
)

func WriteCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	err := writer.WriteAll(rows)
	if err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
