package export

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Results"

// WriteXLSX renders the rows as a single-sheet workbook with the same
// columns as the CSV export.
func WriteXLSX(w io.Writer, rows [][]string) error {
	file := excelize.NewFile()
	defer file.Close()

	err := file.SetSheetName(file.GetSheetName(0), sheetName)
	if err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(row))
		for j, value := range row {
			cells[j] = value
		}
		err = file.SetSheetRow(sheetName, cell, &cells)
		if err != nil {
			return err
		}
	}

	return file.Write(w)
}
