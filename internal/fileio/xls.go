package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

func cellValue(v string) string {
	return strings.TrimSpace(v)
}

// computeMaxCols probes a bounded number of columns per row for the widest
// non-empty extent.
func computeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 512
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := 0; j < probeMax; j++ {
			if cellValue(row.Col(j)) != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}

// readXLS reads a legacy .xls workbook. The table width is fixed up front
// because Row.LastCol is unreliable for sparse sheets.
func readXLS(r io.Reader) ([]SheetGrid, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// exports from old German ERP systems are usually cp1252, sometimes UTF-8
	var wb *xls.WorkBook
	var lastErr error
	for _, charset := range []string{"windows-1252", "utf-8"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), charset)
		if err == nil && wb != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	var sheets []SheetGrid
	for s := 0; s < wb.NumSheets(); s++ {
		sheet := wb.GetSheet(s)
		if sheet == nil {
			continue
		}
		maxCols := computeMaxCols(sheet)
		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for i := 0; i <= int(sheet.MaxRow); i++ {
			row := sheet.Row(i)
			cols := make([]string, maxCols)
			if row != nil {
				for j := 0; j < maxCols; j++ {
					cols[j] = cellValue(row.Col(j))
				}
			}
			rows = append(rows, cols)
		}
		sheets = append(sheets, SheetGrid{Name: sheet.Name, Rows: rows})
	}
	return sheets, nil
}
