package sheet

import (
	"fmt"
	"strings"
)

// Table is a detected worksheet: unique header names plus the data rows below
// the header row. Row indices refer to the original raw grid, so synthesized
// SKUs stay stable across re-imports of the same file.
type Table struct {
	Headers []string
	Rows    []Row
}

// Row is one data row with its position in the raw grid.
type Row struct {
	Index int
	Cells []string
}

// Cell returns the value under header h, or "" when the header is unknown or
// the row is ragged.
func (t *Table) Cell(r Row, h string) string {
	for i, name := range t.Headers {
		if name == h {
			if i < len(r.Cells) {
				return r.Cells[i]
			}
			return ""
		}
	}
	return ""
}

// Column returns all cell values under header h, row order preserved.
func (t *Table) Column(h string) []string {
	col := -1
	for i, name := range t.Headers {
		if name == h {
			col = i
			break
		}
	}
	if col < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		if col < len(r.Cells) {
			out = append(out, r.Cells[col])
		} else {
			out = append(out, "")
		}
	}
	return out
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// BuildTable locates the header row in a raw grid and assembles a Table:
// empty rows dropped, header names deduplicated ("col_N" for blanks), fully
// empty columns removed. Returns nil for a grid without any content.
func BuildTable(grid [][]string) *Table {
	type rawRow struct {
		index int
		cells []string
	}
	rows := make([]rawRow, 0, len(grid))
	width := 0
	for i, cells := range grid {
		if rowEmpty(cells) {
			continue
		}
		rows = append(rows, rawRow{index: i, cells: cells})
		if len(cells) > width {
			width = len(cells)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	compact := make([][]string, len(rows))
	for i, r := range rows {
		compact[i] = r.cells
	}
	headerIdx := DetectHeaderRow(compact, DefaultMaxScanRows)

	headers := make([]string, width)
	used := map[string]int{}
	headerCells := rows[headerIdx].cells
	for i := 0; i < width; i++ {
		name := ""
		if i < len(headerCells) {
			name = strings.TrimSpace(headerCells[i])
		}
		if name == "" {
			name = fmt.Sprintf("col_%d", i+1)
		}
		base := name
		if n := used[base]; n > 0 {
			name = fmt.Sprintf("%s_%d", base, n+1)
		}
		used[base]++
		headers[i] = name
	}

	t := &Table{Headers: headers}
	for _, r := range rows[headerIdx+1:] {
		cells := make([]string, width)
		copy(cells, r.cells)
		if rowEmpty(cells) {
			continue
		}
		t.Rows = append(t.Rows, Row{Index: r.index, Cells: cells})
	}
	t.dropEmptyColumns()
	return t
}

// dropEmptyColumns removes columns whose every data cell is blank.
func (t *Table) dropEmptyColumns() {
	keep := make([]bool, len(t.Headers))
	for i := range t.Headers {
		for _, r := range t.Rows {
			if i < len(r.Cells) && strings.TrimSpace(r.Cells[i]) != "" {
				keep[i] = true
				break
			}
		}
	}
	headers := t.Headers[:0]
	for i, h := range t.Headers {
		if keep[i] {
			headers = append(headers, h)
		}
	}
	for ri, r := range t.Rows {
		cells := make([]string, 0, len(headers))
		for i := range keep {
			if keep[i] && i < len(r.Cells) {
				cells = append(cells, r.Cells[i])
			}
		}
		t.Rows[ri].Cells = cells
	}
	t.Headers = headers
}
