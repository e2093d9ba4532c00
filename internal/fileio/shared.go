package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// SheetGrid is one worksheet as a raw 2D grid of cell values, no header
// assumed. Header detection and role inference happen downstream.
type SheetGrid struct {
	Name string
	Rows [][]string
}

// ReadWorkbook picks a parser by file extension and returns every worksheet
// as a raw grid. CSV yields a single sheet named after the file.
func ReadWorkbook(r io.Reader, filename string) ([]SheetGrid, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	case ".csv":
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		return readCSV(r, name)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

// Supported reports whether the importer accepts this extension.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls", ".csv":
		return true
	}
	return false
}
