package fileio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVSemicolonDelimited(t *testing.T) {
	in := "Artikelnummer;Bezeichnung;Preis\n1001;Gouda jung;8,90\n1002;Comté;21,00\n"
	sheets, err := readCSV(strings.NewReader(in), "preisliste")
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "preisliste", sheets[0].Name)
	require.Len(t, sheets[0].Rows, 3)
	assert.Equal(t, []string{"1001", "Gouda jung", "8,90"}, sheets[0].Rows[1])
}

func TestReadCSVCommaDelimited(t *testing.T) {
	in := "sku,name,price\nA1,Cheddar,4.20\n"
	sheets, err := readCSV(strings.NewReader(in), "list")
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, []string{"A1", "Cheddar", "4.20"}, sheets[0].Rows[1])
}

func TestReadCSVEmpty(t *testing.T) {
	sheets, err := readCSV(strings.NewReader(""), "empty")
	require.NoError(t, err)
	assert.Nil(t, sheets)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("Preisliste.XLSX"))
	assert.True(t, Supported("liste.xlsm"))
	assert.True(t, Supported("alt.xls"))
	assert.True(t, Supported("export.csv"))
	assert.False(t, Supported("notes.pdf"))
}
