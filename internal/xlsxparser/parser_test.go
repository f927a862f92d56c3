package xlsxparser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buffer bytes.Buffer
	require.NoError(t, f.Write(&buffer))
	return buffer.Bytes()
}

func TestParse(t *testing.T) {
	data := workbook(t, "Export", [][]any{
		{},
		{"Buchungsnummer", "Datum", "Objekt"},
		{"B-1", "01.06.2024", "Haus Möwe"},
		{"B-2", "02.06.2024"},
	})
	require.True(t, IsWorkbook(data))

	transform := func(h string) string {
		if h == "Datum" {
			return "Buchungsdatum"
		}
		return h
	}

	parsed, err := Parse(data, transform)
	require.NoError(t, err)

	assert.Equal(t, []string{"Buchungsnummer", "Buchungsdatum", "Objekt"}, parsed.Headers)
	assert.Equal(t, 2, parsed.RowCount)
	assert.Equal(t, "Haus Möwe", parsed.Rows[0]["Objekt"])
	assert.Equal(t, "02.06.2024", parsed.Rows[1]["Buchungsdatum"])
	assert.Equal(t, "", parsed.Rows[1]["Objekt"])
}

func TestParseWithOptions_UnknownSheet(t *testing.T) {
	data := workbook(t, "Sheet1", [][]any{{"Buchungsnummer"}})

	_, err := ParseWithOptions(data, nil, Options{SheetName: "Missing"})
	assert.Error(t, err)
}

func TestParse_NotAWorkbook(t *testing.T) {
	data := []byte("Buchungsnummer;Objekt\n")

	assert.False(t, IsWorkbook(data))
	_, err := Parse(data, nil)
	assert.Error(t, err)
}
