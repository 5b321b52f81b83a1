package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "sheet.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()

	t.Run("first sheet by default", func(t *testing.T) {
		t.Parallel()
		path := createTestXLSX(t, map[string][][]string{
			"Survey": {
				{"metric", "value", "room"},
				{"CO2", "740", ""},
				{"PM25", "14", "Bedroom"},
			},
		})

		rows, err := ReadXLSX(path, XLSXOptions{})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"metric", "value", "room"}, rows[0])
		assert.Equal(t, []string{"PM25", "14", "Bedroom"}, rows[2])
	})

	t.Run("sheet by name", func(t *testing.T) {
		t.Parallel()
		path := createTestXLSX(t, map[string][][]string{
			"Week 2": {{"CO2", "810"}},
		})

		rows, err := ReadXLSX(path, XLSXOptions{SheetName: "Week 2"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, []string{"CO2", "810"}, rows[0])
	})

	t.Run("missing sheet name", func(t *testing.T) {
		t.Parallel()
		path := createTestXLSX(t, map[string][][]string{
			"Survey": {{"CO2", "740"}},
		})

		_, err := ReadXLSX(path, XLSXOptions{SheetName: "Nope"})
		require.Error(t, err)
	})

	t.Run("sheet index out of range", func(t *testing.T) {
		t.Parallel()
		path := createTestXLSX(t, map[string][][]string{
			"Survey": {{"CO2", "740"}},
		})

		_, err := ReadXLSX(path, XLSXOptions{SheetIndex: 3})
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ReadXLSX(filepath.Join(t.TempDir(), "absent.xlsx"), XLSXOptions{})
		require.Error(t, err)
	})
}
