package dataset_test

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Dev-Abood/GlucoTwin/internal/dataset"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeWorkbook creates a workbook with the given sheets, each a header row
// followed by data rows.
func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cell, &r))
		}
	}

	path := filepath.Join(t.TempDir(), "GDM_UOS.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func sampleSheets() map[string][][]any {
	return map[string][][]any{
		dataset.SheetGDM: {
			{"Patients", " Age ", "Fasting", "Type of treatment", "Mode of Delivery", "GDM only"},
			{"p1", 31, 5.6, "Metformin", "CS", "x"},
			{"p2", 35, 6.1, "No Treatment", "NVD", "y"},
			{nil, nil, nil, nil, nil, nil},
			{"p3", 29, 5.4, "Metformin ", "CS", "z"},
		},
		dataset.SheetNGDM: {
			{"Patients", "Age", "Fasting", "socioeconomic status", "NGDM only"},
			{"n1", 27, 4.3, "mid", "a"},
			{"n2", 30, 4.8},
		},
	}
}

func TestShape(t *testing.T) {
	input := writeWorkbook(t, sampleSheets())
	output := filepath.Join(t.TempDir(), "out.csv")

	res, err := dataset.NewShaper(discardLogger()).Shape(input, output)
	require.NoError(t, err)

	assert.Equal(t, 3, res.GDMRows)
	assert.Equal(t, 2, res.NGDMRows)
	assert.Equal(t, []string{"Age", "Fasting", "Type of treatment", "GDM"}, res.Columns)

	records := readCSV(t, output)
	require.Len(t, records, 1+res.Rows())
	assert.Equal(t, res.Columns, records[0])

	assert.Equal(t, []string{"27", "4.3", "No Treatment", "0"}, records[1])
	assert.Equal(t, []string{"30", "4.8", "No Treatment", "0"}, records[2])
	assert.Equal(t, []string{"31", "5.6", "Metformin", "1"}, records[3])
	assert.Equal(t, []string{"35", "6.1", "No Treatment", "1"}, records[4])
	assert.Equal(t, []string{"29", "5.4", "Metformin ", "1"}, records[5])
}

func TestShape_LabelsFollowSheets(t *testing.T) {
	input := writeWorkbook(t, sampleSheets())
	output := filepath.Join(t.TempDir(), "out.csv")

	res, err := dataset.NewShaper(discardLogger()).Shape(input, output)
	require.NoError(t, err)

	records := readCSV(t, output)[1:]
	label := len(res.Columns) - 1
	for i, r := range records {
		want := "0"
		if i >= res.NGDMRows {
			want = "1"
		}
		assert.Equal(t, want, r[label], "row %d", i)
	}
}

func TestShape_MissingInput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.csv")
	shaper := dataset.NewShaper(discardLogger())

	_, err := shaper.Shape(filepath.Join(dir, "missing.xlsx"), output)
	assert.ErrorIs(t, err, dataset.ErrInputNotFound)

	assert.False(t, shaper.Run(filepath.Join(dir, "missing.xlsx"), output))
	assert.NoFileExists(t, output)
}

func TestShape_MissingSheetLeavesNoOutput(t *testing.T) {
	input := writeWorkbook(t, map[string][][]any{
		dataset.SheetGDM: {{"Age"}, {31}},
	})
	dir := t.TempDir()
	output := filepath.Join(dir, "out.csv")

	ok := dataset.NewShaper(discardLogger()).Run(input, output)

	assert.False(t, ok)
	assert.NoFileExists(t, output)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestShape_DropsPlaceholderColumns(t *testing.T) {
	input := writeWorkbook(t, map[string][][]any{
		dataset.SheetGDM: {
			{"Age", "Unnamed: 1", nil, "Height"},
			{31, "junk", "more junk", 160},
		},
		dataset.SheetNGDM: {
			{"Age", "Height", "Type of treatment"},
			{27, 158, "No Treatment"},
		},
	})
	output := filepath.Join(t.TempDir(), "out.csv")

	res, err := dataset.NewShaper(discardLogger()).Shape(input, output)
	require.NoError(t, err)

	// GDM lacks a treatment column, so it is not common.
	assert.Equal(t, []string{"Age", "Height", "GDM"}, res.Columns)
	assert.Equal(t, []string{"31", "160", "1"}, readCSV(t, output)[2])
}

func TestRun_Success(t *testing.T) {
	input := writeWorkbook(t, sampleSheets())
	output := filepath.Join(t.TempDir(), "out.csv")

	assert.True(t, dataset.NewShaper(discardLogger()).Run(input, output))
	assert.FileExists(t, output)
}
