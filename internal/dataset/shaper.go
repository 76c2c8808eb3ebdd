// Package dataset turns the two-sheet clinical spreadsheet into the labelled
// CSV the trainer consumes.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Dev-Abood/GlucoTwin/internal/domain/feature"
)

// Sheet names in the source workbook.
const (
	SheetGDM  = "GDM"
	SheetNGDM = "NGDM"
)

const (
	treatmentColumn = "Type of treatment"
	noTreatment     = "No Treatment"
	placeholderName = "Unnamed"
)

// removedColumns are dropped by exact name after trimming.
var removedColumns = []string{
	"socioeconomic status",
	"Mode of Delivery",
	"HbA1c Levels at Delivery:",
	"HbA1c Levels at Diagnosis (if using insulin):",
	"Gestational Age at Diagnosis of GDM (Months)",
	"Patients",
}

// ErrInputNotFound is returned when the spreadsheet does not exist.
var ErrInputNotFound = errors.New("input file does not exist")

// Result summarizes a successful shaping run.
type Result struct {
	Columns  []string // output header, label last
	GDMRows  int
	NGDMRows int
}

// Rows returns the number of data rows written.
func (r Result) Rows() int { return r.GDMRows + r.NGDMRows }

// Shaper combines the GDM and NGDM sheets into one labelled CSV.
type Shaper struct {
	logger *slog.Logger
}

// NewShaper creates a Shaper.
func NewShaper(logger *slog.Logger) *Shaper {
	return &Shaper{logger: logger}
}

// Run shapes inputPath into outputPath and reports success. Failures are
// logged, never returned.
func (s *Shaper) Run(inputPath, outputPath string) bool {
	res, err := s.Shape(inputPath, outputPath)
	if err != nil {
		if errors.Is(err, ErrInputNotFound) {
			s.logger.Error("input file does not exist", "path", inputPath)
		} else {
			s.logger.Error("error processing data", "error", err)
		}
		return false
	}
	s.logger.Info("data saved", "path", outputPath, "rows", res.Rows(), "columns", len(res.Columns))
	return true
}

// Shape reads both sheets, harmonizes their columns, labels the rows and
// writes NGDM rows followed by GDM rows. No file is left at outputPath on error.
func (s *Shaper) Shape(inputPath, outputPath string) (Result, error) {
	if _, err := os.Stat(inputPath); errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}
	s.logger.Info("input file found", "path", inputPath)

	book, err := excelize.OpenFile(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	gdm, err := readSheet(book, SheetGDM)
	if err != nil {
		return Result{}, err
	}
	ngdm, err := readSheet(book, SheetNGDM)
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("sheet loaded", "sheet", SheetGDM, "rows", len(gdm.rows), "columns", len(gdm.header))
	s.logger.Info("sheet loaded", "sheet", SheetNGDM, "rows", len(ngdm.rows), "columns", len(ngdm.header))

	for _, name := range removedColumns {
		if gdm.drop(name) {
			s.logger.Info("removed column", "sheet", SheetGDM, "column", name)
		}
		if ngdm.drop(name) {
			s.logger.Info("removed column", "sheet", SheetNGDM, "column", name)
		}
	}

	if ngdm.index(treatmentColumn) < 0 {
		ngdm.addConstant(treatmentColumn, noTreatment)
	}

	common := make([]string, 0, len(gdm.header))
	for _, name := range gdm.header {
		if ngdm.index(name) >= 0 {
			common = append(common, name)
		}
	}
	s.logger.Info("common columns", "count", len(common), "columns", common)
	if len(common) == 0 {
		return Result{}, errors.New("sheets share no columns")
	}

	header := append(append([]string(nil), common...), feature.Label)
	records := make([][]string, 0, len(ngdm.rows)+len(gdm.rows)+1)
	records = append(records, header)
	records = append(records, ngdm.project(common, "0")...)
	records = append(records, gdm.project(common, "1")...)

	if err := writeCSV(outputPath, records); err != nil {
		return Result{}, err
	}

	s.logger.Info("target distribution",
		"gdm", len(gdm.rows),
		"ngdm", len(ngdm.rows),
	)

	return Result{Columns: header, GDMRows: len(gdm.rows), NGDMRows: len(ngdm.rows)}, nil
}

// table is one sheet with a cleaned header and rows padded to its width.
type table struct {
	header []string
	rows   [][]string
}

func readSheet(book *excelize.File, sheet string) (*table, error) {
	raw, err := book.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}

	width := 0
	for _, r := range raw {
		width = max(width, len(r))
	}

	// Keep the positions of real header cells; placeholders are skipped.
	var (
		keep   []int
		header []string
		seen   = map[string]int{}
	)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(raw[0]) {
			name = strings.TrimSpace(raw[0][i])
		}
		if name == "" || strings.HasPrefix(name, placeholderName) {
			continue
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		keep = append(keep, i)
		header = append(header, name)
	}

	t := &table{header: header}
	for _, r := range raw[1:] {
		if blank(r) {
			continue
		}
		row := make([]string, len(keep))
		for j, i := range keep {
			if i < len(r) {
				row[j] = r[i]
			}
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (t *table) index(name string) int {
	for i, h := range t.header {
		if h == name {
			return i
		}
	}
	return -1
}

func (t *table) drop(name string) bool {
	i := t.index(name)
	if i < 0 {
		return false
	}
	t.header = append(t.header[:i], t.header[i+1:]...)
	for k, r := range t.rows {
		t.rows[k] = append(r[:i], r[i+1:]...)
	}
	return true
}

func (t *table) addConstant(name, value string) {
	t.header = append(t.header, name)
	for k := range t.rows {
		t.rows[k] = append(t.rows[k], value)
	}
}

// project returns the rows restricted to columns, with label appended.
func (t *table) project(columns []string, label string) [][]string {
	idx := make([]int, len(columns))
	for j, c := range columns {
		idx[j] = t.index(c)
	}
	out := make([][]string, len(t.rows))
	for k, r := range t.rows {
		row := make([]string, 0, len(columns)+1)
		for _, i := range idx {
			row = append(row, r[i])
		}
		out[k] = append(row, label)
	}
	return out
}

// writeCSV writes records to a temporary file next to path and renames it
// into place.
func writeCSV(path string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}
