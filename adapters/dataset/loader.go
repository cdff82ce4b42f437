// Package dataset loads count-data tables from CSV and xlsx files and turns
// named columns into the response vector and design matrices of a fit call.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"

	"vipfit/internal/errors"
)

// Table is a column-oriented numeric table with a header row.
type Table struct {
	Columns []string
	data    map[string][]float64
	nrows   int
}

// Loader reads CSV or xlsx files, dispatching on the file extension.
type Loader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewLoader creates a loader for the given path.
func NewLoader(filePath string) *Loader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	return &Loader{filePath: filePath, fileType: fileType}
}

// Load reads the file into a Table.
func (l *Loader) Load() (*Table, error) {
	if _, err := os.Stat(l.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("data file not found: %s", l.filePath)
	}

	switch l.fileType {
	case "xlsx":
		return l.readXLSX()
	default:
		return l.readCSV()
	}
}

func (l *Loader) readCSV() (*Table, error) {
	f, err := os.Open(l.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV")
	}
	return tableFromRows(rows)
}

func (l *Loader) readXLSX() (*Table, error) {
	f, err := excelize.OpenFile(l.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open xlsx file")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	return tableFromRows(rows)
}

func tableFromRows(rows [][]string) (*Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("table needs a header row and at least one data row")
	}

	header := rows[0]
	data := make(map[string][]float64, len(header))
	for _, name := range header {
		data[strings.TrimSpace(name)] = make([]float64, 0, len(rows)-1)
	}

	for ri, row := range rows[1:] {
		for ci, name := range header {
			name = strings.TrimSpace(name)
			var cell string
			if ci < len(row) {
				cell = strings.TrimSpace(row[ci])
			}
			if cell == "" {
				return nil, fmt.Errorf("row %d: empty cell in column %q", ri+2, name)
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: column %q: %w", ri+2, name, err)
			}
			data[name] = append(data[name], v)
		}
	}

	return &Table{Columns: header, data: data, nrows: len(rows) - 1}, nil
}

// N returns the number of data rows.
func (t *Table) N() int { return t.nrows }

// Column returns the named column.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.data[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return col, nil
}

// Counts returns the named column as non-negative integer counts.
func (t *Table) Counts(name string) ([]int, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	y := make([]int, len(col))
	for i, v := range col {
		n := int(math.Round(v))
		if math.Abs(v-float64(n)) > 1e-9 || n < 0 {
			return nil, fmt.Errorf("column %q row %d: %g is not a non-negative integer", name, i+1, v)
		}
		y[i] = n
	}
	return y, nil
}

// Design assembles a design matrix from the named columns, prepending an
// intercept column. The returned names align with the matrix columns.
func (t *Table) Design(cols []string) (*mat.Dense, []string, error) {
	k := len(cols) + 1
	x := mat.NewDense(t.nrows, k, nil)
	names := make([]string, k)
	names[0] = "(Intercept)"
	for i := 0; i < t.nrows; i++ {
		x.Set(i, 0, 1)
	}
	for j, name := range cols {
		col, err := t.Column(name)
		if err != nil {
			return nil, nil, err
		}
		names[j+1] = name
		for i, v := range col {
			x.Set(i, j+1, v)
		}
	}
	return x, names, nil
}

// ColumnSummary holds the basic profile of one column.
type ColumnSummary struct {
	Name   string
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Profile summarizes every column, for quick inspection before fitting.
func (t *Table) Profile() []ColumnSummary {
	out := make([]ColumnSummary, 0, len(t.Columns))
	for _, name := range t.Columns {
		col := t.data[strings.TrimSpace(name)]
		mean, _ := stats.Mean(col)
		sd, _ := stats.StandardDeviation(col)
		lo, _ := stats.Min(col)
		hi, _ := stats.Max(col)
		out = append(out, ColumnSummary{Name: name, Mean: mean, StdDev: sd, Min: lo, Max: hi})
	}
	return out
}
