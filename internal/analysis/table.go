package analysis

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/KaramelBytes/survival-cli/internal/parser"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DefaultNaNValues are the cell values loaded as missing.
var DefaultNaNValues = []string{"", "NA", "NaN", "<nil>"}

// LoadOptions controls how a file is read into a Table.
type LoadOptions struct {
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// XLSX sheet selection; SheetIndex is 1-based.
	SheetName  string
	SheetIndex int
	// NaNValues overrides DefaultNaNValues when non-empty.
	NaNValues []string
}

// Table is an in-memory dataset with named, typed columns.
type Table struct {
	Name string
	df   dataframe.DataFrame
}

// Load reads a CSV, TSV or XLSX file into a Table. Column types are detected
// from content.
func Load(path string, opt LoadOptions) (*Table, error) {
	records, err := parser.ReadRecords(path, parser.Options{
		Delimiter:  opt.Delimiter,
		SheetName:  opt.SheetName,
		SheetIndex: opt.SheetIndex,
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return FromRecords(filepath.Base(path), records, opt.NaNValues)
}

// FromRecords builds a Table from a header row followed by data rows.
func FromRecords(name string, records [][]string, nanValues []string) (*Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("%w: %s: missing header", ErrParse, name)
	}
	header := records[0]
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("%w: %s: empty column name at position %d", ErrParse, name, i+1)
		}
		header[i] = h
	}
	for i, row := range records[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: %s: row %d has %d fields, want %d", ErrParse, name, i+1, len(row), len(header))
		}
	}
	if len(records) == 1 {
		// LoadRecords rejects a header without rows.
		cols := make([]series.Series, len(header))
		for i, h := range header {
			cols[i] = series.New([]string{}, series.String, h)
		}
		return FromDataFrame(name, dataframe.New(cols...))
	}
	if len(nanValues) == 0 {
		nanValues = DefaultNaNValues
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, name, df.Err)
	}
	return &Table{Name: name, df: df}, nil
}

// FromDataFrame wraps an existing dataframe.
func FromDataFrame(name string, df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, name, df.Err)
	}
	return &Table{Name: name, df: df}, nil
}

// DataFrame exposes the underlying dataframe.
func (t *Table) DataFrame() dataframe.DataFrame { return t.df }

// Rows returns the number of data rows.
func (t *Table) Rows() int { return t.df.Nrow() }

// Names returns the column names in header order.
func (t *Table) Names() []string { return t.df.Names() }

// Has reports whether the table has a column with the given name.
func (t *Table) Has(col string) bool { return slices.Contains(t.df.Names(), col) }

// Column returns the named column.
func (t *Table) Column(col string) (series.Series, error) {
	if !t.Has(col) {
		return series.Series{}, fmt.Errorf("%w: %s", ErrColumnMissing, col)
	}
	s := t.df.Col(col)
	if s.Err != nil {
		return series.Series{}, fmt.Errorf("column %s: %w", col, s.Err)
	}
	return s, nil
}

// Numeric returns the named column as floats; missing cells are NaN.
func (t *Table) Numeric(col string) ([]float64, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	switch s.Type() {
	case series.Int, series.Float:
		return s.Float(), nil
	default:
		return nil, fmt.Errorf("%w: column %s is %s, want numeric", ErrTypeMismatch, col, s.Type())
	}
}

// Cells returns the named column as display strings together with a mask of
// missing cells.
func (t *Table) Cells(col string) ([]string, []bool, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, nil, err
	}
	vals := make([]string, s.Len())
	for i := range vals {
		vals[i] = CellString(s, i)
	}
	return vals, s.IsNaN(), nil
}

// CellString formats one element for grouping and display. Floats are written
// at full precision without trailing zeros.
func CellString(s series.Series, i int) string {
	e := s.Elem(i)
	if e.IsNA() {
		return ""
	}
	if s.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}
