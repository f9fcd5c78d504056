package export

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/survival-cli/internal/analysis"
	"github.com/KaramelBytes/survival-cli/internal/utils"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// ErrIO indicates the summary could not be written.
var ErrIO = errors.New("io error")

const (
	countColumn   = "Count"
	percentColumn = "Percent"
	xlsxSheet     = "Summary"
)

// WriteSummary serializes the summary to path. The format follows the
// extension: .xlsx writes a workbook, anything else CSV. The parent directory
// is not created; a missing directory fails with ErrIO.
func WriteSummary(path string, s *analysis.SurvivalSummary) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		data, err = encodeXLSX(s)
	} else {
		data, err = encodeCSV(s)
	}
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrIO, path, err)
	}
	return nil
}

// SummaryFrame converts the summary into a dataframe with columns class,
// survived, Count and Percent. Percent is kept as text at full precision so
// that the written file reads back to the same value.
func SummaryFrame(s *analysis.SurvivalSummary) dataframe.DataFrame {
	n := len(s.Rows)
	classes := make([]string, n)
	survived := make([]bool, n)
	counts := make([]int, n)
	percents := make([]string, n)
	for i, r := range s.Rows {
		classes[i] = r.Class
		survived[i] = r.Survived
		counts[i] = r.Count
		percents[i] = strconv.FormatFloat(r.Percent, 'f', -1, 64)
	}
	return dataframe.New(
		series.New(classes, series.String, s.ClassColumn),
		series.New(survived, series.Bool, s.SurvivedColumn),
		series.New(counts, series.Int, countColumn),
		series.New(percents, series.String, percentColumn),
	)
}

func encodeCSV(s *analysis.SurvivalSummary) ([]byte, error) {
	df := SummaryFrame(s)
	if df.Err != nil {
		return nil, fmt.Errorf("build summary frame: %w", df.Err)
	}
	var buf bytes.Buffer
	if err := df.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeXLSX(s *analysis.SurvivalSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	header := []interface{}{s.ClassColumn, s.SurvivedColumn, countColumn, percentColumn}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{classValue(r.Class), r.Survived, r.Count, r.Percent}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// classValue stores integer-coded classes as numbers in the workbook.
func classValue(c string) interface{} {
	if n, err := strconv.Atoi(c); err == nil {
		return n
	}
	return c
}

// ReadSummary loads a summary written by WriteSummary.
func ReadSummary(path string) (*analysis.SurvivalSummary, error) {
	tbl, err := analysis.Load(path, analysis.LoadOptions{})
	if err != nil {
		return nil, err
	}
	names := tbl.Names()
	if len(names) != 4 || names[2] != countColumn || names[3] != percentColumn {
		return nil, fmt.Errorf("%w: %s: unexpected summary columns %v", analysis.ErrParse, filepath.Base(path), names)
	}
	out := &analysis.SurvivalSummary{ClassColumn: names[0], SurvivedColumn: names[1]}
	if tbl.Rows() == 0 {
		return out, nil
	}

	classes, _, err := tbl.Cells(names[0])
	if err != nil {
		return nil, err
	}
	flags, err := analysis.DeriveBool(tbl, names[1])
	if err != nil {
		return nil, err
	}
	surv, err := flags.Column(names[1])
	if err != nil {
		return nil, err
	}
	countCol, err := tbl.Column(countColumn)
	if err != nil {
		return nil, err
	}
	counts, err := countCol.Int()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", analysis.ErrTypeMismatch, countColumn, err)
	}
	percents, err := tbl.Numeric(percentColumn)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		b, err := surv.Elem(i).Bool()
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", analysis.ErrTypeMismatch, names[1], i+1, err)
		}
		if math.IsNaN(percents[i]) {
			return nil, fmt.Errorf("%w: %s row %d is empty", analysis.ErrParse, percentColumn, i+1)
		}
		out.Rows = append(out.Rows, analysis.SurvivalRow{
			Class:    classes[i],
			Survived: b,
			Count:    counts[i],
			Percent:  percents[i],
		})
	}
	return out, nil
}
