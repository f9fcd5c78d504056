package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Read loads the selected sheet. If SheetName is empty and SheetIndex <= 0 the
// first sheet is used. Rows are padded to the header width; trailing blank rows
// are dropped.
func (xlsxReader) Read(path string, opt Options) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("open xlsx: %w", ErrNoSheet)
	}
	sheet := sheets[0]
	switch {
	case opt.SheetName != "":
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("%w: %q", ErrNoSheet, opt.SheetName)
		}
	case opt.SheetIndex > 0:
		if opt.SheetIndex > len(sheets) {
			return nil, fmt.Errorf("%w: index %d of %d", ErrNoSheet, opt.SheetIndex, len(sheets))
		}
		sheet = sheets[opt.SheetIndex-1]
	}

	// Raw values keep full numeric precision instead of the display format.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	for len(rows) > 0 && blank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return rows, nil
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
