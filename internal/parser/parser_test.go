package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/survival-cli/internal/parser"
	"github.com/xuri/excelize/v2"
)

func TestReadRecordsCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "titanic.csv")
	content := "Pclass,Survived,Name\n" +
		"3,0,\"Braund, Mr. Owen Harris\"\n" +
		"1,1,\"Cumings, Mrs. John Bradley\"\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := parser.ReadRecords(p, parser.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1][2] != "Braund, Mr. Owen Harris" {
		t.Fatalf("quoted field not preserved: %q", rows[1][2])
	}
}

func TestReadRecordsForcedDelimiter(t *testing.T) {
	p := filepath.Join(t.TempDir(), "semi.txt")
	if err := os.WriteFile(p, []byte("a;b\n1;2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := parser.ReadRecords(p, parser.Options{Delimiter: ';'})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows[0]) != 2 || rows[1][1] != "2" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestReadRecordsMissingFile(t *testing.T) {
	_, err := parser.ReadRecords(filepath.Join(t.TempDir(), "absent.csv"), parser.Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), "Notes"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	f.SetCellValue("Notes", "A1", "ignore me")
	if _, err := f.NewSheet("Passengers"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	rows := [][]interface{}{
		{"Pclass", "Survived", "Age", "Cabin"},
		{1, 1, 38.5, "C85"},
		{3, 0, 22, nil},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Passengers", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	p := filepath.Join(t.TempDir(), "titanic.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	return p
}

func TestReadRecordsXLSXSheetSelection(t *testing.T) {
	p := writeWorkbook(t)

	rows, err := parser.ReadRecords(p, parser.Options{SheetName: "passengers"})
	if err != nil {
		t.Fatalf("read by name: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "Pclass" {
		t.Fatalf("unexpected rows: %v", rows)
	}
	if rows[1][2] != "38.5" {
		t.Fatalf("expected raw numeric value, got %q", rows[1][2])
	}
	if len(rows[2]) != 4 || rows[2][3] != "" {
		t.Fatalf("short row not padded: %v", rows[2])
	}

	byIndex, err := parser.ReadRecords(p, parser.Options{SheetIndex: 2})
	if err != nil {
		t.Fatalf("read by index: %v", err)
	}
	if len(byIndex) != 3 {
		t.Fatalf("expected 3 rows by index, got %d", len(byIndex))
	}

	first, err := parser.ReadRecords(p, parser.Options{})
	if err != nil {
		t.Fatalf("read default: %v", err)
	}
	if first[0][0] != "ignore me" {
		t.Fatalf("expected first sheet by default, got %v", first)
	}

	if _, err := parser.ReadRecords(p, parser.Options{SheetName: "Crew"}); !errors.Is(err, parser.ErrNoSheet) {
		t.Fatalf("expected ErrNoSheet, got %v", err)
	}
}
