package parser

import (
	"errors"
	"fmt"
	"os"
)

// Options tunes how a tabular file is read.
type Options struct {
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet by name.
	SheetName string
	// SheetIndex is a 1-based XLSX sheet index, used when SheetName is empty.
	SheetIndex int
}

// Reader turns a tabular file into rows of cells; the first row is the header.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) ([][]string, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ReadRecords selects a reader based on filename and returns the raw records.
// Files with an unknown extension are read as comma-separated text.
func ReadRecords(path string, opt Options) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return csvReader{}.Read(path, opt)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// ErrNoSheet indicates the requested XLSX sheet does not exist.
var ErrNoSheet = errors.New("sheet not found")
