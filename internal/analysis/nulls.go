package analysis

import (
	"fmt"
	"strings"
)

// NullCount is the number of missing cells in one column.
type NullCount struct {
	Column  string
	Missing int
}

// NullReport lists missing-value counts in header order.
type NullReport []NullCount

// NullCounts reports per-column missing counts. A column without missing
// values reports 0.
func NullCounts(t *Table) NullReport {
	names := t.Names()
	out := make(NullReport, 0, len(names))
	for _, name := range names {
		n := 0
		for _, na := range t.df.Col(name).IsNaN() {
			if na {
				n++
			}
		}
		out = append(out, NullCount{Column: name, Missing: n})
	}
	return out
}

// Missing returns the count for col, or -1 if the column is not in the report.
func (r NullReport) Missing(col string) int {
	for _, c := range r {
		if c.Column == col {
			return c.Missing
		}
	}
	return -1
}

// Total sums missing cells across all columns.
func (r NullReport) Total() int {
	var n int
	for _, c := range r {
		n += c.Missing
	}
	return n
}

// RequireColumns returns an ErrColumnMissing error naming every absent column.
func RequireColumns(t *Table, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrColumnMissing, strings.Join(missing, ", "))
	}
	return nil
}
