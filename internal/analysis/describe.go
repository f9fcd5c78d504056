package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats captures descriptive statistics for one column.
type ColumnStats struct {
	Name    string
	Kind    string // numeric|categorical
	Count   int
	Missing int
	// Numeric stats
	Mean, Std, Min, Max float64
	Q25, Q50, Q75       float64
	// Categorical stats
	Unique int
	Top    string
	Freq   int
}

// Report is a markdown-friendly description of a table.
type Report struct {
	Name  string
	Rows  int
	Nulls NullReport
	Cols  []ColumnStats
}

// Describe computes count/mean/std/min/quartiles/max for numeric columns and
// count/unique/top/freq for the rest. Missing cells are excluded.
func Describe(t *Table) *Report {
	rep := &Report{Name: t.Name, Rows: t.Rows(), Nulls: NullCounts(t)}
	for _, name := range t.Names() {
		s := t.df.Col(name)
		cs := ColumnStats{Name: name, Missing: rep.Nulls.Missing(name)}
		switch s.Type() {
		case series.Int, series.Float:
			cs.Kind = "numeric"
			describeNumeric(&cs, s.Float())
		default:
			cs.Kind = "categorical"
			describeCategorical(&cs, s)
		}
		rep.Cols = append(rep.Cols, cs)
	}
	return rep
}

func describeNumeric(cs *ColumnStats, raw []float64) {
	vals := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	cs.Count = len(vals)
	if cs.Count == 0 {
		cs.Mean, cs.Std, cs.Min, cs.Max = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		cs.Q25, cs.Q50, cs.Q75 = math.NaN(), math.NaN(), math.NaN()
		return
	}
	sort.Float64s(vals)
	cs.Mean = stat.Mean(vals, nil)
	cs.Std = math.NaN()
	if cs.Count > 1 {
		cs.Std = stat.StdDev(vals, nil)
	}
	cs.Min = vals[0]
	cs.Max = vals[len(vals)-1]
	cs.Q25 = quantile(vals, 0.25)
	cs.Q50 = quantile(vals, 0.5)
	cs.Q75 = quantile(vals, 0.75)
}

func describeCategorical(cs *ColumnStats, s series.Series) {
	counts := map[string]int{}
	for i := 0; i < s.Len(); i++ {
		if s.Elem(i).IsNA() {
			continue
		}
		counts[CellString(s, i)]++
		cs.Count++
	}
	cs.Unique = len(counts)
	for v, n := range counts {
		if n > cs.Freq || (n == cs.Freq && v < cs.Top) {
			cs.Top, cs.Freq = v, n
		}
	}
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[MISSING VALUES]\n")
	for _, n := range r.Nulls {
		b.WriteString(fmt.Sprintf("- %s: %d\n", safeName(n.Column), n.Missing))
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (count %d, missing %d)", safeName(c.Name), c.Kind, c.Count, c.Missing))
		switch c.Kind {
		case "numeric":
			if c.Count > 0 {
				b.WriteString(fmt.Sprintf(": mean %.4g, std %.4g, min %.4g, 25%% %.4g, 50%% %.4g, 75%% %.4g, max %.4g",
					c.Mean, c.Std, c.Min, c.Q25, c.Q50, c.Q75, c.Max))
			}
		case "categorical":
			if c.Unique > 0 {
				b.WriteString(fmt.Sprintf(": unique %d, top %s (%d)", c.Unique, safeVal(c.Top), c.Freq))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// quantile interpolates linearly between closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
