package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
)

// SurvivalRow is the count of one survival outcome within one class.
type SurvivalRow struct {
	Class    string
	Survived bool
	Count    int
	Percent  float64
}

// SurvivalSummary holds survival outcome counts per class.
type SurvivalSummary struct {
	ClassColumn    string
	SurvivedColumn string
	Rows           []SurvivalRow
	// Skipped counts rows left out because class or survival was missing.
	Skipped int
}

// DeriveBool returns a copy of t with col converted to a boolean column.
// Integers and floats map to value != 0; strings accept true/false, yes/no,
// t/f, y/n and 1/0. Missing cells stay missing.
func DeriveBool(t *Table, col string) (*Table, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	vals := make([]string, s.Len())
	for i := range vals {
		e := s.Elem(i)
		if e.IsNA() {
			vals[i] = "NaN"
			continue
		}
		b, err := elemBool(s.Type(), e)
		if err != nil {
			return nil, fmt.Errorf("%w: column %s row %d: %v", ErrTypeMismatch, col, i+1, err)
		}
		vals[i] = strconv.FormatBool(b)
	}
	df := t.df.Mutate(series.New(vals, series.Bool, col))
	if df.Err != nil {
		return nil, fmt.Errorf("derive %s: %w", col, df.Err)
	}
	return &Table{Name: t.Name, df: df}, nil
}

func elemBool(typ series.Type, e series.Element) (bool, error) {
	switch typ {
	case series.Bool:
		return e.Bool()
	case series.Int, series.Float:
		return e.Float() != 0, nil
	default:
		switch strings.ToLower(strings.TrimSpace(e.String())) {
		case "1", "true", "t", "yes", "y":
			return true, nil
		case "0", "false", "f", "no", "n":
			return false, nil
		}
		return false, fmt.Errorf("cannot interpret %q as boolean", e.String())
	}
}

// SurvivalByClass groups rows by classCol, then by the boolean form of
// survivedCol, and computes each outcome's share of its class in percent.
// Classes are ordered ascending (numerically when every class is a number);
// within a class, higher counts come first and ties put false first.
func SurvivalByClass(t *Table, classCol, survivedCol string) (*SurvivalSummary, error) {
	if err := RequireColumns(t, classCol, survivedCol); err != nil {
		return nil, err
	}
	flagged, err := DeriveBool(t, survivedCol)
	if err != nil {
		return nil, err
	}
	classes, classNA, err := flagged.Cells(classCol)
	if err != nil {
		return nil, err
	}
	surv, err := flagged.Column(survivedCol)
	if err != nil {
		return nil, err
	}

	type key struct {
		class    string
		survived bool
	}
	counts := map[key]int{}
	totals := map[string]int{}
	sum := &SurvivalSummary{ClassColumn: classCol, SurvivedColumn: survivedCol}
	for i := range classes {
		e := surv.Elem(i)
		if classNA[i] || e.IsNA() {
			sum.Skipped++
			continue
		}
		b, err := e.Bool()
		if err != nil {
			return nil, fmt.Errorf("%w: column %s row %d: %v", ErrTypeMismatch, survivedCol, i+1, err)
		}
		counts[key{classes[i], b}]++
		totals[classes[i]]++
	}

	for k, n := range counts {
		sum.Rows = append(sum.Rows, SurvivalRow{
			Class:    k.class,
			Survived: k.survived,
			Count:    n,
			Percent:  100 * float64(n) / float64(totals[k.class]),
		})
	}
	less := classLess(sum.Classes())
	sort.Slice(sum.Rows, func(i, j int) bool {
		a, b := sum.Rows[i], sum.Rows[j]
		if a.Class != b.Class {
			return less(a.Class, b.Class)
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return !a.Survived && b.Survived
	})
	return sum, nil
}

// Classes returns the distinct classes in row order.
func (s *SurvivalSummary) Classes() []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range s.Rows {
		if !seen[r.Class] {
			seen[r.Class] = true
			out = append(out, r.Class)
		}
	}
	return out
}

// Rate returns the percentage of survivors in class, or 0 when none survived.
func (s *SurvivalSummary) Rate(class string) float64 {
	for _, r := range s.Rows {
		if r.Class == class && r.Survived {
			return r.Percent
		}
	}
	return 0
}

// Markdown renders the summary as a table.
func (s *SurvivalSummary) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("| %s | %s | Count | Percent |\n", s.ClassColumn, s.SurvivedColumn))
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, r := range s.Rows {
		b.WriteString(fmt.Sprintf("| %s | %t | %d | %.3f |\n", safeVal(r.Class), r.Survived, r.Count, r.Percent))
	}
	if s.Skipped > 0 {
		b.WriteString(fmt.Sprintf("\n%d rows skipped (missing %s or %s)\n", s.Skipped, s.ClassColumn, s.SurvivedColumn))
	}
	return b.String()
}

// SortClasses orders class labels in place, numerically when every label is a
// number and lexically otherwise.
func SortClasses(classes []string) {
	less := classLess(classes)
	sort.Slice(classes, func(i, j int) bool { return less(classes[i], classes[j]) })
}

// classLess orders numerically when every class parses as a number.
func classLess(classes []string) func(a, b string) bool {
	nums := make(map[string]float64, len(classes))
	for _, c := range classes {
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return func(a, b string) bool { return a < b }
		}
		nums[c] = f
	}
	return func(a, b string) bool { return nums[a] < nums[b] }
}
