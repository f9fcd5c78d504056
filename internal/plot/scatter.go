package plot

import (
	"fmt"
	"io"
	"math"

	"github.com/KaramelBytes/survival-cli/internal/analysis"
	chart "github.com/wcharczuk/go-chart/v2"
)

// FareAgeScatter plots fare against age with one point series per class.
func FareAgeScatter(w io.Writer, t *analysis.Table, cols Columns, opt Options) error {
	if err := analysis.RequireColumns(t, cols.Class, cols.Age, cols.Fare); err != nil {
		return err
	}
	ages, err := t.Numeric(cols.Age)
	if err != nil {
		return err
	}
	fares, err := t.Numeric(cols.Fare)
	if err != nil {
		return err
	}
	classes, classNA, err := t.Cells(cols.Class)
	if err != nil {
		return err
	}

	type points struct{ x, y []float64 }
	byClass := map[string]*points{}
	var order []string
	xr, yr := newSpan(), newSpan()
	for i := range classes {
		if classNA[i] || math.IsNaN(ages[i]) || math.IsNaN(fares[i]) {
			continue
		}
		p := byClass[classes[i]]
		if p == nil {
			p = &points{}
			byClass[classes[i]] = p
			order = append(order, classes[i])
		}
		p.x = append(p.x, ages[i])
		p.y = append(p.y, fares[i])
		xr.add(ages[i])
		yr.add(fares[i])
	}
	if len(order) == 0 {
		return fmt.Errorf("fare scatter: no rows with %s and %s", cols.Age, cols.Fare)
	}
	analysis.SortClasses(order)

	series := make([]chart.Series, 0, len(order))
	for i, c := range order {
		p := byClass[c]
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s=%s", cols.Class, c),
			XValues: p.x,
			YValues: p.y,
			Style:   pointStyle(chart.GetDefaultColor(i), 3),
		})
	}
	ch := chart.Chart{
		Title:      fmt.Sprintf("%s by %s", cols.Fare, cols.Age),
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: cols.Age, Range: xr.padded()},
		YAxis:      chart.YAxis{Name: cols.Fare, Range: yr.padded()},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	rp, err := opt.provider()
	if err != nil {
		return err
	}
	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("render fare scatter: %w", err)
	}
	return nil
}

// span tracks the extent of plotted values.
type span struct{ lo, hi float64 }

func newSpan() *span { return &span{lo: math.Inf(1), hi: math.Inf(-1)} }

func (s *span) add(v float64) {
	s.lo = math.Min(s.lo, v)
	s.hi = math.Max(s.hi, v)
}

// padded widens the span by 5% on each side. A single value gets a unit
// margin so the axis always has a non-zero delta.
func (s *span) padded() *chart.ContinuousRange {
	pad := (s.hi - s.lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: s.lo - pad, Max: s.hi + pad}
}
