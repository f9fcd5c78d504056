package plot

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/KaramelBytes/survival-cli/internal/analysis"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

const (
	violinHalfWidth = 0.4
	kdeGridPoints   = 128
	kdeCut          = 2.0
	swarmDotRadius  = 2.5
)

var violinEdge = drawing.ColorFromHex("555555")

// AgeViolinSwarm draws, for each class, a horizontal violin of the age
// distribution with the individual ages overlaid as a beeswarm. The first
// class sits at the top. Violins are omitted for classes with fewer than two
// ages or no spread; their points are still drawn.
func AgeViolinSwarm(w io.Writer, t *analysis.Table, cols Columns, opt Options) error {
	if err := analysis.RequireColumns(t, cols.Class, cols.Age); err != nil {
		return err
	}
	ages, err := t.Numeric(cols.Age)
	if err != nil {
		return err
	}
	classes, classNA, err := t.Cells(cols.Class)
	if err != nil {
		return err
	}
	groups := map[string][]float64{}
	var order []string
	for i := range classes {
		if classNA[i] || math.IsNaN(ages[i]) {
			continue
		}
		if _, ok := groups[classes[i]]; !ok {
			order = append(order, classes[i])
		}
		groups[classes[i]] = append(groups[classes[i]], ages[i])
	}
	if len(order) == 0 {
		return fmt.Errorf("age violin: no rows with %s and %s", cols.Class, cols.Age)
	}
	analysis.SortClasses(order)

	type outline struct{ xs, ys []float64 }
	outlines := make([]*outline, len(order))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, c := range order {
		vals := groups[c]
		lo = math.Min(lo, floats.Min(vals))
		hi = math.Max(hi, floats.Max(vals))
		if xs, ys, ok := violinOutline(vals, 0, violinHalfWidth); ok {
			outlines[i] = &outline{xs, ys}
			lo = math.Min(lo, floats.Min(xs))
			hi = math.Max(hi, floats.Max(xs))
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	lo, hi = lo-pad, hi+pad

	// Dot size in data units, from the approximate plot area in pixels.
	k := len(order)
	plotW := math.Max(float64(opt.Width-140), 100)
	plotH := math.Max(float64(opt.Height-120), 100)
	dx := 2 * swarmDotRadius * (hi - lo) / plotW
	dy := 2 * swarmDotRadius * float64(k) / plotH

	var series []chart.Series
	ticks := make([]chart.Tick, 0, k)
	for i, c := range order {
		pos := float64(k - i)
		if o := outlines[i]; o != nil {
			ys := make([]float64, len(o.ys))
			for j, y := range o.ys {
				ys[j] = pos + y
			}
			series = append(series, chart.ContinuousSeries{
				XValues: o.xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: violinEdge, StrokeWidth: 1},
			})
		}
		vals := groups[c]
		offs := swarm(vals, dx, dy, violinHalfWidth)
		ys := make([]float64, len(vals))
		for j := range vals {
			ys[j] = pos + offs[j]
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s=%s", cols.Class, c),
			XValues: vals,
			YValues: ys,
			Style:   pointStyle(chart.GetDefaultColor(i), swarmDotRadius),
		})
		ticks = append(ticks, chart.Tick{Value: pos, Label: c})
	}
	sort.Slice(ticks, func(a, b int) bool { return ticks[a].Value < ticks[b].Value })

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s by %s", cols.Age, cols.Class),
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  cols.Age,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxis: chart.YAxis{
			Name:  cols.Class,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(k) + 0.5},
			Ticks: ticks,
		},
		Series: series,
	}
	rp, err := opt.provider()
	if err != nil {
		return err
	}
	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("render age violin: %w", err)
	}
	return nil
}

// violinOutline returns a closed outline of the density of vals around the
// line y = pos, scaled so the widest point is half from the centre. The
// density grid extends kdeCut bandwidths beyond the data.
func violinOutline(vals []float64, pos, half float64) (xs, ys []float64, ok bool) {
	bw := scottBandwidth(vals)
	if bw <= 0 || math.IsNaN(bw) {
		return nil, nil, false
	}
	grid := linspace(floats.Min(vals)-kdeCut*bw, floats.Max(vals)+kdeCut*bw, kdeGridPoints)
	dens := gaussianKDE(vals, bw, grid)
	peak := floats.Max(dens)
	if peak <= 0 {
		return nil, nil, false
	}
	n := len(grid)
	xs = make([]float64, 0, 2*n+1)
	ys = make([]float64, 0, 2*n+1)
	for j := 0; j < n; j++ {
		xs = append(xs, grid[j])
		ys = append(ys, pos+half*dens[j]/peak)
	}
	for j := n - 1; j >= 0; j-- {
		xs = append(xs, grid[j])
		ys = append(ys, pos-half*dens[j]/peak)
	}
	xs = append(xs, xs[0])
	ys = append(ys, ys[0])
	return xs, ys, true
}
