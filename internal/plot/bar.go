package plot

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/survival-cli/internal/analysis"
	chart "github.com/wcharczuk/go-chart/v2"
)

// SurvivalBar draws the survival rate (0..1) of every class and sex pair as a
// bar, coloured by sex. Rows missing class, sex or survival are left out.
func SurvivalBar(w io.Writer, t *analysis.Table, cols Columns, opt Options) error {
	if err := analysis.RequireColumns(t, cols.Class, cols.Survived, cols.Sex); err != nil {
		return err
	}
	flagged, err := analysis.DeriveBool(t, cols.Survived)
	if err != nil {
		return err
	}
	classes, classNA, err := flagged.Cells(cols.Class)
	if err != nil {
		return err
	}
	sexes, sexNA, err := flagged.Cells(cols.Sex)
	if err != nil {
		return err
	}
	surv, err := flagged.Column(cols.Survived)
	if err != nil {
		return err
	}

	type key struct{ class, sex string }
	type tally struct{ n, alive int }
	groups := map[key]*tally{}
	var classOrder, sexOrder []string
	seenClass, seenSex := map[string]bool{}, map[string]bool{}
	for i := range classes {
		e := surv.Elem(i)
		if classNA[i] || sexNA[i] || e.IsNA() {
			continue
		}
		alive, err := e.Bool()
		if err != nil {
			return fmt.Errorf("%w: %s row %d: %v", analysis.ErrTypeMismatch, cols.Survived, i+1, err)
		}
		k := key{classes[i], sexes[i]}
		g := groups[k]
		if g == nil {
			g = &tally{}
			groups[k] = g
		}
		g.n++
		if alive {
			g.alive++
		}
		if !seenClass[k.class] {
			seenClass[k.class] = true
			classOrder = append(classOrder, k.class)
		}
		if !seenSex[k.sex] {
			seenSex[k.sex] = true
			sexOrder = append(sexOrder, k.sex)
		}
	}
	if len(groups) == 0 {
		return fmt.Errorf("survival bar: no rows with %s, %s and %s", cols.Class, cols.Sex, cols.Survived)
	}
	analysis.SortClasses(classOrder)

	var bars []chart.Value
	for _, c := range classOrder {
		for si, s := range sexOrder {
			g := groups[key{c, s}]
			if g == nil {
				continue
			}
			col := chart.GetDefaultColor(si)
			bars = append(bars, chart.Value{
				Label: c + "/" + s,
				Value: float64(g.alive) / float64(g.n),
				Style: chart.Style{FillColor: col, StrokeColor: col},
			})
		}
	}

	slot := (opt.Width - 160) / len(bars)
	if slot < 12 {
		slot = 12
	}
	bc := chart.BarChart{
		Title:      "Titanic Survival Rate",
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 60}},
		BarWidth:   slot * 2 / 3,
		BarSpacing: slot / 3,
		XAxis:      chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Name:  "Survival rate",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars:     bars,
		Elements: []chart.Renderable{axisLabel("Passenger Class")},
	}
	rp, err := opt.provider()
	if err != nil {
		return err
	}
	if err := bc.Render(rp, w); err != nil {
		return fmt.Errorf("render survival bar: %w", err)
	}
	return nil
}
