// Package plot renders the passenger charts with go-chart.
package plot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/KaramelBytes/survival-cli/internal/analysis"
	"github.com/KaramelBytes/survival-cli/internal/utils"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is the image encoding of a rendered chart.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Columns names the table columns the charts read.
type Columns struct {
	Class    string
	Survived string
	Sex      string
	Age      string
	Fare     string
}

// DefaultColumns returns the Titanic dataset column names.
func DefaultColumns() Columns {
	return Columns{Class: "Pclass", Survived: "Survived", Sex: "Sex", Age: "Age", Fare: "Fare"}
}

// Options controls image size and encoding.
type Options struct {
	Format Format
	Width  int
	Height int
}

// DefaultOptions returns a 1024x640 PNG.
func DefaultOptions() Options {
	return Options{Format: PNG, Width: 1024, Height: 640}
}

func (o Options) provider() (chart.RendererProvider, error) {
	switch o.Format {
	case PNG, "":
		return chart.PNG, nil
	case SVG:
		return chart.SVG, nil
	default:
		return nil, fmt.Errorf("unsupported plot format %q (use png or svg)", o.Format)
	}
}

// Ext returns the file extension for the configured format, including the dot.
func (o Options) Ext() string {
	if o.Format == "" {
		return "." + string(PNG)
	}
	return "." + string(o.Format)
}

// DrawFunc renders one chart of t to w.
type DrawFunc func(w io.Writer, t *analysis.Table, cols Columns, opt Options) error

// Plot is a named chart renderer.
type Plot struct {
	Name string
	Draw DrawFunc
}

// All lists the charts produced by a full run, in render order.
var All = []Plot{
	{Name: "survival_rate", Draw: SurvivalBar},
	{Name: "fare_by_age", Draw: FareAgeScatter},
	{Name: "age_by_class", Draw: AgeViolinSwarm},
}

// RenderFile draws into memory first so a failed render leaves no partial file.
func RenderFile(path string, t *analysis.Table, cols Columns, opt Options, draw DrawFunc) error {
	var buf bytes.Buffer
	if err := draw(&buf, t, cols, opt); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color, radius float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		StrokeColor: col,
		DotWidth:    radius,
		DotColor:    col,
	}
}

// axisLabel draws a caption centred under the canvas. BarChart has no axis
// name of its own.
func axisLabel(text string) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		font := defaults.GetFont()
		if font == nil {
			f, err := chart.GetDefaultFont()
			if err != nil {
				return
			}
			font = f
		}
		r.SetFont(font)
		r.SetFontSize(11)
		r.SetFontColor(drawing.ColorBlack)
		tb := r.MeasureText(text)
		r.Text(text, box.Left+(box.Width()-tb.Width())/2, box.Bottom+40)
	}
}
