package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/survival-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/survival-cli/internal/config"
	"github.com/KaramelBytes/survival-cli/internal/plot"
	"github.com/spf13/cobra"
)

// Input flags shared by the commands that read a dataset.
var (
	inDelimiter  string
	inSheetName  string
	inSheetIndex int
	inNaValues   []string
)

func addInputFlags(c *cobra.Command) {
	c.Flags().StringVar(&inDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (by extension if omitted)")
	c.Flags().StringVar(&inSheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&inSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().StringSliceVar(&inNaValues, "na-values", nil, "cell values treated as missing (default: empty, NA, NaN)")
}

func loadOptions(c *cfgpkg.Global) (analysis.LoadOptions, error) {
	opt := analysis.LoadOptions{SheetName: inSheetName, SheetIndex: inSheetIndex, NaNValues: inNaValues}
	if opt.SheetName == "" && c != nil {
		opt.SheetName = c.Sheet
	}
	switch inDelimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", inDelimiter)
	}
	return opt, nil
}

// resolveInput picks the dataset path: the argument, then the configured
// input, then the dataset file name inside data_dir.
func resolveInput(args []string, c *cfgpkg.Global) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if c.Input != "" {
		return c.Input, nil
	}
	if c.DatasetURL != "" {
		p := filepath.Join(c.DataDir, filepath.Base(c.DatasetURL))
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no input file: pass one, set input in config, or run 'survival fetch'")
}

// expandInputs resolves globs, keeps literal paths, drops duplicates and sorts.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// Keep literal paths so the loader reports a missing file.
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func columns(c *cfgpkg.Global) plot.Columns {
	return plot.Columns{
		Class:    c.ClassColumn,
		Survived: c.SurvivalColumn,
		Sex:      c.SexColumn,
		Age:      c.AgeColumn,
		Fare:     c.FareColumn,
	}
}

// Plot flags shared by plot and run.
var (
	plFormat string
	plWidth  int
	plHeight int
)

func addPlotFlags(c *cobra.Command) {
	c.Flags().StringVar(&plFormat, "format", "", "image format: png|svg (overrides config)")
	c.Flags().IntVar(&plWidth, "width", 0, "image width in pixels (overrides config)")
	c.Flags().IntVar(&plHeight, "height", 0, "image height in pixels (overrides config)")
}

func plotOptions(c *cfgpkg.Global) (plot.Options, error) {
	opt := plot.Options{Format: plot.Format(c.PlotFormat), Width: c.PlotWidth, Height: c.PlotHeight}
	if plFormat != "" {
		opt.Format = plot.Format(strings.ToLower(plFormat))
	}
	if plWidth > 0 {
		opt.Width = plWidth
	}
	if plHeight > 0 {
		opt.Height = plHeight
	}
	if opt.Format != plot.PNG && opt.Format != plot.SVG {
		return opt, fmt.Errorf("unsupported --format: %s (use png or svg)", opt.Format)
	}
	return opt, nil
}
