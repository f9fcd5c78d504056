// Package pipeline runs the passenger analysis end to end: load, null check,
// describe, aggregate, write, plot and record a manifest.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/survival-cli/internal/analysis"
	"github.com/KaramelBytes/survival-cli/internal/export"
	"github.com/KaramelBytes/survival-cli/internal/manifest"
	"github.com/KaramelBytes/survival-cli/internal/plot"
	"github.com/KaramelBytes/survival-cli/internal/utils"
	"github.com/rs/zerolog"
)

// Options configures a run.
type Options struct {
	Input       string
	Load        analysis.LoadOptions
	OutputDir   string
	SummaryFile string
	Columns     plot.Columns
	Plot        plot.Options

	// MakeDirs creates OutputDir when missing. Without it a missing
	// directory fails the write step.
	MakeDirs     bool
	SkipSummary  bool
	SkipPlots    bool
	SkipManifest bool
}

// Result collects everything a run produced.
type Result struct {
	Table       *analysis.Table
	Nulls       analysis.NullReport
	Report      *analysis.Report
	Summary     *analysis.SurvivalSummary
	SummaryPath string
	Plots       []string
	Manifest    *manifest.Manifest
}

// Run executes the steps in order. The first failing step aborts the run and
// its error is returned together with the partial result.
func Run(ctx context.Context, opt Options, log zerolog.Logger) (*Result, error) {
	res := &Result{}
	start := time.Now()
	man := manifest.New(opt.Input)
	res.Manifest = man

	step := func(name string) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		log.Debug().Str("step", name).Msg("start")
		return nil
	}

	if err := step("load"); err != nil {
		return res, err
	}
	tbl, err := analysis.Load(opt.Input, opt.Load)
	if err != nil {
		return res, err
	}
	res.Table = tbl
	man.Rows = tbl.Rows()
	log.Info().Str("file", opt.Input).Int("rows", tbl.Rows()).Int("columns", len(tbl.Names())).Msg("loaded dataset")

	if err := step("null-check"); err != nil {
		return res, err
	}
	res.Nulls = analysis.NullCounts(tbl)
	logNulls(log, res.Nulls, opt.Columns)

	if err := step("describe"); err != nil {
		return res, err
	}
	res.Report = analysis.Describe(tbl)

	if !opt.SkipSummary {
		if err := step("aggregate"); err != nil {
			return res, err
		}
		sum, err := analysis.SurvivalByClass(tbl, opt.Columns.Class, opt.Columns.Survived)
		if err != nil {
			return res, err
		}
		res.Summary = sum
		man.Skipped = sum.Skipped
		if sum.Skipped > 0 {
			log.Warn().Int("rows", sum.Skipped).Msg("rows without class or survival left out of the summary")
		}
	}

	if opt.MakeDirs {
		if err := utils.EnsureDir(opt.OutputDir); err != nil {
			return res, fmt.Errorf("%w: create %s: %w", export.ErrIO, opt.OutputDir, err)
		}
	}

	if res.Summary != nil {
		if err := step("write"); err != nil {
			return res, err
		}
		path := filepath.Join(opt.OutputDir, opt.SummaryFile)
		if err := export.WriteSummary(path, res.Summary); err != nil {
			return res, err
		}
		res.SummaryPath = path
		if err := man.Add(manifest.KindSummary, trimExt(opt.SummaryFile), path); err != nil {
			return res, err
		}
		log.Info().Str("path", path).Int("groups", len(res.Summary.Rows)).Msg("wrote survival summary")
	}

	if !opt.SkipPlots {
		for _, p := range plot.All {
			if err := step("plot " + p.Name); err != nil {
				return res, err
			}
			path := filepath.Join(opt.OutputDir, p.Name+opt.Plot.Ext())
			if err := plot.RenderFile(path, tbl, opt.Columns, opt.Plot, p.Draw); err != nil {
				return res, fmt.Errorf("plot %s: %w", p.Name, err)
			}
			res.Plots = append(res.Plots, path)
			if err := man.Add(manifest.KindPlot, p.Name, path); err != nil {
				return res, err
			}
			log.Info().Str("path", path).Msg("rendered plot")
		}
	}

	if !opt.SkipManifest && len(man.Artifacts) > 0 {
		if err := step("manifest"); err != nil {
			return res, err
		}
		if err := man.Save(opt.OutputDir); err != nil {
			return res, fmt.Errorf("%w: manifest: %w", export.ErrIO, err)
		}
	}
	log.Debug().Dur("elapsed", time.Since(start)).Str("run", man.ID).Msg("pipeline finished")
	return res, nil
}

// logNulls reports missing values. Gaps in the grouping columns are warnings
// since those rows drop out of the summary.
func logNulls(log zerolog.Logger, nulls analysis.NullReport, cols plot.Columns) {
	for _, nc := range nulls {
		if nc.Missing == 0 {
			continue
		}
		ev := log.Info()
		if nc.Column == cols.Class || nc.Column == cols.Survived {
			ev = log.Warn()
		}
		ev.Str("column", nc.Column).Int("missing", nc.Missing).Msg("missing values")
	}
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
