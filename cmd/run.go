package cmd

import (
	"fmt"

	"github.com/KaramelBytes/survival-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	runFetch     bool
	runMkdir     bool
	runOutputDir string
	runNoPlots   bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run the whole analysis: load, check, summarize, plot",
	Long: `Loads the dataset, logs missing values, writes the survival summary, renders
the three charts and records everything in manifest.json inside output_dir.
With --fetch the dataset is downloaded first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		var input string
		if runFetch {
			path, err := newFetchClient(c).Download(cmd.Context(), c.DatasetURL, c.DataDir)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Downloaded %s\n", path)
			input = path
		}
		if len(args) > 0 || input == "" {
			if input, err = resolveInput(args, c); err != nil {
				return err
			}
		}
		lopt, err := loadOptions(c)
		if err != nil {
			return err
		}
		popt, err := plotOptions(c)
		if err != nil {
			return err
		}
		outDir := c.OutputDir
		if runOutputDir != "" {
			outDir = runOutputDir
		}
		res, err := pipeline.Run(cmd.Context(), pipeline.Options{
			Input:       input,
			Load:        lopt,
			OutputDir:   outDir,
			SummaryFile: c.SummaryFile,
			Columns:     columns(c),
			Plot:        popt,
			MakeDirs:    runMkdir,
			SkipPlots:   runNoPlots,
		}, logger)
		if err != nil {
			return err
		}
		fmt.Print(res.Summary.Markdown())
		fmt.Printf("✓ Wrote summary to %s\n", res.SummaryPath)
		for _, p := range res.Plots {
			fmt.Printf("✓ Wrote %s\n", p)
		}
		fmt.Printf("✓ Run %s complete (%d artifacts)\n", res.Manifest.ID, len(res.Manifest.Artifacts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runFetch, "fetch", false, "download dataset_url into data_dir first")
	runCmd.Flags().BoolVar(&runMkdir, "mkdir", true, "create the output directory if missing")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "output directory (overrides output_dir)")
	runCmd.Flags().BoolVar(&runNoPlots, "no-plots", false, "skip rendering the charts")
	addInputFlags(runCmd)
	addPlotFlags(runCmd)
}
