package cmd

import (
	"fmt"

	"github.com/KaramelBytes/survival-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	plotOutputDir string
	plotMkdir     bool
)

var plotCmd = &cobra.Command{
	Use:   "plot [file]",
	Short: "Render the survival rate, fare by age and age by class charts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		input, err := resolveInput(args, c)
		if err != nil {
			return err
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
		if plotOutputDir != "" {
			outDir = plotOutputDir
		}
		res, err := pipeline.Run(cmd.Context(), pipeline.Options{
			Input:        input,
			Load:         lopt,
			OutputDir:    outDir,
			Columns:      columns(c),
			Plot:         popt,
			MakeDirs:     plotMkdir,
			SkipSummary:  true,
			SkipManifest: true,
		}, logger)
		if err != nil {
			return err
		}
		for _, p := range res.Plots {
			fmt.Printf("✓ Wrote %s\n", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVar(&plotOutputDir, "output-dir", "", "directory for the images (overrides output_dir)")
	plotCmd.Flags().BoolVar(&plotMkdir, "mkdir", false, "create the output directory if missing")
	addInputFlags(plotCmd)
	addPlotFlags(plotCmd)
}
