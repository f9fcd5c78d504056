package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/survival-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	sumOutputPath string
	sumMkdir      bool
	sumQuiet      bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Count survivors per passenger class and write the summary table",
	Long: `Groups passengers by class and survival outcome and writes Count and Percent
per group. The output format follows the file extension (.csv or .xlsx).`,
	Args: cobra.MaximumNArgs(1),
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
		outDir, outFile := c.OutputDir, c.SummaryFile
		if sumOutputPath != "" {
			outDir, outFile = filepath.Dir(sumOutputPath), filepath.Base(sumOutputPath)
		}
		res, err := pipeline.Run(cmd.Context(), pipeline.Options{
			Input:        input,
			Load:         lopt,
			OutputDir:    outDir,
			SummaryFile:  outFile,
			Columns:      columns(c),
			MakeDirs:     sumMkdir,
			SkipPlots:    true,
			SkipManifest: true,
		}, logger)
		if err != nil {
			return err
		}
		if !sumQuiet {
			fmt.Print(res.Summary.Markdown())
		}
		fmt.Printf("✓ Wrote summary to %s\n", res.SummaryPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "summary path (overrides output_dir/summary_file)")
	summarizeCmd.Flags().BoolVar(&sumMkdir, "mkdir", false, "create the output directory if missing")
	summarizeCmd.Flags().BoolVarP(&sumQuiet, "quiet", "q", false, "do not print the summary table")
	addInputFlags(summarizeCmd)
}
