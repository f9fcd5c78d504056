package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/survival-cli/internal/analysis"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	descOutputPath string
	descPretty     bool
)

var describeCmd = &cobra.Command{
	Use:   "describe <files...>",
	Short: "Report missing values and column statistics for one or more tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, err := loadOptions(cfg)
		if err != nil {
			return err
		}
		var parts []string
		for _, path := range files {
			tbl, err := analysis.Load(path, opt)
			if err != nil {
				return err
			}
			rep := analysis.Describe(tbl)
			logger.Debug().Str("file", path).Int("rows", rep.Rows).Int("missing", rep.Nulls.Total()).Msg("described")
			parts = append(parts, rep.Markdown())
		}
		md := strings.Join(parts, "\n")

		if descOutputPath != "" {
			if err := os.WriteFile(descOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote description to %s\n", descOutputPath)
			return nil
		}
		if descPretty {
			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}
			out, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("render markdown: %w", err)
			}
			fmt.Print(out)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the description (Markdown)")
	describeCmd.Flags().BoolVar(&descPretty, "pretty", false, "render Markdown for the terminal")
	addInputFlags(describeCmd)
}
