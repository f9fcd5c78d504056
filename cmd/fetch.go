package cmd

import (
	"fmt"
	"time"

	cfgpkg "github.com/KaramelBytes/survival-cli/internal/config"
	"github.com/KaramelBytes/survival-cli/internal/fetch"
	"github.com/spf13/cobra"
)

var fetchDataDir string

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download the passenger dataset into data_dir",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		url := c.DatasetURL
		if len(args) > 0 {
			url = args[0]
		}
		if url == "" {
			return fmt.Errorf("no dataset url: pass one or set dataset_url")
		}
		dir := c.DataDir
		if fetchDataDir != "" {
			dir = fetchDataDir
		}
		path, err := newFetchClient(c).Download(cmd.Context(), url, dir)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Downloaded %s\n", path)
		return nil
	},
}

func newFetchClient(c *cfgpkg.Global) *fetch.Client {
	return fetch.NewClient(
		time.Duration(c.HTTPTimeoutSec)*time.Second,
		c.RetryMaxAttempts,
		time.Duration(c.RetryBaseDelayMs)*time.Millisecond,
		time.Duration(c.RetryMaxDelayMs)*time.Millisecond,
	).WithLogger(logger)
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchDataDir, "data-dir", "", "download directory (overrides data_dir)")
}
