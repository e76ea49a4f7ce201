package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/newsarc/internal/model"
	"github.com/mkravets/newsarc/internal/pipeline"
	"github.com/mkravets/newsarc/internal/scrape"
)

var (
	scrapeNoMerge   bool
	scrapeKeepBatch bool
	scrapeTimeout   time.Duration
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run the external scraper, then merge its output",
	Long: `Scrape invokes the configured external scraper process and, when it
succeeds, merges the produced batch into the master dataset.

A non-zero scraper exit, or a scraper that produces no batch file,
prevents the merge from running: a partial batch must never reach the
master. {batch} and {master} in scraper.args expand to the configured
paths.

Example:
  newsarc scrape
  newsarc scrape --no-merge
  newsarc scrape --timeout 20m`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().BoolVar(&scrapeNoMerge, "no-merge", false, "only run the scraper, skip the merge step")
	scrapeCmd.Flags().BoolVar(&scrapeKeepBatch, "keep-batch", false, "keep the batch file after a successful merge")
	scrapeCmd.Flags().DurationVar(&scrapeTimeout, "timeout", 0, "scraper timeout (overrides config)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	timeout := cfg.Scraper.Timeout()
	if scrapeTimeout > 0 {
		timeout = scrapeTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	runner := scrape.NewRunner(cfg.Scraper, log)
	if err := runner.Run(ctx, cfg.Data.BatchPath, cfg.Data.MasterPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Scrape complete: %s\n", cfg.Data.BatchPath)

	if scrapeNoMerge {
		return nil
	}

	// Batch output belongs to this run; clean it up unless asked not to.
	cfg.Data.DeleteBatchAfterMerge = !scrapeKeepBatch

	res, err := pipeline.New(cfg, log).Sync()
	if err != nil {
		var empty *model.EmptyInputError
		if errors.As(err, &empty) {
			fmt.Fprintf(os.Stderr, "Scraper produced no rows; nothing to merge.\n")
			return nil
		}
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Master updated: %s (%d unique urls, %d updated, %d added)\n",
		res.MasterPath, res.MergedUnique, res.Updated, res.Added)
	return nil
}
