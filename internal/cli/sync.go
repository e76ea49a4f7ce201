package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkravets/newsarc/internal/model"
	"github.com/mkravets/newsarc/internal/pipeline"
)

var (
	syncMaster       string
	syncBatch        string
	syncPolicy       string
	syncMinArticles  int
	syncOldestBefore string
	syncDeleteBatch  bool
	syncCountries    bool
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge the new batch file into the master dataset",
	Long: `Sync combines the master dataset with a freshly scraped batch:
- Resolve duplicate URLs by recency (or let the batch always win)
- Sort by published date descending, unknown dates last
- Validate the existing master against the corruption guards
- Rewrite the master atomically; any abort leaves it byte-identical

The corruption guard refuses to overwrite a master that looks like an
accidental empty or truncated checkout; it is evaluated against the
state read at the start of the run, never the proposed output.

Example:
  newsarc sync
  newsarc sync --batch data/_new.csv --policy new-wins
  newsarc sync --min-articles 0 --oldest-before ""   # disable guards`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncMaster, "master", "", "master dataset path (overrides config)")
	syncCmd.Flags().StringVar(&syncBatch, "batch", "", "new batch path (overrides config)")
	syncCmd.Flags().StringVar(&syncPolicy, "policy", "", "duplicate policy: recency or new-wins")
	syncCmd.Flags().IntVar(&syncMinArticles, "min-articles", -1, "corruption guard: minimum distinct urls in existing master (0 disables)")
	syncCmd.Flags().StringVar(&syncOldestBefore, "oldest-before", "", "corruption guard: master's oldest published_date must be before this date (empty disables)")
	syncCmd.Flags().BoolVar(&syncDeleteBatch, "delete-batch", false, "delete the batch file after a successful merge")
	syncCmd.Flags().BoolVar(&syncCountries, "countries-column", false, "persist the derived countries column")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySyncFlags(cmd, cfg)

	log := newLogger(cfg)
	res, err := pipeline.New(cfg, log).Sync()
	if err != nil {
		var empty *model.EmptyInputError
		if errors.As(err, &empty) {
			fmt.Fprintf(os.Stderr, "Nothing to merge: master and batch are both empty or missing.\n")
			return nil
		}
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Master updated: %s\n", res.MasterPath)
	fmt.Fprintf(os.Stderr, "✓ Unique urls: %d (%d updated in place, %d added)\n",
		res.MergedUnique, res.Updated, res.Added)
	if res.DeletedBatch {
		fmt.Fprintf(os.Stderr, "✓ Deleted merged batch\n")
	}
	return nil
}

// applySyncFlags overlays explicitly set flags onto the configuration.
func applySyncFlags(cmd *cobra.Command, cfg *model.Config) {
	if syncMaster != "" {
		cfg.Data.MasterPath = syncMaster
	}
	if syncBatch != "" {
		cfg.Data.BatchPath = syncBatch
	}
	if syncPolicy != "" {
		cfg.Merge.Policy = syncPolicy
	}
	if cmd.Flags().Changed("min-articles") {
		cfg.Guard.MinArticles = syncMinArticles
	}
	if cmd.Flags().Changed("oldest-before") {
		cfg.Guard.OldestBefore = syncOldestBefore
	}
	if cmd.Flags().Changed("delete-batch") {
		cfg.Data.DeleteBatchAfterMerge = syncDeleteBatch
	}
	if cmd.Flags().Changed("countries-column") {
		cfg.Data.WriteCountries = syncCountries
	}
}
