// Package scrape invokes the external scraper process that produces the
// new-batch file. The engine itself never crawls anything; a non-zero
// exit or missing output here must prevent the merge step from running.
package scrape

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mkravets/newsarc/internal/logger"
	"github.com/mkravets/newsarc/internal/model"
)

// Runner executes the configured scraper command.
type Runner struct {
	cfg model.ScraperConfig
	log *logger.Logger
}

// NewRunner creates a runner for the configured scraper.
func NewRunner(cfg model.ScraperConfig, log *logger.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run removes any stale batch file, executes the scraper, and verifies it
// produced output at batchPath. {batch} and {master} in the configured
// arguments expand to the given paths.
func (r *Runner) Run(ctx context.Context, batchPath, masterPath string) error {
	if r.cfg.Command == "" {
		return fmt.Errorf("scraper command not configured (set scraper.command)")
	}

	if err := os.MkdirAll(filepath.Dir(batchPath), 0755); err != nil {
		return fmt.Errorf("create batch directory: %w", err)
	}
	if err := os.Remove(batchPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale batch: %w", err)
	}

	args := make([]string, len(r.cfg.Args))
	for i, a := range r.cfg.Args {
		a = strings.ReplaceAll(a, "{batch}", batchPath)
		a = strings.ReplaceAll(a, "{master}", masterPath)
		args[i] = a
	}

	r.log.Info("running scraper", "command", r.cfg.Command, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, r.cfg.Command, args...)
	cmd.Dir = r.cfg.WorkDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("scraper failed: %w", err)
	}

	if _, err := os.Stat(batchPath); err != nil {
		return fmt.Errorf("scraper exited cleanly but produced no batch at %s", batchPath)
	}
	return nil
}
