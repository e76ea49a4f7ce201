// Package pipeline orchestrates one synchronization run: read the master
// and the new batch, normalize, merge under the acceptance invariants,
// and write the replacement master atomically.
package pipeline

import (
	"fmt"
	"os"

	"github.com/mkravets/newsarc/internal/logger"
	"github.com/mkravets/newsarc/internal/merge"
	"github.com/mkravets/newsarc/internal/model"
	"github.com/mkravets/newsarc/internal/normalize"
	"github.com/mkravets/newsarc/internal/reader"
	"github.com/mkravets/newsarc/internal/taxonomy"
	"github.com/mkravets/newsarc/internal/writer"
)

// Pipeline runs synchronizations under a fixed configuration.
type Pipeline struct {
	cfg *model.Config
	log *logger.Logger
}

// New creates a pipeline.
func New(cfg *model.Config, log *logger.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// SyncResult reports what a run did.
type SyncResult struct {
	*merge.Result
	MasterPath   string
	DeletedBatch bool
}

// Sync merges the batch file into the master dataset. On any guard or
// schema failure the on-disk master is left byte-identical; an
// EmptyInputError means there was nothing to do.
func (p *Pipeline) Sync() (*SyncResult, error) {
	cfg := p.cfg

	policy, err := merge.ParsePolicy(cfg.Merge.Policy)
	if err != nil {
		return nil, err
	}

	masterRecords, err := reader.ReadFile(cfg.Data.MasterPath)
	if err != nil {
		return nil, fmt.Errorf("read master: %w", err)
	}
	batchRecords, err := reader.ReadBatch(cfg.Data.BatchPath)
	if err != nil {
		return nil, err
	}

	master := normalize.Records(masterRecords)
	batch := normalize.Records(batchRecords)

	p.log.Debug("inputs read",
		"master_rows", len(master), "batch_rows", len(batch), "policy", string(policy))

	res, err := merge.Merge(master, batch, merge.Options{
		Policy:       policy,
		MinArticles:  cfg.Guard.MinArticles,
		OldestBefore: cfg.Guard.OldestBeforeDate(),
		MasterPath:   cfg.Data.MasterPath,
		BatchPath:    cfg.Data.BatchPath,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Data.WriteCountries {
		p.deriveCountries(res.Articles)
	}

	if err := writer.Write(cfg.Data.MasterPath, res.Articles, writer.Options{
		IncludeCountries: cfg.Data.WriteCountries,
	}); err != nil {
		return nil, fmt.Errorf("write master: %w", err)
	}

	out := &SyncResult{Result: res, MasterPath: cfg.Data.MasterPath}

	if cfg.Data.DeleteBatchAfterMerge {
		if err := os.Remove(cfg.Data.BatchPath); err == nil {
			out.DeletedBatch = true
		} else if !os.IsNotExist(err) {
			p.log.Warn("could not delete merged batch", "path", cfg.Data.BatchPath, "error", err)
		}
	}

	p.log.Info("master updated",
		"path", cfg.Data.MasterPath,
		"unique_urls", res.MergedUnique,
		"updated", res.Updated,
		"added", res.Added)
	return out, nil
}

// deriveCountries fills the output-only countries column. The persisted
// tags stay as scraped; country matching runs on canonicalized copies the
// same way the viewer derives its facet.
func (p *Pipeline) deriveCountries(articles []model.Article) {
	canon := taxonomy.New(taxonomy.LoadVocabulary(p.cfg.Taxonomy.VocabularyPath))
	countries := taxonomy.NewCountrySet(p.cfg.Taxonomy.CountriesPath)
	for i := range articles {
		articles[i].Countries = countries.FromTags(canon.Tags(articles[i].Tags))
	}
}
