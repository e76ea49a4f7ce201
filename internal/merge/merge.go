// Package merge combines the master dataset with a new batch into a
// replacement master, resolving duplicate identities and enforcing the
// acceptance invariants before anything is written back.
package merge

import (
	"fmt"
	"sort"
	"time"

	"github.com/mkravets/newsarc/internal/model"
)

// Policy decides which representation of a URL survives a merge.
type Policy string

const (
	// PolicyRecency keeps the candidate with the latest scraped_at;
	// when no candidate has a usable timestamp, the last-encountered
	// one wins (master rows come before batch rows, so new wins ties).
	PolicyRecency Policy = "recency"

	// PolicyNewWins always prefers the batch over the master,
	// regardless of timestamps.
	PolicyNewWins Policy = "new-wins"
)

// ParsePolicy resolves a configured policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyRecency, PolicyNewWins:
		return Policy(s), nil
	case "":
		return PolicyRecency, nil
	}
	return "", fmt.Errorf("unknown merge policy %q (want %q or %q)", s, PolicyRecency, PolicyNewWins)
}

// Options tunes a merge run.
type Options struct {
	Policy Policy

	// MinArticles is the corruption guard's minimum distinct-URL count
	// for the existing master. Zero disables the count guard.
	MinArticles int

	// OldestBefore is the corruption guard's earliest-plausible-history
	// cutoff: the existing master's oldest published date must fall
	// strictly before it. Zero disables the date guard.
	OldestBefore time.Time

	// MasterPath and BatchPath are reported in errors only.
	MasterPath string
	BatchPath  string
}

// Result describes an accepted merge.
type Result struct {
	Articles []model.Article

	MasterRows   int
	BatchRows    int
	MasterUnique int
	MergedUnique int
	Updated      int // identities present on both sides
	Added        int // identities only the batch had
}

// Merge combines master and batch rows. The guards are evaluated against
// the master exactly as it was read, never against the proposed output.
func Merge(master, batch []model.Article, opts Options) (*Result, error) {
	if len(master) == 0 && len(batch) == 0 {
		return nil, &model.EmptyInputError{MasterPath: opts.MasterPath, BatchPath: opts.BatchPath}
	}

	if opts.Policy == "" {
		opts.Policy = PolicyRecency
	}

	masterUnique := distinctURLs(master)
	if len(master) > 0 {
		if err := checkMasterGuards(master, masterUnique, opts); err != nil {
			return nil, err
		}
	}

	merged := dedupe(master, batch, opts.Policy)

	if len(master) > 0 && len(merged) < masterUnique {
		return nil, &model.GuardViolationError{
			Guard:     model.GuardShrink,
			Observed:  fmt.Sprintf("%d", len(merged)),
			Threshold: fmt.Sprintf("%d", masterUnique),
		}
	}

	sortArticles(merged)

	res := &Result{
		Articles:     merged,
		MasterRows:   len(master),
		BatchRows:    len(batch),
		MasterUnique: masterUnique,
		MergedUnique: len(merged),
	}
	res.Added = len(merged) - masterUnique
	res.Updated = distinctURLs(batch) - res.Added
	return res, nil
}

// checkMasterGuards validates the existing master against the corruption
// guard. An accidental empty or truncated master must never silently
// become the new source of truth.
func checkMasterGuards(master []model.Article, unique int, opts Options) error {
	if opts.MinArticles > 0 && unique < opts.MinArticles {
		return &model.GuardViolationError{
			Guard:     model.GuardMinArticles,
			Observed:  fmt.Sprintf("%d", unique),
			Threshold: fmt.Sprintf("%d", opts.MinArticles),
		}
	}

	if !opts.OldestBefore.IsZero() {
		oldest, ok := oldestPublished(master)
		if !ok {
			return &model.GuardViolationError{
				Guard:     model.GuardOldestDate,
				Observed:  "unknown (no parsable published_date)",
				Threshold: opts.OldestBefore.Format(model.DateLayout),
			}
		}
		if !oldest.Before(opts.OldestBefore) {
			return &model.GuardViolationError{
				Guard:     model.GuardOldestDate,
				Observed:  oldest.Format(model.DateLayout),
				Threshold: opts.OldestBefore.Format(model.DateLayout),
			}
		}
	}
	return nil
}

// dedupe groups master-then-batch rows by URL and keeps one per identity.
func dedupe(master, batch []model.Article, policy Policy) []model.Article {
	type slot struct {
		article   model.Article
		fromBatch bool
	}

	index := make(map[string]int, len(master)+len(batch))
	var kept []slot

	consider := func(a model.Article, fromBatch bool) {
		i, seen := index[a.URL]
		if !seen {
			index[a.URL] = len(kept)
			kept = append(kept, slot{article: a, fromBatch: fromBatch})
			return
		}
		cur := kept[i]

		var replace bool
		switch policy {
		case PolicyNewWins:
			// Batch beats master; within one side the later row wins.
			replace = fromBatch || !cur.fromBatch
		default: // PolicyRecency
			// Later scraped_at wins; an unknown timestamp never beats a
			// known one; full ties go to the later-encountered row.
			replace = !a.ScrapedAt.Before(cur.article.ScrapedAt)
		}
		if replace {
			kept[i] = slot{article: a, fromBatch: fromBatch}
		}
	}

	for _, a := range master {
		consider(a, false)
	}
	for _, a := range batch {
		consider(a, true)
	}

	out := make([]model.Article, len(kept))
	for i, s := range kept {
		out[i] = s.article
	}
	return out
}

// sortArticles orders by published_date descending with unknown dates
// last, breaking ties by scraped_at descending. The sort is stable so
// full ties keep their merge order.
func sortArticles(articles []model.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]

		switch {
		case a.HasPublishedDate() && !b.HasPublishedDate():
			return true
		case !a.HasPublishedDate() && b.HasPublishedDate():
			return false
		case a.HasPublishedDate() && !a.PublishedDate.Equal(b.PublishedDate):
			return a.PublishedDate.After(b.PublishedDate)
		}

		switch {
		case a.HasScrapedAt() && !b.HasScrapedAt():
			return true
		case !a.HasScrapedAt() && b.HasScrapedAt():
			return false
		}
		return a.ScrapedAt.After(b.ScrapedAt)
	})
}

func distinctURLs(articles []model.Article) int {
	seen := make(map[string]struct{}, len(articles))
	for _, a := range articles {
		seen[a.URL] = struct{}{}
	}
	return len(seen)
}

// oldestPublished returns the earliest known published date.
func oldestPublished(articles []model.Article) (time.Time, bool) {
	var oldest time.Time
	found := false
	for _, a := range articles {
		if !a.HasPublishedDate() {
			continue
		}
		if !found || a.PublishedDate.Before(oldest) {
			oldest = a.PublishedDate
			found = true
		}
	}
	return oldest, found
}
