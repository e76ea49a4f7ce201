// Package writer persists the merged dataset. A crash or concurrent read
// during a write never observes a partial file: the full output goes to a
// temporary path adjacent to the destination, then an atomic rename
// replaces the destination.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkravets/newsarc/internal/model"
)

// Options controls serialization.
type Options struct {
	// IncludeCountries appends the derived output-only countries column.
	IncludeCountries bool
}

// Write serializes articles to path atomically. Output is stable: fixed
// column order, csv quoting, LF terminators, so repeated runs over
// unchanged logical data produce byte-identical files.
func Write(path string, articles []model.Article, opts Options) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".articles-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)

	header := model.Columns
	if opts.IncludeCountries {
		header = append(append([]string{}, model.Columns...), model.ColumnCountries)
	}
	if err := w.Write(header); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}

	for _, a := range articles {
		if err := w.Write(row(a, opts.IncludeCountries)); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write row %s: %w", a.URL, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func row(a model.Article, includeCountries bool) []string {
	published := ""
	if a.HasPublishedDate() {
		published = a.PublishedDate.Format(model.DateLayout)
	}
	scraped := ""
	if a.HasScrapedAt() {
		scraped = a.ScrapedAt.Format(model.TimestampLayout)
	}

	r := []string{
		a.URL,
		a.Title,
		a.Excerpt,
		published,
		JoinList(a.Topics),
		JoinList(a.Tags),
		scraped,
	}
	if includeCountries {
		r = append(r, JoinList(a.Countries))
	}
	return r
}

// JoinList serializes a list field so the normalizer's comma-split
// decoding reproduces it exactly.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}
