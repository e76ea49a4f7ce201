// Package dataset loads the persisted master for presentation: records
// are re-normalized, tags and topics canonicalized, countries derived,
// and the result cached briefly so an interactive viewer can reload
// cheaply between scheduled syncs.
package dataset

import (
	"fmt"
	"os"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mkravets/newsarc/internal/model"
	"github.com/mkravets/newsarc/internal/normalize"
	"github.com/mkravets/newsarc/internal/reader"
	"github.com/mkravets/newsarc/internal/taxonomy"
)

// Dataset is a display-ready view of the master file.
type Dataset struct {
	Articles []model.Article

	// FileModTime is the master file's own modification time.
	FileModTime time.Time

	// LatestScrape is the max scraped_at across records.
	LatestScrape time.Time
}

// Loader reads and prepares datasets, caching results by path.
type Loader struct {
	canon     *taxonomy.Canonicalizer
	countries *taxonomy.CountrySet
	cache     *gocache.Cache
	ttl       time.Duration
}

// NewLoader builds a loader from configuration, loading the master
// vocabulary and country reference list once.
func NewLoader(cfg *model.Config) *Loader {
	ttl := cfg.Viewer.CacheTTL()
	return &Loader{
		canon:     taxonomy.New(taxonomy.LoadVocabulary(cfg.Taxonomy.VocabularyPath)),
		countries: taxonomy.NewCountrySet(cfg.Taxonomy.CountriesPath),
		cache:     gocache.New(ttl, 2*ttl),
		ttl:       ttl,
	}
}

// Load returns the display-ready dataset for path, from cache when fresh.
func (l *Loader) Load(path string) (*Dataset, error) {
	if cached, found := l.cache.Get(path); found {
		return cached.(*Dataset), nil
	}

	ds, err := l.load(path)
	if err != nil {
		return nil, err
	}
	l.cache.Set(path, ds, l.ttl)
	return ds, nil
}

// Invalidate drops the cached dataset for path.
func (l *Loader) Invalidate(path string) {
	l.cache.Delete(path)
}

func (l *Loader) load(path string) (*Dataset, error) {
	records, err := reader.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	articles := normalize.Records(records)
	for i := range articles {
		articles[i].Tags = l.canon.Tags(articles[i].Tags)
		articles[i].Topics = l.canon.Phrases(articles[i].Topics)
		articles[i].Countries = l.countries.FromTags(articles[i].Tags)
	}

	// The persisted master already holds one row per URL, but a dataset
	// produced by older tooling may not; keep the last representation.
	articles = keepLast(articles)

	ds := &Dataset{Articles: articles}
	for _, a := range articles {
		if a.ScrapedAt.After(ds.LatestScrape) {
			ds.LatestScrape = a.ScrapedAt
		}
	}
	if info, err := os.Stat(path); err == nil {
		ds.FileModTime = info.ModTime()
	}

	sortNewestFirst(ds.Articles)
	return ds, nil
}

// LastUpdated renders the dataset freshness banner: file mtime plus the
// latest capture timestamp found in the data.
func (d *Dataset) LastUpdated() string {
	file := "unknown"
	if !d.FileModTime.IsZero() {
		file = d.FileModTime.Format(model.TimestampLayout)
	}
	if d.LatestScrape.IsZero() {
		return fmt.Sprintf("last updated %s (file)", file)
	}
	return fmt.Sprintf("last updated %s (file), latest scrape in data %s", file, d.LatestScrape.Format(model.TimestampLayout))
}

// Topics returns the sorted distinct topic values, the viewer's filter
// option list.
func (d *Dataset) Topics() []string { return TopicValues(d.Articles) }

// Tags returns the sorted distinct tag values.
func (d *Dataset) Tags() []string { return TagValues(d.Articles) }

// Countries returns the sorted distinct derived country values.
func (d *Dataset) Countries() []string { return CountryValues(d.Articles) }

// TopicValues returns the sorted distinct topics of any article subset,
// so option lists can reflect an already-filtered view.
func TopicValues(articles []model.Article) []string {
	return distinctValues(articles, func(a model.Article) []string { return a.Topics })
}

// TagValues returns the sorted distinct tags of any article subset.
func TagValues(articles []model.Article) []string {
	return distinctValues(articles, func(a model.Article) []string { return a.Tags })
}

// CountryValues returns the sorted distinct countries of any article subset.
func CountryValues(articles []model.Article) []string {
	return distinctValues(articles, func(a model.Article) []string { return a.Countries })
}

func distinctValues(articles []model.Article, get func(model.Article) []string) []string {
	seen := make(map[string]struct{})
	for _, a := range articles {
		for _, v := range get(a) {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func keepLast(articles []model.Article) []model.Article {
	index := make(map[string]int, len(articles))
	var out []model.Article
	for _, a := range articles {
		if i, ok := index[a.URL]; ok {
			out[i] = a
			continue
		}
		index[a.URL] = len(out)
		out = append(out, a)
	}
	return out
}

func sortNewestFirst(articles []model.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		switch {
		case a.HasPublishedDate() && !b.HasPublishedDate():
			return true
		case !a.HasPublishedDate() && b.HasPublishedDate():
			return false
		}
		return a.PublishedDate.After(b.PublishedDate)
	})
}
