package model

import "time"

// Config holds the complete newsarc configuration
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Guard    GuardConfig    `yaml:"guard" mapstructure:"guard"`
	Merge    MergeConfig    `yaml:"merge" mapstructure:"merge"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy" mapstructure:"taxonomy"`
	Scraper  ScraperConfig  `yaml:"scraper" mapstructure:"scraper"`
	Viewer   ViewerConfig   `yaml:"viewer" mapstructure:"viewer"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// DataConfig locates the dataset files and controls write-back behavior
type DataConfig struct {
	// MasterPath is the long-lived deduplicated dataset
	MasterPath string `yaml:"master_path" mapstructure:"master_path"`

	// BatchPath is where the scraper drops fresh, not-yet-merged rows
	BatchPath string `yaml:"batch_path" mapstructure:"batch_path"`

	// WriteCountries adds the derived output-only countries column on write
	WriteCountries bool `yaml:"write_countries" mapstructure:"write_countries"`

	// DeleteBatchAfterMerge removes the batch file once merged into master
	DeleteBatchAfterMerge bool `yaml:"delete_batch_after_merge" mapstructure:"delete_batch_after_merge"`
}

// GuardConfig tunes the anti-corruption invariants. A master below
// MinArticles distinct URLs, or whose oldest published date falls on or
// after OldestBefore, is considered suspect and never overwritten.
type GuardConfig struct {
	// MinArticles is the minimum distinct-URL count an existing master
	// must have to be trusted. Zero disables the count guard.
	MinArticles int `yaml:"min_articles" mapstructure:"min_articles"`

	// OldestBefore (YYYY-MM-DD) is the earliest-plausible-history cutoff.
	// Empty disables the date guard.
	OldestBefore string `yaml:"oldest_before" mapstructure:"oldest_before"`
}

// OldestBeforeDate parses the cutoff, returning the zero time when the
// guard is disabled or the value does not parse.
func (g GuardConfig) OldestBeforeDate() time.Time {
	if g.OldestBefore == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, g.OldestBefore)
	if err != nil {
		return time.Time{}
	}
	return t
}

// MergeConfig selects the duplicate-identity resolution policy:
// "recency" (latest scraped_at wins, ties go to the batch) or
// "new-wins" (batch rows always replace master rows).
type MergeConfig struct {
	Policy string `yaml:"policy" mapstructure:"policy"`
}

// TaxonomyConfig locates the optional external reference lists
type TaxonomyConfig struct {
	// VocabularyPath is a CSV of known tags (column: tag) seeding the
	// acronym set and the canonical-form lookup
	VocabularyPath string `yaml:"vocabulary_path" mapstructure:"vocabulary_path"`

	// CountriesPath is a text file of recognized country names, one per
	// line. A built-in fallback list is used when absent.
	CountriesPath string `yaml:"countries_path" mapstructure:"countries_path"`
}

// ScraperConfig describes the external scraper process. The engine never
// crawls anything itself; it only invokes this command and consumes the
// batch file it produces. {batch} and {master} in Args are expanded.
type ScraperConfig struct {
	Command    string   `yaml:"command" mapstructure:"command"`
	Args       []string `yaml:"args" mapstructure:"args"`
	WorkDir    string   `yaml:"workdir" mapstructure:"workdir"`
	TimeoutSec int      `yaml:"timeout_sec" mapstructure:"timeout_sec"`
}

// Timeout returns the scraper timeout as a duration.
func (s ScraperConfig) Timeout() time.Duration {
	if s.TimeoutSec <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(s.TimeoutSec) * time.Second
}

// ViewerConfig tunes the dataset loader consumed by presentation layers
type ViewerConfig struct {
	CacheTTLSec int `yaml:"cache_ttl_sec" mapstructure:"cache_ttl_sec"`
	PageSize    int `yaml:"page_size" mapstructure:"page_size"`
}

// CacheTTL returns the dataset cache TTL as a duration.
func (v ViewerConfig) CacheTTL() time.Duration {
	if v.CacheTTLSec <= 0 {
		return time.Minute
	}
	return time.Duration(v.CacheTTLSec) * time.Second
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns sensible defaults. The guard thresholds are
// operator tuning for the dataset at hand, not universal truths.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			MasterPath: "data/articles.csv",
			BatchPath:  "data/_new.csv",
		},
		Guard: GuardConfig{
			MinArticles:  5000,
			OldestBefore: "2015-01-01",
		},
		Merge: MergeConfig{
			Policy: "recency",
		},
		Taxonomy: TaxonomyConfig{
			VocabularyPath: "all_tags.csv",
		},
		Scraper: ScraperConfig{
			TimeoutSec: 600,
		},
		Viewer: ViewerConfig{
			CacheTTLSec: 60,
			PageSize:    25,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
