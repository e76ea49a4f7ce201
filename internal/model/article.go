package model

import "time"

// Article is one row of the persisted dataset. URL is the identity key:
// the master dataset holds exactly one article per distinct URL.
type Article struct {
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	PublishedDate time.Time `json:"published_date"` // zero means unknown
	Topics        []string  `json:"topics"`
	Tags          []string  `json:"tags"`
	ScrapedAt     time.Time `json:"scraped_at"` // zero means unknown, drives recency resolution
	Countries     []string  `json:"countries,omitempty"` // derived from Tags, never a source field
}

// HasPublishedDate reports whether the publication date is known.
func (a *Article) HasPublishedDate() bool { return !a.PublishedDate.IsZero() }

// HasScrapedAt reports whether the capture timestamp is known.
func (a *Article) HasScrapedAt() bool { return !a.ScrapedAt.IsZero() }

// Columns is the canonical column order of the persisted dataset.
var Columns = []string{"url", "title", "excerpt", "published_date", "topics", "tags", "scraped_at"}

// ColumnCountries is the optional output-only column holding derived countries.
const ColumnCountries = "countries"

// Serialization formats for date-valued columns.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)
