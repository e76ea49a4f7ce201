// Package normalize cleans raw records into articles. Scalar parse
// failures never abort ingestion: a date that does not parse degrades to
// unknown and the row carries forward.
package normalize

import (
	"strings"
	"time"

	"github.com/mkravets/newsarc/internal/model"
	"github.com/mkravets/newsarc/internal/reader"
)

// Text collapses internal whitespace runs to single spaces and trims.
func Text(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// dateLayouts are tried in order for published_date values.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
	"2006/01/02",
	"01/02/2006",
}

// Date parses common date formats. Unparsable or missing values return
// the zero time; today is never fabricated.
func Date(s string) time.Time {
	s = Text(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Timestamp parses capture timestamps, accepting the same formats as Date.
func Timestamp(s string) time.Time {
	return Date(s)
}

// List decodes a list-valued field. A bracketed pseudo-list literal is
// parsed as such; anything else splits on commas. Elements are trimmed
// and empties dropped. The result survives a serialize-reparse round
// trip unchanged.
func List(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		if items, ok := parseListLiteral(s); ok {
			return items
		}
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := Text(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseListLiteral parses a bracketed list such as ['a', "b, c"] the way
// scrapers serialize them. Quoted elements may contain commas and escaped
// quotes; unquoted elements split on commas.
func parseListLiteral(s string) ([]string, bool) {
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, true
	}

	var (
		out     []string
		current strings.Builder
		quote   rune
		escaped bool
	)

	flush := func() {
		item := Text(strings.Trim(strings.TrimSpace(current.String()), `'"`))
		if item != "" {
			out = append(out, item)
		}
		current.Reset()
	}

	for _, r := range inner {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != 0:
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ',':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if quote != 0 {
		// Unbalanced quoting: not a well-formed literal.
		return nil, false
	}
	flush()
	return out, true
}

// Record converts a raw record into a clean article. ok is false when the
// normalized url is empty; such rows are excluded from all downstream
// processing.
func Record(r reader.Record) (model.Article, bool) {
	a := model.Article{
		URL:           Text(r["url"]),
		Title:         Text(r["title"]),
		Excerpt:       Text(r["excerpt"]),
		PublishedDate: Date(r["published_date"]),
		Topics:        List(r["topics"]),
		Tags:          List(r["tags"]),
		ScrapedAt:     Timestamp(r["scraped_at"]),
	}
	if a.URL == "" {
		return model.Article{}, false
	}
	return a, true
}

// Records converts raw records, dropping rows without an identity.
func Records(rs []reader.Record) []model.Article {
	out := make([]model.Article, 0, len(rs))
	for _, r := range rs {
		if a, ok := Record(r); ok {
			out = append(out, a)
		}
	}
	return out
}
