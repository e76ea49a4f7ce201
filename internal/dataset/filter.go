package dataset

import (
	"strings"
	"time"

	"github.com/mkravets/newsarc/internal/model"
)

// MatchMode selects how a multi-select filter combines its values.
type MatchMode string

const (
	MatchAny MatchMode = "or"  // record must carry at least one selected value
	MatchAll MatchMode = "and" // record must carry every selected value
)

// Filter describes one filtered view of the dataset. Zero values mean
// "no constraint".
type Filter struct {
	From time.Time
	To   time.Time

	// Keywords match against title + excerpt, case-insensitively.
	Keywords    []string
	AllKeywords bool

	Topics        []string
	Tags          []string
	Countries     []string
	TopicsMode    MatchMode
	TagsMode      MatchMode
	CountriesMode MatchMode
}

// Apply returns the articles matching the filter, preserving order.
func (d *Dataset) Apply(f Filter) []model.Article {
	var out []model.Article
	for _, a := range d.Articles {
		if f.matches(a) {
			out = append(out, a)
		}
	}
	return out
}

func (f Filter) matches(a model.Article) bool {
	if !f.From.IsZero() && (a.PublishedDate.IsZero() || a.PublishedDate.Before(f.From)) {
		return false
	}
	if !f.To.IsZero() && (a.PublishedDate.IsZero() || a.PublishedDate.After(f.To)) {
		return false
	}
	if !matchKeywords(a.Title+" "+a.Excerpt, f.Keywords, f.AllKeywords) {
		return false
	}
	if !matchValues(f.Topics, a.Topics, f.TopicsMode) {
		return false
	}
	if !matchValues(f.Tags, a.Tags, f.TagsMode) {
		return false
	}
	if !matchValues(f.Countries, a.Countries, f.CountriesMode) {
		return false
	}
	return true
}

func matchKeywords(text string, keywords []string, all bool) bool {
	if len(keywords) == 0 {
		return true
	}
	t := strings.ToLower(text)
	for _, k := range keywords {
		found := strings.Contains(t, strings.ToLower(k))
		if all && !found {
			return false
		}
		if !all && found {
			return true
		}
	}
	return all
}

func matchValues(selected, have []string, mode MatchMode) bool {
	if len(selected) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, v := range have {
		set[v] = struct{}{}
	}
	for _, s := range selected {
		_, found := set[s]
		if mode == MatchAll && !found {
			return false
		}
		if mode != MatchAll && found {
			return true
		}
	}
	return mode == MatchAll
}

// Page slices articles for display. Pages are 1-based; an out-of-range
// page yields an empty slice.
func Page(articles []model.Article, page, size int) []model.Article {
	if size <= 0 || page <= 0 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(articles) {
		return nil
	}
	end := start + size
	if end > len(articles) {
		end = len(articles)
	}
	return articles[start:end]
}
