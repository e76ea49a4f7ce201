package dataset

import (
	"testing"
	"time"

	"github.com/mkravets/newsarc/internal/model"
)

func date(s string) time.Time {
	t, _ := time.Parse(model.DateLayout, s)
	return t
}

func filterFixture() *Dataset {
	return &Dataset{Articles: []model.Article{
		{
			URL:           "https://a.example/1",
			Title:         "LNG exports surge",
			Excerpt:       "Record cargoes leave the terminal",
			PublishedDate: date("2023-05-01"),
			Topics:        []string{"Exports", "Production"},
			Tags:          []string{"LNG"},
			Countries:     []string{"US"},
		},
		{
			URL:           "https://a.example/2",
			Title:         "Offshore drilling halted",
			Excerpt:       "Storm season pauses rigs",
			PublishedDate: date("2022-09-15"),
			Topics:        []string{"Drilling"},
			Tags:          []string{"Offshore", "Drilling"},
			Countries:     []string{"UK"},
		},
		{
			URL:     "https://a.example/3",
			Title:   "Undated exports note",
			Excerpt: "No publication date given",
			Topics:  []string{"Exports"},
		},
	}}
}

func urls(articles []model.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.URL
	}
	return out
}

func TestApply_Filters(t *testing.T) {
	ds := filterFixture()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no constraints", Filter{}, []string{"https://a.example/1", "https://a.example/2", "https://a.example/3"}},
		{"date range excludes undated", Filter{From: date("2022-01-01"), To: date("2023-12-31")},
			[]string{"https://a.example/1", "https://a.example/2"}},
		{"from bound", Filter{From: date("2023-01-01")}, []string{"https://a.example/1"}},
		{"keyword any, case-insensitive", Filter{Keywords: []string{"STORM", "missing"}},
			[]string{"https://a.example/2"}},
		{"keyword all", Filter{Keywords: []string{"exports", "cargoes"}, AllKeywords: true},
			[]string{"https://a.example/1"}},
		{"keyword searches excerpt", Filter{Keywords: []string{"publication"}},
			[]string{"https://a.example/3"}},
		{"topics any", Filter{Topics: []string{"Exports"}},
			[]string{"https://a.example/1", "https://a.example/3"}},
		{"topics all", Filter{Topics: []string{"Exports", "Production"}, TopicsMode: MatchAll},
			[]string{"https://a.example/1"}},
		{"tags all misses partial", Filter{Tags: []string{"Offshore", "LNG"}, TagsMode: MatchAll}, nil},
		{"countries any", Filter{Countries: []string{"UK", "US"}},
			[]string{"https://a.example/1", "https://a.example/2"}},
		{"combined", Filter{Keywords: []string{"exports"}, Countries: []string{"US"}},
			[]string{"https://a.example/1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := urls(ds.Apply(tt.filter))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFacetValuesOfFilteredSubset(t *testing.T) {
	ds := filterFixture()
	matched := ds.Apply(Filter{Countries: []string{"UK"}})

	if got := TagValues(matched); len(got) != 2 || got[0] != "Drilling" || got[1] != "Offshore" {
		t.Errorf("TagValues = %#v", got)
	}
	if got := TopicValues(matched); len(got) != 1 || got[0] != "Drilling" {
		t.Errorf("TopicValues = %#v", got)
	}
	if got := CountryValues(matched); len(got) != 1 || got[0] != "UK" {
		t.Errorf("CountryValues = %#v", got)
	}
}

func TestPage(t *testing.T) {
	articles := make([]model.Article, 7)
	for i := range articles {
		articles[i].URL = string(rune('a' + i))
	}

	tests := []struct {
		name       string
		page, size int
		wantLen    int
		wantFirst  string
	}{
		{"first page", 1, 3, 3, "a"},
		{"middle page", 2, 3, 3, "d"},
		{"short last page", 3, 3, 1, "g"},
		{"past the end", 4, 3, 0, ""},
		{"zero page", 0, 3, 0, ""},
		{"zero size", 1, 0, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Page(articles, tt.page, tt.size)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].URL != tt.wantFirst {
				t.Errorf("first = %q, want %q", got[0].URL, tt.wantFirst)
			}
		})
	}
}
