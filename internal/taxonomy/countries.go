package taxonomy

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/mkravets/newsarc/internal/normalize"
)

// countryAbbrev folds country name variants to a short canonical code.
var countryAbbrev = map[string]string{
	"US":                       "US",
	"U.S.":                     "US",
	"USA":                      "US",
	"United States":            "US",
	"United States Of America": "US",
	"UK":                       "UK",
	"U.K.":                     "UK",
	"United Kingdom":           "UK",
	"Great Britain":            "UK",
	"Britain":                  "UK",
	"UAE":                      "UAE",
	"U.A.E.":                   "UAE",
	"United Arab Emirates":     "UAE",
}

// fallbackCountries backs the recognized-country set when no external
// reference list is available.
var fallbackCountries = []string{
	"Canada", "Mexico", "Brazil", "Argentina", "Norway", "France", "Germany",
	"Italy", "Spain", "Australia", "India", "China", "Japan", "Saudi Arabia",
	"Qatar", "Kuwait", "Oman", "Iraq", "Iran", "Libya", "Nigeria", "Angola",
	"Egypt",
}

// CountrySet is the broader set of recognized country names a tag may
// equal verbatim, beyond the abbreviation table.
type CountrySet struct {
	names map[string]struct{}
}

// NewCountrySet loads the recognized-country set from a reference file of
// names, one per line. When path is empty or unreadable the built-in
// fallback list is used. Names with an abbreviation fold to their code.
func NewCountrySet(path string) *CountrySet {
	s := &CountrySet{names: make(map[string]struct{})}
	for _, code := range countryAbbrev {
		s.names[code] = struct{}{}
	}

	names := fallbackCountries
	if path != "" {
		if loaded, err := readLines(path); err == nil && len(loaded) > 0 {
			names = loaded
		}
	}
	for _, n := range names {
		n = normalize.Text(n)
		if n == "" || strings.HasPrefix(n, "#") {
			continue
		}
		if code, ok := countryAbbrev[n]; ok {
			n = code
		}
		s.names[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is a recognized country (exact match).
func (s *CountrySet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// CountryCode resolves a tag against the abbreviation table: exact match
// first, then case-insensitive.
func CountryCode(tag string) (string, bool) {
	t := normalize.Text(tag)
	if t == "" {
		return "", false
	}
	if code, ok := countryAbbrev[t]; ok {
		return code, true
	}
	lower := strings.ToLower(t)
	for variant, code := range countryAbbrev {
		if lower == strings.ToLower(variant) {
			return code, true
		}
	}
	return "", false
}

// FromTags derives the countries facet of a record: the deduplicated,
// sorted union of abbreviation-table matches and recognized-name matches
// across its normalized tags.
func (s *CountrySet) FromTags(tags []string) []string {
	found := make(map[string]struct{})
	for _, t := range tags {
		if code, ok := CountryCode(t); ok {
			found[code] = struct{}{}
		}
	}
	for _, t := range tags {
		if s.Contains(t) {
			found[t] = struct{}{}
		}
	}

	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for c := range found {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
