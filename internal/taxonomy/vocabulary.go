package taxonomy

import (
	"github.com/mkravets/newsarc/internal/normalize"
	"github.com/mkravets/newsarc/internal/reader"
)

// LoadVocabulary reads the master tag vocabulary, a CSV with a "tag"
// column. An absent file, or one without that column, yields an empty
// vocabulary; canonicalization then runs on the built-in rules alone.
func LoadVocabulary(path string) []string {
	if path == "" {
		return nil
	}
	records, err := reader.ReadFile(path)
	if err != nil {
		return nil
	}

	var tags []string
	for _, rec := range records {
		if t := normalize.Text(rec["tag"]); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
