package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/newsarc/internal/dataset"
	"github.com/mkravets/newsarc/internal/model"
	"github.com/mkravets/newsarc/internal/writer"
)

var (
	exportOut           string
	exportFrom          string
	exportTo            string
	exportKeywords      []string
	exportAllKeywords   bool
	exportTopics        []string
	exportTags          []string
	exportCountries     []string
	exportTopicsMode    string
	exportTagsMode      string
	exportCountriesMode string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a filtered, display-normalized CSV of the dataset",
	Long: `Export loads the master dataset the way the viewer does, with
fields normalized, tags and topics canonicalized, and countries derived.
It then applies the given filters and writes the result as CSV.

Multi-select filters match any value by default; pass "and" to a mode
flag to require all selected values.

Example:
  newsarc export --out filtered.csv --country UK --from 2020-01-01
  newsarc export --out ccs.csv --tag CCS --tag "CO2 Emissions" --tags-mode and
  newsarc export --out hits.csv --keyword lng --keyword export --all-keywords`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "filtered.csv", "output CSV path")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "earliest published date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "latest published date (YYYY-MM-DD)")
	exportCmd.Flags().StringSliceVar(&exportKeywords, "keyword", nil, "keyword to match in title+excerpt (repeatable)")
	exportCmd.Flags().BoolVar(&exportAllKeywords, "all-keywords", false, "require every keyword instead of any")
	exportCmd.Flags().StringSliceVar(&exportTopics, "topic", nil, "topic filter (repeatable)")
	exportCmd.Flags().StringSliceVar(&exportTags, "tag", nil, "tag filter (repeatable)")
	exportCmd.Flags().StringSliceVar(&exportCountries, "country", nil, "country filter (repeatable)")
	exportCmd.Flags().StringVar(&exportTopicsMode, "topics-mode", "or", "topic match mode: or, and")
	exportCmd.Flags().StringVar(&exportTagsMode, "tags-mode", "or", "tag match mode: or, and")
	exportCmd.Flags().StringVar(&exportCountriesMode, "countries-mode", "or", "country match mode: or, and")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filter, err := buildFilter()
	if err != nil {
		return err
	}

	loader := dataset.NewLoader(cfg)
	ds, err := loader.Load(cfg.Data.MasterPath)
	if err != nil {
		return err
	}

	matched := ds.Apply(filter)
	if err := writer.Write(exportOut, matched, writer.Options{IncludeCountries: true}); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Exported %d of %d articles to %s\n", len(matched), len(ds.Articles), exportOut)
	return nil
}

func buildFilter() (dataset.Filter, error) {
	f := dataset.Filter{
		Keywords:      exportKeywords,
		AllKeywords:   exportAllKeywords,
		Topics:        exportTopics,
		Tags:          exportTags,
		Countries:     exportCountries,
		TopicsMode:    dataset.MatchMode(exportTopicsMode),
		TagsMode:      dataset.MatchMode(exportTagsMode),
		CountriesMode: dataset.MatchMode(exportCountriesMode),
	}

	var err error
	if f.From, err = parseDateFlag(exportFrom, "--from"); err != nil {
		return f, err
	}
	if f.To, err = parseDateFlag(exportTo, "--to"); err != nil {
		return f, err
	}
	return f, nil
}

func parseDateFlag(value, flag string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %q is not a YYYY-MM-DD date", flag, value)
	}
	return t, nil
}
