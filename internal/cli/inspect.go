package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkravets/newsarc/internal/dataset"
	"github.com/mkravets/newsarc/internal/model"
)

var (
	inspectListTopics    bool
	inspectListTags      bool
	inspectListCountries bool
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show dataset statistics and filter option lists",
	Long: `Inspect loads the master dataset and reports row counts, the date
span, and freshness (file modification time plus the latest scraped_at
found in the data). The --topics, --tags, and --countries flags print
the canonical filter option lists the viewer builds its selectors from.

Example:
  newsarc inspect
  newsarc inspect --countries
  newsarc inspect --tags | head -40`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectListTopics, "topics", false, "list all canonical topics")
	inspectCmd.Flags().BoolVar(&inspectListTags, "tags", false, "list all canonical tags")
	inspectCmd.Flags().BoolVar(&inspectListCountries, "countries", false, "list all derived countries")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loader := dataset.NewLoader(cfg)
	ds, err := loader.Load(cfg.Data.MasterPath)
	if err != nil {
		return err
	}

	if inspectListTopics || inspectListTags || inspectListCountries {
		printLists(ds)
		return nil
	}

	fmt.Printf("Dataset: %s\n", cfg.Data.MasterPath)
	fmt.Printf("Articles: %d\n", len(ds.Articles))
	fmt.Printf("Freshness: %s\n", ds.LastUpdated())

	if oldest, newest, ok := dateSpan(ds); ok {
		fmt.Printf("Published: %s to %s\n", oldest, newest)
	} else {
		fmt.Printf("Published: no parsable dates\n")
	}

	fmt.Printf("Topics: %d distinct\n", len(ds.Topics()))
	fmt.Printf("Tags: %d distinct\n", len(ds.Tags()))
	fmt.Printf("Countries: %d distinct\n", len(ds.Countries()))
	return nil
}

func printLists(ds *dataset.Dataset) {
	if inspectListTopics {
		for _, t := range ds.Topics() {
			fmt.Println(t)
		}
	}
	if inspectListTags {
		for _, t := range ds.Tags() {
			fmt.Println(t)
		}
	}
	if inspectListCountries {
		for _, c := range ds.Countries() {
			fmt.Println(c)
		}
	}
}

func dateSpan(ds *dataset.Dataset) (string, string, bool) {
	var oldest, newest string
	found := false
	for _, a := range ds.Articles {
		if !a.HasPublishedDate() {
			continue
		}
		d := a.PublishedDate.Format(model.DateLayout)
		if !found {
			oldest, newest = d, d
			found = true
			continue
		}
		if d < oldest {
			oldest = d
		}
		if d > newest {
			newest = d
		}
	}
	if !found {
		return "", "", false
	}
	return oldest, newest, true
}
