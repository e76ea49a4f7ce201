package merge

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mkravets/newsarc/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func article(url string, published, scraped time.Time, title string) model.Article {
	return model.Article{URL: url, Title: title, PublishedDate: published, ScrapedAt: scraped}
}

func TestMerge_EmptyInputs(t *testing.T) {
	_, err := Merge(nil, nil, Options{MasterPath: "m.csv", BatchPath: "b.csv"})
	var empty *model.EmptyInputError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyInputError, got %v", err)
	}
}

func TestMerge_IdentityUniqueness(t *testing.T) {
	master := []model.Article{
		article("u1", date(2020, 1, 1), date(2024, 1, 1), "old one"),
		article("u2", date(2021, 1, 1), date(2024, 1, 1), "old two"),
	}
	batch := []model.Article{
		article("u2", date(2021, 1, 1), date(2024, 6, 1), "new two"),
		article("u3", date(2022, 1, 1), date(2024, 6, 1), "three"),
		article("u3", date(2022, 1, 1), date(2024, 6, 2), "three again"),
	}

	res, err := Merge(master, batch, Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	seen := make(map[string]int)
	for _, a := range res.Articles {
		seen[a.URL]++
	}
	for url, n := range seen {
		if n != 1 {
			t.Errorf("url %s appears %d times", url, n)
		}
	}
	if res.MergedUnique != 3 {
		t.Errorf("expected 3 unique urls, got %d", res.MergedUnique)
	}
	if res.Updated != 1 || res.Added != 1 {
		t.Errorf("expected 1 updated / 1 added, got %d / %d", res.Updated, res.Added)
	}
}

func TestMerge_RecencyWins(t *testing.T) {
	master := []model.Article{
		article("u1", date(2020, 1, 1), date(2024, 5, 1), "master copy"),
	}
	batch := []model.Article{
		article("u1", date(2020, 1, 2), date(2024, 6, 1), "batch copy"),
	}

	res, err := Merge(master, batch, Options{Policy: PolicyRecency})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := res.Articles[0].Title; got != "batch copy" {
		t.Errorf("expected batch copy to win, got %q", got)
	}
	if !res.Articles[0].PublishedDate.Equal(date(2020, 1, 2)) {
		t.Error("winner must contribute all of its fields")
	}
}

func TestMerge_RecencyKeepsNewerMaster(t *testing.T) {
	// A re-scrape that regressed: master already holds a newer capture.
	master := []model.Article{
		article("u1", date(2020, 1, 1), date(2024, 7, 1), "newer master"),
	}
	batch := []model.Article{
		article("u1", date(2020, 1, 1), date(2024, 6, 1), "older batch"),
	}

	res, err := Merge(master, batch, Options{Policy: PolicyRecency})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := res.Articles[0].Title; got != "newer master" {
		t.Errorf("expected master copy to survive, got %q", got)
	}
}

func TestMerge_RecencyTieGoesToBatch(t *testing.T) {
	ts := date(2024, 6, 1)
	master := []model.Article{article("u1", date(2020, 1, 1), ts, "master copy")}
	batch := []model.Article{article("u1", date(2020, 1, 1), ts, "batch copy")}

	res, err := Merge(master, batch, Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := res.Articles[0].Title; got != "batch copy" {
		t.Errorf("expected tie to go to batch, got %q", got)
	}
}

func TestMerge_RecencyUnknownTimestampsFallBackToOrder(t *testing.T) {
	master := []model.Article{article("u1", date(2020, 1, 1), time.Time{}, "master copy")}
	batch := []model.Article{article("u1", date(2020, 1, 1), time.Time{}, "batch copy")}

	res, err := Merge(master, batch, Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := res.Articles[0].Title; got != "batch copy" {
		t.Errorf("expected last-encountered (batch) to win, got %q", got)
	}
}

func TestMerge_UnknownNeverBeatsKnownTimestamp(t *testing.T) {
	master := []model.Article{article("u1", date(2020, 1, 1), date(2024, 5, 1), "master copy")}
	batch := []model.Article{article("u1", date(2020, 1, 1), time.Time{}, "batch copy")}

	res, err := Merge(master, batch, Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := res.Articles[0].Title; got != "master copy" {
		t.Errorf("expected timestamped master to survive, got %q", got)
	}
}

func TestMerge_NewWinsPolicyIgnoresTimestamps(t *testing.T) {
	master := []model.Article{article("u1", date(2020, 1, 1), date(2024, 7, 1), "newer master")}
	batch := []model.Article{article("u1", date(2020, 1, 1), date(2024, 6, 1), "older batch")}

	res, err := Merge(master, batch, Options{Policy: PolicyNewWins})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := res.Articles[0].Title; got != "older batch" {
		t.Errorf("expected batch to win under new-wins, got %q", got)
	}
}

func TestMerge_Ordering(t *testing.T) {
	master := []model.Article{
		article("u-old", date(2018, 3, 1), date(2024, 1, 1), ""),
		article("u-nodate", time.Time{}, date(2024, 1, 2), ""),
		article("u-new", date(2023, 9, 1), date(2024, 1, 1), ""),
	}
	batch := []model.Article{
		article("u-tie-late", date(2023, 9, 1), date(2024, 2, 1), ""),
	}

	res, err := Merge(master, batch, Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	var urls []string
	for _, a := range res.Articles {
		urls = append(urls, a.URL)
	}
	want := []string{"u-tie-late", "u-new", "u-old", "u-nodate"}
	for i := range want {
		if urls[i] != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", urls, want)
		}
	}
}

func TestMerge_MinArticlesGuard(t *testing.T) {
	master := []model.Article{
		article("u1", date(2012, 1, 1), date(2024, 1, 1), ""),
		article("u2", date(2013, 1, 1), date(2024, 1, 1), ""),
	}
	batch := []model.Article{article("u3", date(2024, 1, 1), date(2024, 6, 1), "")}

	_, err := Merge(master, batch, Options{MinArticles: 100})
	var guard *model.GuardViolationError
	if !errors.As(err, &guard) {
		t.Fatalf("expected GuardViolationError, got %v", err)
	}
	if guard.Guard != model.GuardMinArticles {
		t.Errorf("wrong guard tripped: %s", guard.Guard)
	}
	if guard.Observed != "2" || guard.Threshold != "100" {
		t.Errorf("expected observed/threshold 2/100, got %s/%s", guard.Observed, guard.Threshold)
	}
}

func TestMerge_OldestDateGuard(t *testing.T) {
	// Master's history starts suspiciously recently.
	master := []model.Article{
		article("u1", date(2024, 1, 1), date(2024, 1, 1), ""),
		article("u2", date(2024, 2, 1), date(2024, 1, 1), ""),
	}
	batch := []model.Article{article("u3", date(2024, 3, 1), date(2024, 6, 1), "")}

	_, err := Merge(master, batch, Options{OldestBefore: date(2015, 1, 1)})
	var guard *model.GuardViolationError
	if !errors.As(err, &guard) {
		t.Fatalf("expected GuardViolationError, got %v", err)
	}
	if guard.Guard != model.GuardOldestDate {
		t.Errorf("wrong guard tripped: %s", guard.Guard)
	}
}

func TestMerge_OldestDateGuardPassesOnRealHistory(t *testing.T) {
	master := []model.Article{
		article("u1", date(2012, 1, 1), date(2024, 1, 1), ""),
		article("u2", date(2024, 2, 1), date(2024, 1, 1), ""),
	}
	batch := []model.Article{article("u3", date(2024, 3, 1), date(2024, 6, 1), "")}

	if _, err := Merge(master, batch, Options{OldestBefore: date(2015, 1, 1)}); err != nil {
		t.Fatalf("expected guard to pass, got %v", err)
	}
}

func TestMerge_GuardsSkippedOnFirstRun(t *testing.T) {
	batch := []model.Article{article("u1", date(2024, 1, 1), date(2024, 6, 1), "")}

	res, err := Merge(nil, batch, Options{MinArticles: 5000, OldestBefore: date(2015, 1, 1)})
	if err != nil {
		t.Fatalf("expected first run to pass guards, got %v", err)
	}
	if res.MergedUnique != 1 || res.Added != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestMerge_NoShrink(t *testing.T) {
	var master []model.Article
	for i := 0; i < 20; i++ {
		master = append(master, article(fmt.Sprintf("u%d", i), date(2012+i%10, 1, 1), date(2024, 1, 1), ""))
	}
	batch := []model.Article{article("u1", date(2013, 1, 1), date(2024, 6, 1), "updated")}

	res, err := Merge(master, batch, Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if res.MergedUnique < res.MasterUnique {
		t.Errorf("output shrank: %d < %d", res.MergedUnique, res.MasterUnique)
	}
}

func TestMerge_EndToEndScenario(t *testing.T) {
	// Master: 8,000 unique URLs spanning 2012-2024. Batch: 12 rows, 3
	// sharing a url with master rows but scraped later.
	var master []model.Article
	for i := 0; i < 8000; i++ {
		master = append(master, article(
			fmt.Sprintf("https://a.example/%d", i),
			date(2012+(i%13), 1+(i%12), 1),
			date(2024, 1, 1),
			fmt.Sprintf("old %d", i),
		))
	}

	var batch []model.Article
	for i := 0; i < 3; i++ {
		batch = append(batch, article(
			fmt.Sprintf("https://a.example/%d", i),
			date(2024, 6, 1),
			date(2024, 6, 2),
			fmt.Sprintf("refreshed %d", i),
		))
	}
	for i := 0; i < 9; i++ {
		batch = append(batch, article(
			fmt.Sprintf("https://a.example/new-%d", i),
			date(2024, 6, 1),
			date(2024, 6, 2),
			fmt.Sprintf("brand new %d", i),
		))
	}

	res, err := Merge(master, batch, Options{MinArticles: 5000, OldestBefore: date(2015, 1, 1)})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if res.MergedUnique != 8009 {
		t.Fatalf("expected 8009 unique urls, got %d", res.MergedUnique)
	}
	if res.Updated != 3 || res.Added != 9 {
		t.Errorf("expected 3 updated / 9 added, got %d / %d", res.Updated, res.Added)
	}
	if res.MergedUnique < res.MasterUnique {
		t.Error("output must never fall below the master's unique count")
	}

	refreshed := 0
	for _, a := range res.Articles {
		if a.Title == "refreshed 0" || a.Title == "refreshed 1" || a.Title == "refreshed 2" {
			refreshed++
		}
	}
	if refreshed != 3 {
		t.Errorf("expected 3 refreshed articles to carry the batch fields, got %d", refreshed)
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != PolicyRecency {
		t.Errorf("empty policy should default to recency, got %v, %v", p, err)
	}
	if p, err := ParsePolicy("new-wins"); err != nil || p != PolicyNewWins {
		t.Errorf("new-wins should parse, got %v, %v", p, err)
	}
	if _, err := ParsePolicy("coin-flip"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
