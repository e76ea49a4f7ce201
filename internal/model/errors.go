package model

import "fmt"

// SchemaError reports a batch that lacks the identity column entirely.
// It is fatal: no merge runs and no write occurs.
type SchemaError struct {
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: required column %q not found (no alias resolvable)", e.Path, e.Column)
}

// EmptyInputError reports that both the master and the new batch were
// empty or absent. It is a clean no-op, not a failure.
type EmptyInputError struct {
	MasterPath string
	BatchPath  string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("nothing to merge: master %q and batch %q are both empty or missing", e.MasterPath, e.BatchPath)
}

// Guard names for GuardViolationError.
const (
	GuardMinArticles = "min-articles"
	GuardOldestDate  = "oldest-date"
	GuardShrink      = "shrink"
)

// GuardViolationError reports a tripped anti-corruption or anti-shrink
// invariant. It carries the observed value and the threshold so an
// operator can decide whether to override. No write occurs.
type GuardViolationError struct {
	Guard     string
	Observed  string
	Threshold string
}

func (e *GuardViolationError) Error() string {
	switch e.Guard {
	case GuardMinArticles:
		return fmt.Sprintf("corruption guard: existing master has %s distinct urls, need at least %s; refusing to overwrite", e.Observed, e.Threshold)
	case GuardOldestDate:
		return fmt.Sprintf("corruption guard: existing master's oldest published_date is %s, expected history older than %s; refusing to overwrite", e.Observed, e.Threshold)
	case GuardShrink:
		return fmt.Sprintf("shrink guard: merged output would have %s distinct urls, existing master has %s; refusing to overwrite", e.Observed, e.Threshold)
	}
	return fmt.Sprintf("guard %s violated: observed %s, threshold %s", e.Guard, e.Observed, e.Threshold)
}
