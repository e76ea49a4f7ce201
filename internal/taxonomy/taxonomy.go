// Package taxonomy maps free-text tag and topic strings to a stable
// display vocabulary, and classifies tags that denote countries. The
// casing heuristics are pure policy functions: deterministic, idempotent,
// and testable against fixed input/output tables.
package taxonomy

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mkravets/newsarc/internal/normalize"
)

// baseAcronyms always render fully upper-case: units, standards bodies,
// chemical formulas, and other domain abbreviations.
var baseAcronyms = []string{
	"AI", "ML", "US", "UK", "UAE", "LNG", "CCS", "CO2", "CO₂", "M&A", "HSE", "OPEC",
	"NGL", "FPSO", "FLNG", "EOR", "IOR", "NPT", "R&D", "API", "ISO", "NACE",
	"IIoT", "OT", "IT", "SCADA", "PLC", "DCS", "ESG", "GHG",
}

var (
	// codeShape matches model/class codes such as CO2 or X15.
	codeShape = regexp.MustCompile(`^[A-Za-z]{1,4}[0-9]{1,3}$`)

	// allCapsShape matches plain upper-case runs of two or more letters.
	allCapsShape = regexp.MustCompile(`^[A-Z]{2,}$`)

	// vocabAcronymShape matches vocabulary entries that are acronym-like
	// as a whole: caps, digits, and punctuation only.
	vocabAcronymShape = regexp.MustCompile(`^[A-Z0-9&./-]{2,}$`)
)

// Canonicalizer produces stable display strings for tags and topics.
type Canonicalizer struct {
	acronyms  map[string]struct{}
	canonical map[string]string // lower-cased raw tag -> canonical form
}

// New builds a canonicalizer seeded by the master vocabulary. vocabTags
// may be empty; the built-in acronym set still applies.
func New(vocabTags []string) *Canonicalizer {
	c := &Canonicalizer{
		acronyms:  make(map[string]struct{}, len(baseAcronyms)+len(vocabTags)),
		canonical: make(map[string]string, len(vocabTags)),
	}
	for _, a := range baseAcronyms {
		c.acronyms[a] = struct{}{}
	}

	// First pass: vocabulary entries that are acronym-shaped join the
	// acronym set so the second pass normalizes against the full set.
	cleaned := make([]string, 0, len(vocabTags))
	for _, t := range vocabTags {
		t = normalize.Text(t)
		if t == "" {
			continue
		}
		cleaned = append(cleaned, t)
		if vocabAcronymShape.MatchString(t) && strings.ContainsFunc(t, unicode.IsUpper) {
			c.acronyms[strings.ToUpper(t)] = struct{}{}
		}
		if hasAmpOrDot(t) && hasLetter(t) {
			c.acronyms[strings.ToUpper(t)] = struct{}{}
		}
	}

	for _, t := range cleaned {
		c.canonical[strings.ToLower(t)] = c.Phrase(t)
	}
	return c
}

// Tag canonicalizes a raw tag. A case-insensitive vocabulary match
// replaces ad-hoc normalization; otherwise the casing rules apply.
func (c *Canonicalizer) Tag(s string) string {
	s = normalize.Text(s)
	if s == "" {
		return ""
	}
	if canon, ok := c.canonical[strings.ToLower(s)]; ok {
		return canon
	}
	return c.Phrase(s)
}

// Tags canonicalizes a tag list, dropping elements that normalize away.
func (c *Canonicalizer) Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := c.Tag(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Phrase applies the casing rules to a whole phrase without vocabulary
// lookup: tokenize on whitespace and hyphen/slash keeping separators,
// transform each token, reassemble, collapse whitespace.
func (c *Canonicalizer) Phrase(s string) string {
	s = normalize.Text(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, tok := range splitKeep(s) {
		b.WriteString(c.token(tok))
	}
	out := normalize.Text(b.String())

	// Title-casing a formula token must not survive: CO2 stays CO2.
	out = strings.ReplaceAll(out, "Co2", "CO2")
	out = strings.ReplaceAll(out, "Co₂", "CO2")
	return out
}

// Phrases applies Phrase to a list, dropping empties.
func (c *Canonicalizer) Phrases(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if n := c.Phrase(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// token transforms one token: acronyms go fully upper, intentional mixed
// casing is preserved verbatim, everything else is first-upper-rest-lower.
func (c *Canonicalizer) token(tok string) string {
	if tok == "" || tok == "-" || tok == "/" || strings.TrimSpace(tok) == "" {
		return tok
	}

	if c.isAcronym(tok) {
		up := strings.ToUpper(tok)
		if up == "CO₂" {
			return "CO2"
		}
		return up
	}

	if hasInternalUpper(tok) && strings.ContainsFunc(tok, unicode.IsLower) {
		return tok
	}

	r := []rune(tok)
	return strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
}

// isAcronym reports whether a token should render fully upper-case.
func (c *Canonicalizer) isAcronym(tok string) bool {
	if tok == "" {
		return false
	}
	if _, ok := c.acronyms[strings.ToUpper(tok)]; ok {
		return true
	}
	if codeShape.MatchString(tok) {
		return true
	}
	if allCapsShape.MatchString(tok) {
		return true
	}
	if hasAmpOrDot(tok) && hasLetter(tok) {
		return true
	}
	return false
}

// splitKeep splits on whitespace runs and on hyphen/slash characters,
// retaining the separators as their own tokens.
func splitKeep(s string) []string {
	var (
		out     []string
		current strings.Builder
		inSpace bool
	)

	flush := func() {
		if current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				flush()
				inSpace = true
			}
			// Whitespace runs collapse to a single separator token.
		case r == '-' || r == '/':
			if inSpace {
				out = append(out, " ")
				inSpace = false
			}
			flush()
			out = append(out, string(r))
		default:
			if inSpace {
				out = append(out, " ")
				inSpace = false
			}
			current.WriteRune(r)
		}
	}
	if inSpace {
		out = append(out, " ")
	}
	flush()
	return out
}

func hasInternalUpper(s string) bool {
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLetter)
}

func hasAmpOrDot(s string) bool {
	return strings.ContainsAny(s, "&.")
}
