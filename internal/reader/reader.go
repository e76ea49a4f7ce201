// Package reader parses delimited dataset files into raw field mappings.
// It is deliberately forgiving: scraper output has arrived with comma,
// tab, semicolon, and pipe delimiters, stray byte-order marks, and
// excerpts spanning multiple lines inside quotes.
package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/mkravets/newsarc/internal/model"
)

// Record is one raw row keyed by canonical column name. Every expected
// column is present, defaulting to the empty string.
type Record map[string]string

// urlAliases are header names accepted in place of "url" when no url
// column exists.
var urlAliases = []string{"link", "permalink", "href"}

// ReadFile parses a delimited dataset file into raw records. A missing or
// empty file yields no records and no error.
func ReadFile(path string) ([]Record, error) {
	header, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	return toRecords(header, rows), nil
}

// ReadBatch is ReadFile for new scrape output: when rows exist but no url
// column (or alias) is resolvable, it fails with a SchemaError.
func ReadBatch(path string) ([]Record, error) {
	header, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && !hasColumn(header, "url") {
		return nil, &model.SchemaError{Path: path, Column: "url"}
	}
	return toRecords(header, rows), nil
}

// readAll reads, decodes, and parses the file, returning the canonicalized
// header and all data rows.
func readAll(path string) ([]string, [][]string, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil, nil
	}

	// Strip UTF-8/UTF-16 byte-order marks and decode to UTF-8.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), decoder))
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = sniffDelimiter(decoded)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}

	header := canonicalHeader(all[0])
	return header, all[1:], nil
}

// canonicalHeader trims and lowercases header names and resolves url
// aliases. An alias is only promoted when no url column already exists.
func canonicalHeader(raw []string) []string {
	header := make([]string, len(raw))
	for i, h := range raw {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	if hasColumn(header, "url") {
		return header
	}
	for _, alias := range urlAliases {
		for i, h := range header {
			if h == alias {
				header[i] = "url"
				return header
			}
		}
	}
	return header
}

func hasColumn(header []string, name string) bool {
	for _, h := range header {
		if h == name {
			return true
		}
	}
	return false
}

// toRecords maps rows onto the header and guarantees every expected
// column is present. Short rows are padded, long rows keep their extras
// only where a header name exists for them.
func toRecords(header []string, rows [][]string) []Record {
	if len(header) == 0 {
		return nil
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record, len(model.Columns))
		for _, col := range model.Columns {
			rec[col] = ""
		}
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else if _, ok := rec[h]; !ok {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}
