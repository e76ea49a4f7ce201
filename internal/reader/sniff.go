package reader

// Candidate field delimiters, in preference order for ties.
var delimiters = []rune{',', '\t', ';', '|'}

const sniffSample = 4096

// sniffDelimiter picks the most frequent candidate delimiter outside
// quoted regions of a sample of the content, falling back to comma.
func sniffDelimiter(data []byte) rune {
	sample := data
	if len(sample) > sniffSample {
		sample = sample[:sniffSample]
	}

	counts := make(map[rune]int, len(delimiters))
	inQuotes := false
	for _, r := range string(sample) {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		for _, d := range delimiters {
			if r == d {
				counts[d]++
			}
		}
	}

	best := ','
	bestCount := 0
	for _, d := range delimiters {
		if counts[d] > bestCount {
			best = d
			bestCount = counts[d]
		}
	}
	return best
}
