package hotel

import (
	_ "embed"
	"sort"
	"strings"
	"unicode"
)

//go:embed manual.txt
var manualText string

const (
	passageSize    = 500
	passageOverlap = 100
	topPassages    = 2
)

// Manual answers free-form questions about hotel policy by scoring passages
// of the house manual against the query's terms and returning the best
// matches.
type Manual struct {
	passages []string
}

// NewManual splits the embedded manual into overlapping passages ready for
// searching.
func NewManual() *Manual {
	return &Manual{passages: splitPassages(manualText)}
}

// Search returns the top matching passages for a query, best first. An empty
// result means nothing in the manual mentions the query's terms.
func (m *Manual) Search(query string) []string {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		passage string
		score   int
		index   int
	}

	var matches []scored
	for i, passage := range m.passages {
		words := map[string]bool{}
		for _, w := range tokenize(passage) {
			words[w] = true
		}

		score := 0
		for _, term := range terms {
			if words[term] {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{passage: passage, score: score, index: i})
		}
	}

	// Stable order for equal scores keeps results deterministic.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > topPassages {
		matches = matches[:topPassages]
	}

	results := make([]string, 0, len(matches))
	for _, match := range matches {
		results = append(results, match.passage)
	}
	return results
}

func splitPassages(text string) []string {
	text = strings.TrimSpace(text)

	var passages []string
	for start := 0; start < len(text); start += passageSize - passageOverlap {
		end := start + passageSize
		if end > len(text) {
			end = len(text)
		}
		passage := strings.TrimSpace(text[start:end])
		if passage != "" {
			passages = append(passages, passage)
		}
		if end == len(text) {
			break
		}
	}
	return passages
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	var terms []string
	for _, field := range fields {
		if len(field) > 2 {
			terms = append(terms, field)
		}
	}
	return terms
}
