package retrieval

import (
	"math"
	"strings"
	"unicode"

	"github.com/scenlens/matrixer/helper"
)

// queryTerms holds the parsed form of a query text together with the
// scalar weighting parameters derived from it
type queryTerms struct {
	Phrase        string
	Words         []string
	PerWordWeight float64
}

// parseQuery lowercases and tokenizes a query text
func parseQuery(query string) queryTerms {
	phrase := strings.ToLower(strings.TrimSpace(query))
	words := tokenize(phrase)

	perWord := 0.0
	if len(words) > 0 {
		perWord = 1.0 / float64(len(words))
	}

	return queryTerms{
		Phrase:        phrase,
		Words:         words,
		PerWordWeight: perWord,
	}
}

// tokenize splits text into lowercase tokens, stripping punctuation edges
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if field != "" {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// keywordScore scores content against a query:
// exact phrase match contributes 2.0, each matched query word contributes
// 1/#queryWords, consecutive query-word pairs contribute a proximity bonus
// of 1/(tokenDistance+1), and the sum is normalized by log(contentLength+1).
func keywordScore(content string, terms queryTerms) float64 {
	if len(terms.Words) == 0 || content == "" {
		return 0
	}

	lowered := strings.ToLower(content)
	score := 0.0

	if terms.Phrase != "" && strings.Contains(lowered, terms.Phrase) {
		score += 2.0
	}

	tokens := tokenize(lowered)
	positions := tokenPositions(tokens, terms.Words)

	for _, word := range terms.Words {
		if len(positions[word]) > 0 {
			score += terms.PerWordWeight
		}
	}

	// Proximity bonus over consecutive query-word pairs
	for i := 0; i+1 < len(terms.Words); i++ {
		first := positions[terms.Words[i]]
		second := positions[terms.Words[i+1]]
		if len(first) == 0 || len(second) == 0 {
			continue
		}
		distance := minTokenDistance(first, second)
		score += 1.0 / (float64(distance) + 1)
	}

	return score / math.Log(float64(len(content))+1)
}

// tokenPositions maps each query word to its token positions in the content
func tokenPositions(tokens []string, words []string) map[string][]int {
	wanted := make(map[string]bool, len(words))
	for _, word := range words {
		wanted[word] = true
	}

	positions := make(map[string][]int, len(words))
	for i, token := range tokens {
		if wanted[token] {
			positions[token] = append(positions[token], i)
		}
	}
	return positions
}

// minTokenDistance returns the smallest absolute distance between any
// position in first and any position in second. Both must be non-empty.
func minTokenDistance(first, second []int) int {
	min := math.MaxInt
	for _, a := range first {
		for _, b := range second {
			distance := a - b
			if distance < 0 {
				distance = -distance
			}
			if distance < min {
				min = distance
			}
		}
	}
	return min
}

// contextWindow extracts a window of roughly maxTokens tokens around the
// strongest query-term match, capped at maxChars characters
func contextWindow(content string, terms queryTerms, maxTokens int, maxChars int) string {
	if content == "" || maxTokens < 1 {
		return ""
	}

	tokens := strings.Fields(content)
	if len(tokens) == 0 {
		return ""
	}

	// Strongest match: the query word with the most occurrences; its first
	// occurrence anchors the window
	anchor := 0
	bestCount := 0
	for _, word := range terms.Words {
		count := 0
		first := -1
		for i, token := range tokens {
			if strings.Contains(strings.ToLower(token), word) {
				count++
				if first < 0 {
					first = i
				}
			}
		}
		if count > bestCount {
			bestCount = count
			anchor = first
		}
	}

	start := anchor - maxTokens/2
	if start < 0 {
		start = 0
	}
	end := start + maxTokens
	if end > len(tokens) {
		end = len(tokens)
	}

	window := strings.Join(tokens[start:end], " ")
	if len(window) > maxChars {
		window = helper.Truncate(window, maxChars)
	}
	return window
}
