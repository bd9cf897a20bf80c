package pipeline

import (
	"fmt"
	"strings"
)

// SentenceChunker creates a chunker that packs whole sentences into chunks
// of at most maxChars characters
func SentenceChunker(maxChars int) ChunkFunc {
	return func(text string) ([]string, error) {
		if maxChars <= 0 {
			return nil, fmt.Errorf("max chars per chunk must be positive")
		}

		if strings.TrimSpace(text) == "" {
			return []string{}, nil
		}

		text = strings.ReplaceAll(text, "! ", "!|")
		text = strings.ReplaceAll(text, "? ", "?|")
		text = strings.ReplaceAll(text, ". ", ".|")

		var sentences []string
		for _, s := range strings.Split(text, "|") {
			s = strings.TrimSpace(s)
			if s != "" {
				sentences = append(sentences, s)
			}
		}

		var chunks []string
		var current []string
		currentLength := 0

		for _, sentence := range sentences {
			if currentLength > 0 && currentLength+len(sentence) > maxChars {
				chunks = append(chunks, strings.Join(current, " "))
				current = nil
				currentLength = 0
			}
			current = append(current, sentence)
			currentLength += len(sentence) + 1
		}

		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
		}

		return chunks, nil
	}
}

// ParagraphChunker creates a chunker that splits on blank lines
func ParagraphChunker() ChunkFunc {
	return func(text string) ([]string, error) {
		var chunks []string
		for _, para := range strings.Split(text, "\n\n") {
			para = strings.TrimSpace(para)
			if para != "" {
				chunks = append(chunks, para)
			}
		}
		return chunks, nil
	}
}
