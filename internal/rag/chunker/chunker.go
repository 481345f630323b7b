// Package chunker splits extracted text into bounded, overlapping chunks.
// Boundaries are a pure function of the input and the size/overlap parameters,
// so re-chunking identical text always yields identical chunks.
package chunker

import "strings"

// Split cuts text into chunks of at most limit runes. Consecutive chunks
// within the same text share exactly overlap runes; the final chunk may be
// shorter. Whitespace-only chunks are dropped, and whitespace-only input
// yields no chunks at all.
func Split(text string, limit int, overlap int) []string {
	if limit <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= limit {
		overlap = limit - 1
	}

	runes := []rune(text)

	// If text is already small enough, just return it
	if len(runes) <= limit {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	step := limit - overlap
	for start := 0; start < len(runes); start += step {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[start:end])
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
