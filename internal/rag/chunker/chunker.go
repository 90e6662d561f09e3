package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

//token based splitter
//we count whitespace-delimited tokens rather than characters so the chunk
//budget tracks the embedding provider's input limits

var sanitizer = regexp.MustCompile(`[^\w\s]`)

// Split windows text into chunks of at most chunkSize tokens, consecutive
// chunks sharing exactly chunkOverlap tokens (the final chunk may be short).
// Each call is independent; the input is never mutated.
func Split(text string, chunkSize, chunkOverlap int) ([]string, error) {
	if chunkSize <= chunkOverlap {
		return nil, fmt.Errorf("chunk size [%d] must be larger than chunk overlap [%d]: %w",
			chunkSize, chunkOverlap, docModel.ErrInvalidConfiguration)
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size [%d] must be positive: %w", chunkSize, docModel.ErrInvalidConfiguration)
	}

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	step := chunkSize - chunkOverlap
	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, strings.Join(tokens[start:end], " "))
		if end == len(tokens) {
			break
		}
	}
	return chunks, nil
}

// TokenCount reports the whitespace-delimited token count of text. The
// same counting rule governs chunk windows, prompt truncation and memory
// budgets, so the budgets compose.
func TokenCount(text string) int {
	return len(strings.Fields(text))
}

// Sanitize strips punctuation and quote characters before embedding.
// This is a retrieval-quality normalization and is deliberately lossy -
// the indexed text is not a byte-exact copy of the source.
func Sanitize(text string) string {
	return sanitizer.ReplaceAllString(text, "")
}
