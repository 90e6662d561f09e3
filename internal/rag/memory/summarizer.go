package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/anvithk/KnowledgeAPI/internal/rag/chunker"
	"github.com/anvithk/KnowledgeAPI/internal/rag/llm"
)

// FrequencySummarizer is an extractive fallback that needs no provider:
// it scores sentences by the frequency of their terms and keeps the
// highest-scoring ones, in original order, within the budget.
type FrequencySummarizer struct{}

func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{}
}

func (s *FrequencySummarizer) Summarize(history string, newTurn string, budget int) (string, error) {
	full := strings.TrimSpace(history + "\n" + newTurn)
	if chunker.TokenCount(full) <= budget {
		return full, nil
	}

	sentences := splitSentences(full)
	if len(sentences) == 0 {
		return "", nil
	}

	freq := make(map[string]int)
	for _, sentence := range sentences {
		for _, word := range strings.Fields(strings.ToLower(chunker.Sanitize(sentence))) {
			freq[word]++
		}
	}

	type scored struct {
		pos   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, sentence := range sentences {
		words := strings.Fields(strings.ToLower(chunker.Sanitize(sentence)))
		total := 0
		for _, w := range words {
			total += freq[w]
		}
		score := 0.0
		if len(words) > 0 {
			score = float64(total) / float64(len(words))
		}
		ranked[i] = scored{pos: i, score: score}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	// Take best sentences until the budget runs out, then restore order.
	used := 0
	keep := make([]int, 0, len(ranked))
	for _, r := range ranked {
		cost := chunker.TokenCount(sentences[r.pos])
		if used+cost > budget {
			continue
		}
		keep = append(keep, r.pos)
		used += cost
	}
	sort.Ints(keep)

	parts := make([]string, 0, len(keep))
	for _, pos := range keep {
		parts = append(parts, sentences[pos])
	}
	return strings.Join(parts, " "), nil
}

func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// LLMSummarizer asks the completion provider for an abstractive summary.
type LLMSummarizer struct {
	provider llm.Provider
}

func NewLLMSummarizer(provider llm.Provider) *LLMSummarizer {
	return &LLMSummarizer{provider: provider}
}

func (s *LLMSummarizer) Summarize(history string, newTurn string, budget int) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following conversation in at most %d words, keeping names, facts and open questions:\n\n%s\n%s",
		budget, history, newTurn)
	return s.provider.Complete(context.Background(), prompt)
}
