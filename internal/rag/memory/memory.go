// Package memory keeps the rolling conversation state for a chat session.
// History is bounded by a token budget; when it overflows, the oldest
// turns are folded into a summary instead of being dropped outright.
package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/anvithk/KnowledgeAPI/internal/rag/chunker"
)

type Turn struct {
	Question string
	Answer   string
}

func (t Turn) String() string {
	return fmt.Sprintf("Question: %s\nAnswer: %s", t.Question, t.Answer)
}

// Summarizer condenses overflowing history. budget caps the token count
// of the returned summary.
type Summarizer interface {
	Summarize(history string, newTurn string, budget int) (string, error)
}

type ConversationMemory struct {
	mu         sync.Mutex
	turns      []Turn
	summary    string
	budget     int
	summarizer Summarizer
}

// NewConversationMemory bounds history at budget tokens. A nil summarizer
// falls back to the frequency summarizer.
func NewConversationMemory(budget int, summarizer Summarizer) *ConversationMemory {
	if summarizer == nil {
		summarizer = NewFrequencySummarizer()
	}
	return &ConversationMemory{budget: budget, summarizer: summarizer}
}

// AddTurn records a question/answer pair, folding the oldest turns into
// the summary once the history exceeds the budget. Summarization failures
// degrade to dropping the oldest turn so memory never blocks answering.
func (m *ConversationMemory) AddTurn(question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, Turn{Question: question, Answer: answer})

	for m.tokenCount() > m.budget && len(m.turns) > 1 {
		oldest := m.turns[0]
		m.turns = m.turns[1:]

		summary, err := m.summarizer.Summarize(m.summary, oldest.String(), m.budget/4)
		if err != nil {
			continue
		}
		m.summary = summary
	}
}

// History returns the summary (when present) followed by the retained
// turns, oldest first.
func (m *ConversationMemory) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	if m.summary != "" {
		out = append(out, "Earlier conversation summary: "+m.summary)
	}
	for _, t := range m.turns {
		out = append(out, t.String())
	}
	return out
}

func (m *ConversationMemory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
	m.summary = ""
}

func (m *ConversationMemory) tokenCount() int {
	var sb strings.Builder
	sb.WriteString(m.summary)
	for _, t := range m.turns {
		sb.WriteString(" ")
		sb.WriteString(t.String())
	}
	return chunker.TokenCount(sb.String())
}
