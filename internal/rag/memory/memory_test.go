package memory

import (
	"strings"
	"testing"

	"github.com/anvithk/KnowledgeAPI/internal/rag/chunker"
)

func TestHistoryKeepsTurnOrder(t *testing.T) {
	m := NewConversationMemory(1000, nil)
	m.AddTurn("first question", "first answer")
	m.AddTurn("second question", "second answer")

	history := m.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if !strings.Contains(history[0], "first question") || !strings.Contains(history[1], "second question") {
		t.Errorf("history out of order: %v", history)
	}
}

func TestOverflowFoldsIntoSummary(t *testing.T) {
	m := NewConversationMemory(40, nil)

	long := strings.Repeat("filler word ", 15)
	m.AddTurn("what is the capital of France", "Paris is the capital of France "+long)
	m.AddTurn("and of Germany", "Berlin is the capital of Germany "+long)
	m.AddTurn("and of Spain", "Madrid is the capital of Spain")

	history := m.History()
	if len(history) == 0 {
		t.Fatal("history emptied instead of summarized")
	}

	// The newest turn always survives verbatim.
	last := history[len(history)-1]
	if !strings.Contains(last, "Madrid") {
		t.Errorf("newest turn lost: %v", history)
	}

	total := chunker.TokenCount(strings.Join(history, " "))
	if total > 80 {
		t.Errorf("history not bounded, %d tokens retained", total)
	}
}

func TestReset(t *testing.T) {
	m := NewConversationMemory(100, nil)
	m.AddTurn("q", "a")
	m.Reset()
	if len(m.History()) != 0 {
		t.Error("history should be empty after Reset")
	}
}

func TestFrequencySummarizerUnderBudget(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize("short history", "short turn", 100)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "short history") || !strings.Contains(out, "short turn") {
		t.Errorf("under-budget input should pass through, got %q", out)
	}
}

func TestFrequencySummarizerRespectsBudget(t *testing.T) {
	s := NewFrequencySummarizer()

	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("The database migration plan covers schema changes. ")
		sb.WriteString("Unrelated aside about lunch options today. ")
	}

	budget := 20
	out, err := s.Summarize(sb.String(), "", budget)
	if err != nil {
		t.Fatal(err)
	}
	if got := chunker.TokenCount(out); got > budget {
		t.Errorf("summary has %d tokens, budget was %d", got, budget)
	}
	if out == "" {
		t.Error("expected a non-empty summary")
	}
}
