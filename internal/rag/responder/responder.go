// Package responder answers questions against the indexed knowledge.
// Retrieval uses MMR re-ranking so the context window carries diverse
// evidence instead of near-duplicate chunks.
package responder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anvithk/KnowledgeAPI/internal/config"
	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
	"github.com/anvithk/KnowledgeAPI/internal/rag/chunker"
	"github.com/anvithk/KnowledgeAPI/internal/rag/embedding"
	"github.com/anvithk/KnowledgeAPI/internal/rag/llm"
	"github.com/anvithk/KnowledgeAPI/internal/rag/memory"
	"github.com/anvithk/KnowledgeAPI/internal/rag/vectorstore"
	"github.com/anvithk/KnowledgeAPI/pkg/logger_i"
)

const answerTemplate = `Use only the context below to answer. If the context does not contain the answer, say you do not know. Answer in the same language as the question. Cite sources as [source, page].

%sContext:
%s

Question: %s`

type Responder interface {
	// Answer uses the responder's own conversation memory.
	Answer(ctx context.Context, question string, k int) (string, error)
	// AnswerWithHistory answers against caller-supplied history and
	// leaves the internal memory untouched. Serves chat sessions whose
	// history lives in an external store.
	AnswerWithHistory(ctx context.Context, question string, k int, history []string) (string, error)
}

type documentQA struct {
	dbPath   string
	embedder embedding.Embedder
	provider llm.Provider
	history  *memory.ConversationMemory
	logger   *logger_i.Logger
}

func NewDocumentQA(dbPath string, embedder embedding.Embedder, provider llm.Provider, history *memory.ConversationMemory) (Responder, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is empty: %w", docModel.ErrInvalidConfiguration)
	}
	if embedder == nil {
		return nil, fmt.Errorf("no embedding client: %w", docModel.ErrNotConfigured)
	}
	if provider == nil {
		return nil, fmt.Errorf("no completion client: %w", docModel.ErrNotConfigured)
	}
	if history == nil {
		history = memory.NewConversationMemory(config.MemoryTokenBudget, nil)
	}
	return &documentQA{
		dbPath:   dbPath,
		embedder: embedder,
		provider: provider,
		history:  history,
		logger:   logger_i.NewLogger("Document QA"),
	}, nil
}

// Answer retrieves the k best chunks for question and asks the provider
// for a grounded reply. The index is loaded fresh per call under the
// read lock, so answers always see the latest completed indexing run.
func (d *documentQA) Answer(ctx context.Context, question string, k int) (string, error) {
	answer, err := d.answer(ctx, question, k, d.history.History())
	if err != nil {
		return "", err
	}
	d.history.AddTurn(question, answer)
	return fmt.Sprintf("Question: %s\n\nAnswer: %s", question, answer), nil
}

func (d *documentQA) AnswerWithHistory(ctx context.Context, question string, k int, history []string) (string, error) {
	return d.answer(ctx, question, k, history)
}

func (d *documentQA) answer(ctx context.Context, question string, k int, history []string) (string, error) {
	log := d.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if k <= 0 {
		k = config.DefaultTopK
	}

	lock := vectorstore.PathLock(d.dbPath)
	lock.RLock()
	idx, err := vectorstore.Load(filepath.Join(d.dbPath, config.IndexFileName))
	lock.RUnlock()
	if err != nil {
		return "", err
	}
	if idx == nil || len(idx.Chunks) == 0 {
		return "", fmt.Errorf("nothing indexed under %s: %w", d.dbPath, docModel.ErrIndexNotFound)
	}

	queryVec, err := d.embedder.GetEmbedding(ctx, chunker.Sanitize(question))
	if err != nil {
		return "", err
	}

	results := idx.SearchMMR(queryVec, k, k*config.MMRFetchFactor, config.MMRLambda)
	log.Debug("retrieved context", "results", len(results))

	prompt := buildPrompt(question, results, history)

	return d.provider.Complete(ctx, prompt)
}

// buildPrompt assembles history, retrieved snippets and the question.
// When the whole prompt would exceed the token budget, history is
// dropped oldest first; retrieved context is never sacrificed.
func buildPrompt(question string, results []docModel.SearchResult, history []string) string {
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		ref := r.Chunk.Source
		if r.Chunk.Page > 0 {
			ref = fmt.Sprintf("%s, page %d", r.Chunk.Source, r.Chunk.Page)
		}
		snippets = append(snippets, fmt.Sprintf("[%s]\n%s", ref, r.Chunk.Text))
	}
	contextBlock := strings.Join(snippets, "\n\n")

	assemble := func(hist []string) string {
		historyBlock := ""
		if len(hist) > 0 {
			historyBlock = "Conversation so far:\n" + strings.Join(hist, "\n") + "\n\n"
		}
		return fmt.Sprintf(answerTemplate, historyBlock, contextBlock, question)
	}

	prompt := assemble(history)
	for len(history) > 0 && chunker.TokenCount(prompt) > config.PromptTokenBudget {
		history = history[1:]
		prompt = assemble(history)
	}
	return prompt
}
