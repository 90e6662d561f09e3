package rag_test

import (
	"context"

	"github.com/anvithk/KnowledgeAPI/internal/rag/indexer"
)

type MockIndexer struct {
	// Control fields to simulate different behaviors
	OnIndex func(ctx context.Context, source string, opts indexer.IndexOptions) (string, error)
}

func (m *MockIndexer) Index(ctx context.Context, source string, opts indexer.IndexOptions) (string, error) {
	if m.OnIndex != nil {
		return m.OnIndex(ctx, source, opts)
	}
	return "Indexed 1 chunks from " + source, nil
}

type MockResponder struct {
	OnAnswer func(ctx context.Context, question string, k int, history []string) (string, error)
}

func (m *MockResponder) Answer(ctx context.Context, question string, k int) (string, error) {
	return m.AnswerWithHistory(ctx, question, k, nil)
}

func (m *MockResponder) AnswerWithHistory(ctx context.Context, question string, k int, history []string) (string, error) {
	if m.OnAnswer != nil {
		return m.OnAnswer(ctx, question, k, history)
	}
	return "mocked answer", nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// Return dummy vectors matching chunk count
	return make([][]float32, len(chunks)), nil
}
