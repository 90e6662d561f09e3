package rag

import (
	"context"
	"fmt"

	"github.com/anvithk/KnowledgeAPI/internal/config"
	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
	"github.com/anvithk/KnowledgeAPI/internal/rag/embedding"
	"github.com/anvithk/KnowledgeAPI/internal/rag/embedding/googleEmbedding"
	"github.com/anvithk/KnowledgeAPI/internal/rag/embedding/openaiEmbedding"
	"github.com/anvithk/KnowledgeAPI/internal/rag/llm"
	"github.com/anvithk/KnowledgeAPI/internal/rag/llm/gemini"
	"github.com/anvithk/KnowledgeAPI/internal/rag/llm/openaiLLM"
)

// NewEmbedderFor resolves an embedding provider by name. An empty name
// selects Google. The ctx governs the client lifetime; cancelling it
// tears the client down.
func NewEmbedderFor(ctx context.Context, name string) (embedding.Embedder, error) {
	switch name {
	case "", "google", "gemini":
		if c := googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleAPIKey); c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("google embedding: %w", docModel.ErrNotConfigured)
	case "openai":
		if c := openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey); c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("openai embedding: %w", docModel.ErrNotConfigured)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q: %w", name, docModel.ErrInvalidConfiguration)
	}
}

// NewProviderFor resolves a completion provider by name. An empty name
// selects Gemini.
func NewProviderFor(ctx context.Context, name string) (llm.Provider, error) {
	switch name {
	case "", "gemini", "google":
		if c := gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GoogleAPIKey); c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("gemini: %w", docModel.ErrNotConfigured)
	case "openai":
		if c := openaiLLM.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey); c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("openai: %w", docModel.ErrNotConfigured)
	default:
		return nil, fmt.Errorf("unknown llm provider %q: %w", name, docModel.ErrInvalidConfiguration)
	}
}
