package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anvithk/KnowledgeAPI/internal/config"
	"github.com/anvithk/KnowledgeAPI/internal/rag"
	"github.com/anvithk/KnowledgeAPI/internal/rag/indexer"
	"github.com/anvithk/KnowledgeAPI/internal/rag/loader"
	"github.com/anvithk/KnowledgeAPI/internal/rag/responder"
)

var (
	configPath string
	dbPath     string

	fileCfg config.FileConfig
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Local knowledge assistant",
	Long: `A local retrieval-augmented assistant. Index documents from files,
directories or URLs into a local vector store and ask questions
answered from the indexed material.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		config.LoadEnv()

		var err error
		fileCfg, err = config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", configPath, err)
		}
		if dbPath == "" {
			dbPath = fileCfg.DBPathOrDefault()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "assistant.yaml", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the knowledge base directory")
}

func newIndexer(ctx context.Context) (indexer.Indexer, error) {
	embedder, err := rag.NewEmbedderFor(ctx, fileCfg.Providers.Embedding)
	if err != nil {
		return nil, err
	}
	return indexer.NewKnowledgeIndexer(dbPath, embedder, loader.NewResolver())
}

func newResponder(ctx context.Context) (responder.Responder, error) {
	embedder, err := rag.NewEmbedderFor(ctx, fileCfg.Providers.Embedding)
	if err != nil {
		return nil, err
	}
	provider, err := rag.NewProviderFor(ctx, fileCfg.Providers.LLM)
	if err != nil {
		return nil, err
	}
	return responder.NewDocumentQA(dbPath, embedder, provider, nil)
}
