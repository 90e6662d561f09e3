package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/anvithk/KnowledgeAPI/internal/rag/indexer"
)

var (
	indexChunkSize int
	indexOverlap   int
	indexBatch     int
)

var indexCmd = &cobra.Command{
	Use:   "index [source...]",
	Short: "Index documents into the knowledge base",
	Long: `Index one or more sources into the local knowledge base.
A source can be a file (.pdf, .epub, .mobi, .txt, .html), a directory
of such files, or an http(s) URL. Already indexed sources are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().IntVar(&indexChunkSize, "chunk-size", 0, "tokens per chunk (default from config)")
	indexCmd.Flags().IntVar(&indexOverlap, "chunk-overlap", 0, "overlapping tokens between chunks (default from config)")
	indexCmd.Flags().IntVar(&indexBatch, "batch-size", 0, "embedding batch size (default from config)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	idx, err := newIndexer(ctx)
	if err != nil {
		return err
	}

	opts := indexer.IndexOptions{
		ChunkSize:    indexChunkSize,
		ChunkOverlap: indexOverlap,
		BatchSize:    indexBatch,
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = fileCfg.Chunking.Size
	}
	if opts.ChunkOverlap == 0 {
		opts.ChunkOverlap = fileCfg.Chunking.Overlap
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = fileCfg.Chunking.Batch
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	var failed int
	for _, source := range args {
		message, err := idx.Index(ctx, source, opts)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", red("✗"), source, err)
			continue
		}
		cmd.Printf("%s %s\n", green("✓"), message)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(args))
	}
	return nil
}
