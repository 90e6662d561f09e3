// Package indexer drives document ingestion: resolve the source, extract
// text, chunk, embed, merge into the vector index and record the source
// in the ledger. The index file is written before the ledger, so a crash
// between the two re-indexes (harmless) rather than silently skips.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anvithk/KnowledgeAPI/internal/adapter/utils"
	"github.com/anvithk/KnowledgeAPI/internal/config"
	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
	"github.com/anvithk/KnowledgeAPI/internal/rag/chunker"
	"github.com/anvithk/KnowledgeAPI/internal/rag/embedding"
	"github.com/anvithk/KnowledgeAPI/internal/rag/ledger"
	"github.com/anvithk/KnowledgeAPI/internal/rag/loader"
	"github.com/anvithk/KnowledgeAPI/internal/rag/vectorstore"
	"github.com/anvithk/KnowledgeAPI/pkg/logger_i"
)

type IndexOptions struct {
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
}

func (o IndexOptions) withDefaults() IndexOptions {
	if o.ChunkSize == 0 {
		o.ChunkSize = config.DefaultChunkSize
	}
	if o.ChunkOverlap == 0 {
		o.ChunkOverlap = config.DefaultChunkOverlap
	}
	if o.BatchSize <= 0 {
		o.BatchSize = config.DefaultBatchSize
	}
	return o
}

type Indexer interface {
	Index(ctx context.Context, source string, opts IndexOptions) (string, error)
}

type knowledgeIndexer struct {
	dbPath   string
	embedder embedding.Embedder
	resolver *loader.Resolver
	record   *ledger.Ledger
	logger   *logger_i.Logger
}

// NewKnowledgeIndexer loads the ledger under dbPath and returns an
// Indexer bound to it. A recovered (previously corrupt) ledger is logged
// but not fatal; affected sources simply re-index.
func NewKnowledgeIndexer(dbPath string, embedder embedding.Embedder, resolver *loader.Resolver) (Indexer, error) {
	log := logger_i.NewLogger("Knowledge Indexer")

	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is empty: %w", docModel.ErrInvalidConfiguration)
	}
	if embedder == nil {
		return nil, fmt.Errorf("no embedding client: %w", docModel.ErrNotConfigured)
	}
	if resolver == nil {
		resolver = loader.NewResolver()
	}

	record, err := ledger.Load(filepath.Join(dbPath, config.LedgerFileName))
	if err != nil {
		return nil, fmt.Errorf("loading index record: %w", err)
	}
	if record.Recovered {
		log.Warn("index record was corrupt and has been reset, previously indexed sources will re-index", "dbPath", dbPath)
	}

	return &knowledgeIndexer{
		dbPath:   dbPath,
		embedder: embedder,
		resolver: resolver,
		record:   record,
		logger:   log,
	}, nil
}

// Index ingests a file, URL or directory. Options are validated before
// anything is downloaded or written, so a bad configuration never
// mutates the knowledge base.
func (k *knowledgeIndexer) Index(ctx context.Context, source string, opts IndexOptions) (string, error) {
	log := k.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "source", source)
	opts = opts.withDefaults()

	if _, err := chunker.Split("probe", opts.ChunkSize, opts.ChunkOverlap); err != nil {
		return "", err
	}

	if !loader.IsURL(source) {
		info, err := os.Stat(source)
		if err == nil && info.IsDir() {
			return k.indexDirectory(ctx, source, opts, log)
		}
	}
	return k.indexOne(ctx, source, opts, log)
}

// indexDirectory walks the immediate entries of dir. Dot-files and
// subdirectories are skipped; one failing file does not stop the rest.
func (k *knowledgeIndexer) indexDirectory(ctx context.Context, dir string, opts IndexOptions, log *logger_i.Logger) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading directory %s: %w", dir, err)
	}

	attempted, indexed := 0, 0
	var failures []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		attempted++
		path := filepath.Join(dir, entry.Name())
		if _, err := k.indexOne(ctx, path, opts, log); err != nil {
			log.Warn("skipping file in directory", "file", entry.Name(), "error", err.Error())
			failures = append(failures, entry.Name())
			continue
		}
		indexed++
	}

	msg := fmt.Sprintf("Indexed %d of %d files from %s", indexed, attempted, dir)
	if len(failures) > 0 {
		msg += ", skipped: " + strings.Join(failures, ", ")
	}
	log.Info("directory indexing finished", "indexed", indexed, "attempted", attempted)
	return msg, nil
}

func (k *knowledgeIndexer) indexOne(ctx context.Context, source string, opts IndexOptions, log *logger_i.Logger) (string, error) {
	canonical := source
	if !loader.IsURL(source) {
		canonical = filepath.Clean(source)
	}

	lock := vectorstore.PathLock(k.dbPath)
	lock.Lock()
	defer lock.Unlock()

	if k.record.IsIndexed(canonical) {
		log.Info("source already indexed, skipping")
		return fmt.Sprintf("%s is already indexed, skipping", canonical), nil
	}

	local, canonical, cleanup, err := k.resolver.Resolve(ctx, source)
	if err != nil {
		return "", err
	}
	defer cleanup()

	docs, err := loader.LoadFile(local, canonical)
	if err != nil {
		return "", err
	}

	chunks, err := buildChunks(docs, opts)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("no indexable content in %s", canonical)
	}

	vectors, err := k.embedAll(ctx, chunks, opts.BatchSize)
	if err != nil {
		return "", err
	}

	indexPath := filepath.Join(k.dbPath, config.IndexFileName)
	idx, err := vectorstore.Load(indexPath)
	if err != nil {
		return "", err
	}
	idx, err = vectorstore.Merge(idx, chunks, vectors)
	if err != nil {
		return "", err
	}
	if err := vectorstore.Save(idx, indexPath); err != nil {
		return "", err
	}

	k.record.MarkIndexed(canonical)
	if err := k.record.Persist(); err != nil {
		return "", err
	}

	log.Info("source indexed", "chunks", len(chunks))
	return fmt.Sprintf("Indexed %d chunks from %s", len(chunks), canonical), nil
}

// buildChunks sanitizes and windows every document, numbering chunks in
// extraction order so retrieval can reconstruct document order.
func buildChunks(docs []docModel.Document, opts IndexOptions) ([]docModel.Chunk, error) {
	var chunks []docModel.Chunk
	order := 0
	for _, doc := range docs {
		pieces, err := chunker.Split(chunker.Sanitize(doc.Text), opts.ChunkSize, opts.ChunkOverlap)
		if err != nil {
			return nil, err
		}
		for _, text := range pieces {
			if strings.TrimSpace(text) == "" {
				continue
			}
			chunks = append(chunks, docModel.Chunk{
				ChunkId: utils.GetNewUUID(),
				Source:  doc.Source,
				Text:    text,
				Title:   doc.Title,
				Page:    doc.Page,
				Order:   order,
			})
			order++
		}
	}
	return chunks, nil
}

func (k *knowledgeIndexer) embedAll(ctx context.Context, chunks []docModel.Chunk, batchSize int) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-i)
		for _, c := range chunks[i:end] {
			texts = append(texts, c.Text)
		}

		batch, err := k.embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: expected %d vectors, got %d", docModel.ErrProviderUnavailable, len(texts), len(batch))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}
