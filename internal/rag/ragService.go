package rag

import (
	"context"
	"os"
	"time"

	"github.com/anvithk/KnowledgeAPI/internal/adapter/utils"
	"github.com/anvithk/KnowledgeAPI/internal/config"
	"github.com/anvithk/KnowledgeAPI/internal/domain/jobModel"
	"github.com/anvithk/KnowledgeAPI/internal/metrics"
	"github.com/anvithk/KnowledgeAPI/internal/rag/answercache"
	"github.com/anvithk/KnowledgeAPI/internal/rag/chunker"
	"github.com/anvithk/KnowledgeAPI/internal/rag/embedding"
	"github.com/anvithk/KnowledgeAPI/internal/rag/indexer"
	"github.com/anvithk/KnowledgeAPI/internal/rag/responder"
	"github.com/anvithk/KnowledgeAPI/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - Real work happens down low bruh
  - This is the PUBLIC contract.
  - It defines the "behavior" (what the worker can do).
  - We expose this to keep the worker decoupled from our specific logic.

2. service (Private Struct):
  - down low stuff
  - This is the PRIVATE implementation.
  - It holds the "state" (the indexer, responder and provider clients).
  - It is lowercase to prevent external packages from accessing our
    internal dependencies directly.

3. Pointer Receiver (*service):
  - By defining methods on (*service), the struct IMPLICITLY satisfies
    the Service interface.
  - if it quacks like a duck, -it's a duck (Duck Typing)

4. Dependency Injection (NewService):
  - This constructor links the private struct to the public interface.
  - It allows us to swap real providers for mocks during testing without
    changing the worker's code.
*/

// Service Worker will only call this service - it doesn't need to know the llm or the index
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job, messageHistory []string) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	indexer   indexer.Indexer
	responder responder.Responder
	cache     *answercache.Cache
	embedder  embedding.Embedder
	logger    *logger_i.Logger
}

// NewService constructor. cache may be nil; lookups then always miss.
func NewService(idx indexer.Indexer, qa responder.Responder, cache *answercache.Cache, em embedding.Embedder) Service {
	return &service{
		indexer:   idx,
		responder: qa,
		cache:     cache,
		embedder:  em,
		logger:    logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) ProcessRequest(ctx context.Context, jobt jobModel.Job, messageHistory []string) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	jobt.CurrentStep = jobModel.RAGCall

	// Embedding the question doubles as the cache key
	questionVector, err := s.executeEmbeddingStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "EMBEDDING_FAILURE", true)
	}

	// Cache Check
	cachedAnswer, found := s.executeCacheCheckStep(ctx, inMethodLogger, &jobt, questionVector)
	if found {
		return returnOutput(jobt, cachedAnswer)
	}

	// Retrieval + LLM Generation
	answer, err := s.executeAnswerStep(processContext, inMethodLogger, &jobt, messageHistory)
	if err != nil {
		return s.jobError(jobt, err, "ANSWER_FAILURE", true)
	}

	//Background Cache Save
	go s.cache.Save(ctx, utils.GetNewUUID(), questionVector, answer)

	return returnOutput(jobt, answer)
}

// IngestDocument indexes the job's source into the knowledge base.
// Uploaded files were spooled to a temp path by the handler; that temp
// file is removed here whatever the outcome.
func (s *service) IngestDocument(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("Document_ingestion", time.Since(start)) }()

	if jobt.JobPayload.IngestUpload {
		defer func() {
			if err := os.Remove(jobt.JobPayload.IngestPath); err != nil {
				inMethodLogger.Warn("failed removing upload temp file", "error", err.Error())
			}
		}()
	}

	jobt.CurrentStep = jobModel.IngestProcessing
	message, err := s.indexer.Index(ctx, jobt.JobPayload.IngestPath, indexer.IndexOptions{})
	if err != nil {
		return s.jobError(jobt, err, "INGESTION_FAILURE", true)
	}

	jobt.Status = jobModel.JobStatusComplete
	return returnOutput(jobt, message)
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]float32, error) {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, chunker.Sanitize(job.JobPayload.Question))
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, emb []float32) (string, bool) {
	*job = logOutput(*job, jobModel.CacheCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	return s.cache.Get(ctx, emb)
}

func (s *service) executeAnswerStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, history []string) (string, error) {
	*job = logOutput(*job, jobModel.RetrievalCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval_and_generation", time.Since(start)) }()

	return s.responder.AnswerWithHistory(ctx, job.JobPayload.Question, config.DefaultTopK, history)
}
