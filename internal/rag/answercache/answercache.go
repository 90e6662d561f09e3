// Package answercache is a semantic answer cache backed by Qdrant.
// Questions whose embeddings are near enough to a cached question reuse
// the cached answer instead of a new retrieval and completion round.
// The cache is optional; a missing Qdrant yields a nil Cache and every
// method on a nil Cache is a safe miss.
package answercache

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/anvithk/KnowledgeAPI/internal/config"
	"github.com/anvithk/KnowledgeAPI/pkg/logger_i"
)

var logger *logger_i.Logger
var instance *Cache
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type Cache struct {
	client *qdrant.Client
}

func GetCache(ctx context.Context) *Cache {
	once.Do(func() {
		logger = logger_i.NewLogger("Answer Cache")
		client := newClient(ctx)
		if client != nil {
			instance = &Cache{client: client}
			go closeClient(ctx, client)
		}
	})
	return instance
}

func newClient(ctx context.Context) *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}
	if host == "" {
		logger.Info("No Qdrant host configured, answer cache disabled")
		return nil
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate Qdrant client, answer cache disabled", "error:", err)
		return nil
	}

	if err := ensureCollection(ctx, client); err != nil {
		logger.Error("could not create cache collection, answer cache disabled", "error:", err)
		return nil
	}
	return client
}

func ensureCollection(ctx context.Context, client *qdrant.Client) error {
	exists, err := client.CollectionExists(ctx, config.AnswerCacheCollection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: config.AnswerCacheCollection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func closeClient(ctx context.Context, client *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down answer cache")
	if err := client.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
}

// Get returns a cached answer when the nearest cached question clears
// the similarity cutoff. Errors degrade to a miss.
func (c *Cache) Get(ctx context.Context, queryVector []float32) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	searchResult, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.AnswerCacheCollection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Cache query failed", "error", err)
		return "", false
	}
	if len(searchResult) == 0 || searchResult[0].Score < config.CacheSimilarityCutoff {
		return "", false
	}

	loggr.Info("answer cache hit", "score", searchResult[0].Score)
	return searchResult[0].Payload["answer"].GetStringValue(), true
}

// Save records an answer under the question's embedding. Failures are
// logged and swallowed; caching never fails a request.
func (c *Cache) Save(ctx context.Context, id string, vector []float32, answer string) {
	if c == nil || c.client == nil {
		return
	}
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.AnswerCacheCollection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":    answer,
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
}
