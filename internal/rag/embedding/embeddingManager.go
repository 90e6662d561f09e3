package embedding

import "context"

// Embedder produces vectors for text. GetEmbedding serves the query
// path; BatchEmbedding serves indexing, where chunks arrive in
// configurable batches. Both return vectors in input order.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
