package embedding

import "context"

// Embedder produces L2-normalized vectors; index-side and query-side callers
// go through the same implementation so similarity scores stay comparable.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
