package vectorDB

import (
	"context"

	"github.com/akolanti/ragdocs/internal/domain/commonModels"
)

// DataProcessor is the contract the RAG service holds against the vector
// store. Every entry's payload carries its doc_id so deletion by document
// never has to enumerate the filesystem.
type DataProcessor interface {
	UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, limit uint64) ([]commonModels.ChunkMatch, error)
	DeleteByDoc(ctx context.Context, docId string) error

	// Reset drops and recreates the whole collection. The bool reports
	// whether that fast path succeeded; callers own any fallback.
	Reset(ctx context.Context) (bool, error)

	// Semantic answer cache, kept in a side collection.
	GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error)
	SaveToCache(ctx context.Context, id string, vector []float32, answer string) error
	InvalidateCache(ctx context.Context) error
}
