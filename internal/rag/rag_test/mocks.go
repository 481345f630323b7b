package rag_test

import (
	"context"

	"github.com/akolanti/ragdocs/internal/domain/commonModels"
	"github.com/akolanti/ragdocs/internal/rag/llm"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnUpsertBatch     func(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	OnSearch          func(ctx context.Context, vector []float32, limit uint64) ([]commonModels.ChunkMatch, error)
	OnDeleteByDoc     func(ctx context.Context, docId string) error
	OnReset           func(ctx context.Context) (bool, error)
	OnGetCachedAnswer func(ctx context.Context, queryVector []float32) (string, bool, error)
	OnSaveToCache     func(ctx context.Context, id string, vector []float32, answer string) error
	OnInvalidateCache func(ctx context.Context) error
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) Search(ctx context.Context, vector []float32, limit uint64) ([]commonModels.ChunkMatch, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vector, limit)
	}
	return []commonModels.ChunkMatch{{Text: "default context", DocId: "doc-1", Ord: 0, Score: 0.9}}, nil
}

func (m *MockVectorDB) DeleteByDoc(ctx context.Context, docId string) error {
	if m.OnDeleteByDoc != nil {
		return m.OnDeleteByDoc(ctx, docId)
	}
	return nil
}

func (m *MockVectorDB) Reset(ctx context.Context) (bool, error) {
	if m.OnReset != nil {
		return m.OnReset(ctx)
	}
	return true, nil
}

func (m *MockVectorDB) GetCachedAnswer(ctx context.Context, v []float32) (string, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, v)
	}
	return "", false, nil
}

func (m *MockVectorDB) SaveToCache(ctx context.Context, id string, v []float32, a string) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, id, v, a)
	}
	return nil
}

func (m *MockVectorDB) InvalidateCache(ctx context.Context) error {
	if m.OnInvalidateCache != nil {
		return m.OnInvalidateCache(ctx)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, query string) ([]float32, error)
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

// MockLLM implements llm.Provider
type MockLLM struct {
	Calls      int
	OnGenerate func(ctx context.Context, question string, contexts []string) (llm.Completion, error)
}

func (m *MockLLM) Generate(ctx context.Context, q string, contexts []string) (llm.Completion, error) {
	m.Calls++
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, q, contexts)
	}
	return llm.Completion{Answer: "mocked llm response", Model: "mock-model"}, nil
}
