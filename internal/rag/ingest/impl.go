package ingest

import (
	"context"

	"github.com/akolanti/ragdocs/internal/adapter/utils"
	"github.com/akolanti/ragdocs/internal/domain/commonModels"
	"github.com/akolanti/ragdocs/internal/domain/ragerr"
	"github.com/akolanti/ragdocs/internal/rag/chunker"
	"github.com/akolanti/ragdocs/internal/rag/embedding"
	"github.com/akolanti/ragdocs/internal/rag/extract"
	"github.com/akolanti/ragdocs/internal/rag/vectorDB"
)

const upsertBatchSize = 100

// PrepareChunks splits every segment and annotates the resulting chunks.
// Ordinals are 0-based over the whole document and stable across runs; they
// double as the deterministic tie-break in retrieval ordering.
func PrepareChunks(segments []extract.Segment, doc commonModels.Document, size int, overlap int) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk

	ord := 0
	for _, segment := range segments {
		for _, text := range chunker.Split(segment.Content, size, overlap) {
			allChunks = append(allChunks, commonModels.DocChunk{
				Doc:     doc,
				ChunkId: utils.GetNewUUID(),
				Text:    text,
				Ord:     ord,
				Page:    segment.Page,
			})
			ord++
		}
	}

	return allChunks
}

// BatchIngest embeds and upserts chunks in bounded batches. A failed batch
// fails the whole ingestion; earlier batches stay committed (no rollback).
func BatchIngest(ctx context.Context, chunks []commonModels.DocChunk, vectorDatabase vectorDB.DataProcessor, embedder embedding.Embedder) error {
	log := getLogger()

	for i := 0; i < len(chunks); i += upsertBatchSize {
		end := i + upsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		currentBatch := chunks[i:end]
		texts := make([]string, len(currentBatch))
		for j, c := range currentBatch {
			texts[j] = c.Text
		}

		log.Debug("Starting embedding call", "batch size", len(currentBatch))
		vectors, err := embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return &ragerr.EmbeddingError{Err: err}
		}

		if err := vectorDatabase.UpsertBatch(ctx, currentBatch, vectors); err != nil {
			return &ragerr.UpsertError{Err: err}
		}
	}

	return nil
}
