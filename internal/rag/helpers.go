package rag

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/akolanti/ragdocs/internal/metrics"
	"github.com/akolanti/ragdocs/internal/rag/llm"
	"github.com/akolanti/ragdocs/pkg/logger_i"
)

func (s *service) executeEmbeddingStep(ctx context.Context, question string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, question)
}

// executeVectorSearchStep returns the retrieved chunk texts in score order,
// with doc id and ordinal as the tie-break so equal-score results are stable.
// Matches whose payload text is blank are skipped rather than sent to the
// model as empty context blocks.
func (s *service) executeVectorSearchStep(ctx context.Context, vector []float32, limit uint64) ([]string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	matches, err := s.vectorDB.Search(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].DocId != matches[j].DocId {
			return matches[i].DocId < matches[j].DocId
		}
		return matches[i].Ord < matches[j].Ord
	})

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		texts = append(texts, m.Text)
	}
	return texts, nil
}

func (s *service) executeCacheCheckStep(ctx context.Context, vector []float32) (string, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("semantic_cache", time.Since(start)) }()

	cached, found, err := s.vectorDB.GetCachedAnswer(ctx, vector)
	if err != nil {
		s.logger.Error("cache lookup failed", "error", err)
		return "", false
	}
	return cached, found && cached != ""
}

func (s *service) executeLLMStep(ctx context.Context, question string, contexts []string) (llm.Completion, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_completion", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, question, contexts)
}

func (s *service) resetFallback(ctx context.Context, log *logger_i.Logger) {
	if s.registry == nil {
		return
	}

	records, err := s.registry.ListDocuments(ctx)
	if err != nil {
		log.Error("reset fallback could not list documents", "error", err)
		return
	}

	for _, record := range records {
		if err := s.vectorDB.DeleteByDoc(ctx, record.DocId); err != nil {
			log.Error("reset fallback delete failed", "docId", record.DocId, "error", err)
		}
	}
}
