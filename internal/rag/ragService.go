package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/ragdocs/internal/adapter/utils"
	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/data/docstore"
	"github.com/akolanti/ragdocs/internal/data/store"
	"github.com/akolanti/ragdocs/internal/domain/commonModels"
	"github.com/akolanti/ragdocs/internal/domain/ragerr"
	"github.com/akolanti/ragdocs/internal/metrics"
	"github.com/akolanti/ragdocs/internal/rag/embedding"
	"github.com/akolanti/ragdocs/internal/rag/ingest"
	"github.com/akolanti/ragdocs/internal/rag/llm"
	"github.com/akolanti/ragdocs/internal/rag/vectorDB"
	"github.com/akolanti/ragdocs/pkg/logger_i"
)

// maxRetrievalK caps a per-request k override.
const maxRetrievalK = 50

// Service is the public contract of the RAG pipelines. Handlers only talk to
// this interface; the vector store, embedder and LLM stay private so they can
// be swapped for mocks in tests.
type Service interface {
	IngestDocument(ctx context.Context, up ingest.Upload) (commonModels.IngestResult, error)
	Ask(ctx context.Context, question string, kOverride int) (commonModels.AskResult, error)
	DeleteDocument(ctx context.Context, docId string) (bool, error)
	ResetAll(ctx context.Context) (bool, error)
	ListDocuments(ctx context.Context) ([]commonModels.DocumentRecord, error)
}

type service struct {
	cfg         *config.Config
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	docs        *docstore.Store
	registry    store.DocumentStore
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(cfg *config.Config, vector vectorDB.DataProcessor, provider llm.Provider, em embedding.Embedder, docs *docstore.Store, registry store.DocumentStore) Service {
	return &service{
		cfg:         cfg,
		vectorDB:    vector,
		llmProvider: provider,
		embedder:    em,
		docs:        docs,
		registry:    registry,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IngestDocument(ctx context.Context, up ingest.Upload) (commonModels.IngestResult, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	return ingest.ProcessDocumentIngestion(ctx, up, ingest.Deps{
		Cfg:      s.cfg,
		Docs:     s.docs,
		Embedder: s.embedder,
		VectorDB: s.vectorDB,
		Registry: s.registry,
	})
}

func (s *service) Ask(ctx context.Context, question string, kOverride int) (commonModels.AskResult, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	question = strings.TrimSpace(question)
	if question == "" {
		return commonModels.AskResult{}, fmt.Errorf("%w: missing 'question'", ragerr.ErrInvalidInput)
	}

	k := s.cfg.RetrievalK
	if kOverride > 0 {
		k = kOverride
	}
	if k > maxRetrievalK {
		k = maxRetrievalK
	}
	if k < 1 {
		k = 1
	}

	processContext, cancel := context.WithTimeout(ctx, s.cfg.HTTPTimeout)
	defer cancel()

	queryVector, err := s.executeEmbeddingStep(processContext, question)
	if err != nil {
		return commonModels.AskResult{}, &ragerr.EmbeddingError{Err: err}
	}

	texts, err := s.executeVectorSearchStep(processContext, queryVector, uint64(k))
	if err != nil {
		return commonModels.AskResult{}, fmt.Errorf("vector search failed: %w", err)
	}

	// Never call the remote model with empty context.
	if len(texts) == 0 {
		log.Debug("no context retrieved, refusing without model call")
		return commonModels.AskResult{Answer: llm.RefusalAnswer, K: k, Chunks: 0}, nil
	}

	if s.cfg.CacheEnabled {
		if cached, found := s.executeCacheCheckStep(processContext, queryVector); found {
			return commonModels.AskResult{Answer: cached, K: k, Chunks: len(texts), Model: "semantic-cache"}, nil
		}
	}

	completion, err := s.executeLLMStep(processContext, question, texts)
	if err != nil {
		return commonModels.AskResult{}, err
	}

	if s.cfg.CacheEnabled {
		//background cache save
		go func() {
			saveCtx, saveCancel := context.WithTimeout(context.Background(), s.cfg.HTTPTimeout)
			defer saveCancel()
			if err := s.vectorDB.SaveToCache(saveCtx, utils.GetNewUUID(), queryVector, completion.Answer); err != nil {
				s.logger.Error("Failed to save to cache", "error", err)
			}
		}()
	}

	return commonModels.AskResult{
		Answer: completion.Answer,
		K:      k,
		Chunks: len(texts),
		Model:  completion.Model,
		Usage:  completion.Usage,
	}, nil
}

// DeleteDocument removes the document's vectors first, then its folder.
// Vector removal failure aborts before any folder change: stale vectors are
// preferred over search results pointing at a missing folder, and deletion
// must never claim success after a failed vector delete.
func (s *service) DeleteDocument(ctx context.Context, docId string) (bool, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "docId", docId)

	if err := s.vectorDB.DeleteByDoc(ctx, docId); err != nil {
		log.Error("vector deletion failed, keeping folder", "error", err)
		return false, fmt.Errorf("vector deletion failed: %w", err)
	}

	existed, err := s.docs.DeleteFolder(docId)
	if err != nil {
		return existed, err
	}

	if s.registry != nil {
		s.registry.DeleteDocument(ctx, docId)
	}
	if s.cfg.CacheEnabled {
		if err := s.vectorDB.InvalidateCache(ctx); err != nil {
			log.Error("cache invalidation failed", "error", err)
		}
	}

	return existed, nil
}

// ResetAll wipes the collection and the documents root. The returned bool
// reports only whether the collection-drop fast path succeeded; when it
// fails, a best-effort fallback deletes per registry doc_id.
func (s *service) ResetAll(ctx context.Context) (bool, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	fastPath, err := s.vectorDB.Reset(ctx)
	if !fastPath {
		log.Error("collection reset fast path failed", "error", err)
		s.resetFallback(ctx, log)
	}

	if err := s.docs.Reset(); err != nil {
		return fastPath, err
	}
	if s.registry != nil {
		if err := s.registry.Clear(ctx); err != nil {
			log.Error("registry clear failed", "error", err)
		}
	}
	if s.cfg.CacheEnabled {
		if err := s.vectorDB.InvalidateCache(ctx); err != nil {
			log.Error("cache invalidation failed", "error", err)
		}
	}

	return fastPath, nil
}

func (s *service) ListDocuments(ctx context.Context) ([]commonModels.DocumentRecord, error) {
	if s.registry == nil {
		return nil, nil
	}
	return s.registry.ListDocuments(ctx)
}
