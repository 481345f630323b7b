package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/data/redisStore"
	"github.com/akolanti/ragdocs/internal/domain/commonModels"
	"github.com/akolanti/ragdocs/pkg/logger_i"
)

const docKeyPrefix = "doc:"

// DocumentStore is the registry of ingested documents. It is best-effort
// bookkeeping: the filesystem stays the source of truth for existence, the
// registry backs listing and the reset fallback.
type DocumentStore interface {
	SaveDocument(ctx context.Context, rec commonModels.DocumentRecord) error
	DeleteDocument(ctx context.Context, docId string)
	ListDocuments(ctx context.Context) ([]commonModels.DocumentRecord, error)
	Clear(ctx context.Context) error
}

type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisDocumentStore returns nil when Redis is offline; main falls back to
// the in-memory registry.
func GetRedisDocumentStore(ctx context.Context, cfg *config.Config) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, cfg, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, rec commonModels.DocumentRecord) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc id", rec.DocId)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	// Registry entries live as long as the document; no TTL.
	err = s.store.Set(ctx, docKeyPrefix+rec.DocId, data, 0)
	if err == nil {
		log.Debug("Saved document record to Redis")
	}
	return err
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, docId string) {
	if err := s.store.Del(ctx, docKeyPrefix+docId); err != nil {
		s.logger.Error("Error deleting document record from Redis", "docId", docId, "error", err)
		return
	}
	s.logger.Debug("Document record deleted from Redis", "docId", docId)
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context) ([]commonModels.DocumentRecord, error) {
	keys, err := s.store.Keys(ctx, docKeyPrefix+"*")
	if err != nil {
		return nil, err
	}

	records := make([]commonModels.DocumentRecord, 0, len(keys))
	for _, key := range keys {
		val, err := s.store.Get(ctx, key)
		if s.store.IsNil(err) {
			continue //deleted between scan and get
		} else if err != nil {
			return nil, err
		}

		var rec commonModels.DocumentRecord
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			s.logger.Error("Corrupt document record", "key", key, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *RedisDocumentStore) Clear(ctx context.Context) error {
	keys, err := s.store.Keys(ctx, docKeyPrefix+"*")
	if err != nil {
		return err
	}
	return s.store.Del(ctx, keys...)
}

// TestDocumentStore wires a miniredis-backed store in tests.
func TestDocumentStore(inner *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("test document store"),
	}
}
