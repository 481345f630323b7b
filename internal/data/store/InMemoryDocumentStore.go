package store

import (
	"context"
	"sync"

	"github.com/akolanti/ragdocs/internal/domain/commonModels"
)

// InMemoryDocumentStore is the fallback registry used when Redis is offline.
// Contents are lost on restart; listing then reflects only this process.
type InMemoryDocumentStore struct {
	mu      sync.RWMutex
	records map[string]commonModels.DocumentRecord
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		records: make(map[string]commonModels.DocumentRecord),
	}
}

func (s *InMemoryDocumentStore) SaveDocument(_ context.Context, rec commonModels.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.DocId] = rec
	return nil
}

func (s *InMemoryDocumentStore) DeleteDocument(_ context.Context, docId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, docId)
}

func (s *InMemoryDocumentStore) ListDocuments(_ context.Context) ([]commonModels.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]commonModels.DocumentRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	return records, nil
}

func (s *InMemoryDocumentStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]commonModels.DocumentRecord)
	return nil
}
