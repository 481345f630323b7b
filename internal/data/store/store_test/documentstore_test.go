package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/data/redisStore"
	"github.com/akolanti/ragdocs/internal/data/store"
	"github.com/akolanti/ragdocs/internal/domain/commonModels"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniredisStore(t *testing.T) *store.RedisDocumentStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestDocumentStore(redisStore.NewTestStore(client))
}

func testRecord(id string) commonModels.DocumentRecord {
	return commonModels.DocumentRecord{
		DocId:      id,
		Filename:   "notes.txt",
		Chunks:     3,
		IngestedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestRedisDocumentStore_Lifecycle(t *testing.T) {
	docStore := newMiniredisStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	t.Run("Save and List Roundtrip", func(t *testing.T) {
		if err := docStore.SaveDocument(ctx, testRecord("doc-1")); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
		if err := docStore.SaveDocument(ctx, testRecord("doc-2")); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		records, err := docStore.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("record count got %d, want 2", len(records))
		}

		seen := map[string]commonModels.DocumentRecord{}
		for _, r := range records {
			seen[r.DocId] = r
		}
		if seen["doc-1"].Chunks != 3 || seen["doc-1"].Filename != "notes.txt" {
			t.Errorf("Data mismatch! Got %+v", seen["doc-1"])
		}
	})

	t.Run("Delete Document", func(t *testing.T) {
		docStore.DeleteDocument(ctx, "doc-1")

		records, err := docStore.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		for _, r := range records {
			if r.DocId == "doc-1" {
				t.Error("doc-1 still listed after delete")
			}
		}
	})

	t.Run("Clear Empties Registry", func(t *testing.T) {
		if err := docStore.Clear(ctx); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		records, err := docStore.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("registry not empty after Clear: %d records", len(records))
		}
	})

	t.Run("Clear On Empty Registry", func(t *testing.T) {
		if err := docStore.Clear(ctx); err != nil {
			t.Errorf("Clear on empty registry failed: %v", err)
		}
	})
}

func TestInMemoryDocumentStore_Lifecycle(t *testing.T) {
	docStore := store.InitInMemoryDocumentStore()
	ctx := context.Background()

	if err := docStore.SaveDocument(ctx, testRecord("mem-1")); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	records, err := docStore.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(records) != 1 || records[0].DocId != "mem-1" {
		t.Fatalf("unexpected records: %+v", records)
	}

	docStore.DeleteDocument(ctx, "mem-1")
	records, _ = docStore.ListDocuments(ctx)
	if len(records) != 0 {
		t.Error("record still listed after delete")
	}

	_ = docStore.SaveDocument(ctx, testRecord("mem-2"))
	if err := docStore.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	records, _ = docStore.ListDocuments(ctx)
	if len(records) != 0 {
		t.Error("registry not empty after Clear")
	}
}
