package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/domain/commonModels"
	"github.com/akolanti/ragdocs/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger *logger_i.Logger
var qdrantInstance *ClientHolder
var once sync.Once

type ClientHolder struct {
	QObj           *qdrant.Client
	collectionName string
	dimension      uint64
	cacheCutoff    float32
}

// GetQdrantClient initializes the shared Qdrant client exactly once; both
// collections are created up front so the first concurrent requests never race
// on construction. Returns nil when the store is unreachable.
func GetQdrantClient(ctx context.Context, cfg *config.Config) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx, cfg)
		if res != nil {
			qdrantInstance = res
			initCacheCollection(ctx, res)
			go closeQdrant(ctx, res.QObj)
		}
	})

	return qdrantInstance
}

func newClient(ctx context.Context, cfg *config.Config) *ClientHolder {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.QdrantHost,
		Port:     cfg.QdrantPort,
		UseTLS:   cfg.QdrantUseTLS,
		PoolSize: uint(cfg.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	holder := &ClientHolder{
		QObj:           client,
		collectionName: cfg.VectorCollection,
		dimension:      uint64(cfg.EmbedDimension),
		cacheCutoff:    cfg.CacheSimilarityCutoff,
	}

	createCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if err = createCollection(createCtx, client, holder.collectionName, holder.dimension); err != nil {
		logger.Error("could not create collection: ", "collectionName", holder.collectionName, "error:", err)
		return nil
	}

	return holder
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":        chunk.Text,
				"doc_id":      chunk.Doc.Id,
				"filename":    chunk.Doc.Filename,
				"ord":         chunk.Ord,
				"page":        chunk.Page,
				"ingested_at": chunk.Doc.IngestedAt.UTC().Format(time.RFC3339),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", describeGrpc(err))
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, vector []float32, limit uint64) ([]commonModels.ChunkMatch, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, describeGrpc(err)
	}

	matches := make([]commonModels.ChunkMatch, 0, len(result))
	for _, hit := range result {
		matches = append(matches, commonModels.ChunkMatch{
			Text:     hit.Payload["text"].GetStringValue(),
			DocId:    hit.Payload["doc_id"].GetStringValue(),
			Filename: hit.Payload["filename"].GetStringValue(),
			Ord:      int(hit.Payload["ord"].GetIntegerValue()),
			Page:     int(hit.Payload["page"].GetIntegerValue()),
			Score:    hit.Score,
		})
	}

	loggr.Debug("vector search done", "hits", len(matches))
	return matches, nil
}

func (db *ClientHolder) DeleteByDoc(ctx context.Context, docId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("doc_id", docId),
			},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete for doc %s failed: %w", docId, describeGrpc(err))
	}
	return nil
}

func (db *ClientHolder) Reset(ctx context.Context) (bool, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if err := db.QObj.DeleteCollection(ctx, db.collectionName); err != nil {
		loggr.Error("collection drop failed, fallback is on the caller", "error", err)
		return false, err
	}
	if err := createCollection(ctx, db.QObj, db.collectionName, db.dimension); err != nil {
		return false, err
	}
	return true, nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

// describeGrpc keeps timeout failures distinguishable from plain store errors.
func describeGrpc(err error) error {
	if s, ok := status.FromError(err); ok && s.Code() == codes.DeadlineExceeded {
		return fmt.Errorf("qdrant deadline exceeded: %w", err)
	}
	return err
}
