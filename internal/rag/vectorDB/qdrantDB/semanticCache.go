package qdrantDB

import (
	"context"
	"time"

	"github.com/akolanti/ragdocs/internal/config"
	"github.com/qdrant/go-client/qdrant"
)

var semanticCacheDBName = "semantic-cache"

func initCacheCollection(ctx context.Context, db *ClientHolder) {
	if err := createCollection(ctx, db.QObj, semanticCacheDBName, db.dimension); err != nil {
		logger.Error("Semantic cache collection creation failed", "error", err)
	}
}

func (db *ClientHolder) GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: semanticCacheDBName,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(searchResult) == 0 {
		return "", false, err
	}

	loggr.Debug("Found cached answer", "semantic similarity score", searchResult[0].Score)
	if searchResult[0].Score < db.cacheCutoff {
		return "", false, nil
	}

	loggr.Info("semantic cache hit")
	answer := searchResult[0].Payload["answer"].GetStringValue()
	return answer, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, id string, vector []float32, answer string) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	loggr.Debug("Saving answer to cache")
	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: semanticCacheDBName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":    answer,
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
	return err
}

// InvalidateCache wipes the cache collection. Deletes and resets call this so
// a removed document can never keep answering through a cached entry.
func (db *ClientHolder) InvalidateCache(ctx context.Context) error {
	if err := db.QObj.DeleteCollection(ctx, semanticCacheDBName); err != nil {
		return err
	}
	return createCollection(ctx, db.QObj, semanticCacheDBName, db.dimension)
}
