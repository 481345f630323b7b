package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/customHttpClient"
	"github.com/akolanti/ragdocs/internal/domain/ragerr"
	"github.com/akolanti/ragdocs/internal/rag/embedding"
	"github.com/akolanti/ragdocs/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	api     openai.Client
	model   string
	hasAuth bool
}

// GetOpenAIEmbedder returns the process-wide embeddings client, built once.
// The provider is any OpenAI-compatible embeddings endpoint.
func GetOpenAIEmbedder(cfg *config.Config) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		embeddingClient = &client{
			api: openai.NewClient(
				option.WithAPIKey(cfg.EmbedAPIKey),
				option.WithBaseURL(strings.TrimSuffix(cfg.EmbedBaseURL, "/")+"/"),
				option.WithHTTPClient(customHttpClient.SharedClient()),
				option.WithRequestTimeout(cfg.HTTPTimeout),
				option.WithMaxRetries(0),
			),
			model:   cfg.EmbedModel,
			hasAuth: cfg.EmbedAPIKey != "",
		}
		logger.Info("Embedding client created", "model", cfg.EmbedModel)
	})

	return embeddingClient
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return c.embed(ctx, chunks)
}

func (c *client) embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if !c.hasAuth {
		return nil, fmt.Errorf("%w: EMBED_API_KEY", ragerr.ErrMissingConfig)
	}
	if len(inputs) == 0 {
		return nil, errors.New("nothing to embed")
	}

	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: inputs},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: embeddings", ragerr.ErrUpstreamTimeout)
		}
		logger.Error("Error getting embeddings", "error", err)
		return nil, err
	}
	if len(res.Data) != len(inputs) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(inputs), len(res.Data))
	}

	vectors := make([][]float32, len(inputs))
	for _, d := range res.Data {
		if d.Index < 0 || d.Index >= int64(len(inputs)) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = l2normalize(toFloat32(d.Embedding))
	}
	return vectors, nil
}

func toFloat32(v64 []float64) []float32 {
	v := make([]float32, len(v64))
	for i := range v64 {
		v[i] = float32(v64[i])
	}
	return v
}

// l2normalize scales the vector to unit length so cosine similarity stays
// numerically stable across index time and query time.
func l2normalize(v []float32) []float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
	return v
}
