package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/customHttpClient"
	"github.com/akolanti/ragdocs/internal/domain/commonModels"
	"github.com/akolanti/ragdocs/internal/domain/ragerr"
	"github.com/akolanti/ragdocs/internal/rag/llm"
	"github.com/akolanti/ragdocs/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// The system instruction pins the assistant to the supplied context and to the
// exact refusal sentence when the context is insufficient.
const systemInstruction = "You are a strict RAG assistant. Use only the provided context to answer. " +
	"If the answer is not present in the context, reply exactly: " + llm.RefusalAnswer

var logger *logger_i.Logger
var once sync.Once
var openRouterClient *llmClient

type llmClient struct {
	api     openai.Client
	model   string
	hasAuth bool
}

// GetOpenRouterClient builds the process-wide chat completion client once.
// OpenRouter speaks the OpenAI chat-completions protocol, so the same client
// works against any compatible base URL.
func GetOpenRouterClient(cfg *config.Config) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openrouter")
		openRouterClient = &llmClient{
			api: openai.NewClient(
				option.WithAPIKey(cfg.OpenRouterAPIKey),
				option.WithBaseURL(strings.TrimSuffix(cfg.OpenRouterBaseURL, "/")+"/"),
				option.WithHTTPClient(customHttpClient.SharedClient()),
				option.WithRequestTimeout(cfg.HTTPTimeout),
				option.WithMaxRetries(0),
				option.WithHeader("HTTP-Referer", cfg.HTTPReferer),
				option.WithHeader("X-Title", cfg.HTTPTitle),
			),
			model:   cfg.OpenRouterModel,
			hasAuth: cfg.OpenRouterAPIKey != "" && cfg.OpenRouterBaseURL != "",
		}
		logger.Info("OpenRouter client created", "model", cfg.OpenRouterModel)
	})

	return openRouterClient
}

func (c *llmClient) Generate(ctx context.Context, question string, contexts []string) (llm.Completion, error) {
	if !c.hasAuth {
		return llm.Completion{}, fmt.Errorf("%w: OPENROUTER_API_KEY / OPENROUTER_BASE_URL", ragerr.ErrMissingConfig)
	}

	userPrompt := fmt.Sprintf("Question:\n%s\n\nContext:\n%s", question, strings.Join(contexts, "\n\n"))

	// Deterministic sampling, non-streaming, no retries.
	result, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(0),
		TopP:        openai.Float(1),
	})
	if err != nil {
		return llm.Completion{}, classify(err)
	}

	if len(result.Choices) == 0 {
		return llm.Completion{}, &ragerr.UpstreamError{Status: 200, Body: "malformed completion response: no choices"}
	}

	answer := strings.TrimSpace(result.Choices[0].Message.Content)
	if answer == "" {
		answer = llm.RefusalAnswer
	}

	return llm.Completion{
		Answer: answer,
		Model:  result.Model,
		Usage: &commonModels.TokenUsage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
	}, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: chat completion", ragerr.ErrUpstreamTimeout)
	}
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		logger.Error("OpenRouter error", "status", apierr.StatusCode)
		return &ragerr.UpstreamError{Status: apierr.StatusCode, Body: apierr.RawJSON()}
	}
	logger.Error("OpenRouter call failed", "error", err)
	return &ragerr.UpstreamError{Status: 0, Body: err.Error()}
}
