package llm

import (
	"context"

	"github.com/akolanti/ragdocs/internal/domain/commonModels"
)

// RefusalAnswer is part of the observable contract: clients and tests match it
// verbatim, so it must never be paraphrased.
const RefusalAnswer = "This information is not available in my current knowledge base."

// Completion is one grounded answer from the remote model.
type Completion struct {
	Answer string
	Model  string
	Usage  *commonModels.TokenUsage
}

// Provider generates an answer for question constrained to the supplied
// context chunks (retrieval order preserved).
type Provider interface {
	Generate(ctx context.Context, question string, contexts []string) (Completion, error)
}
