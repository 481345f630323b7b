package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akolanti/ragdocs/internal/adapter"
	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/domain/ragerr"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY).(string))
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

// statusForError maps pipeline failures onto the HTTP contract:
// bad input 400, unknown doc 404, unreadable-but-valid input 422,
// remote dependency failures 502, everything else 500.
func statusForError(err error) int {
	var extractionErr *ragerr.ExtractionError
	var upstreamErr *ragerr.UpstreamError

	switch {
	case errors.Is(err, ragerr.ErrInvalidInput),
		errors.Is(err, ragerr.ErrUnsupportedType),
		errors.Is(err, ragerr.ErrEmptyInput),
		errors.Is(err, ragerr.ErrSizeExceeded):
		return http.StatusBadRequest
	case errors.Is(err, ragerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ragerr.ErrNoContent),
		errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ragerr.ErrMissingConfig):
		return http.StatusInternalServerError
	case errors.Is(err, ragerr.ErrUpstreamTimeout),
		errors.As(err, &upstreamErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, id string, err error) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		// the real error goes to the log only, never to the client
		logRH.Error("Request failed", "id", id, "error", err)
		WriteErrorResponse(w, code, id, internalDetail(err))
		return
	}
	logRH.Warn("Request rejected", "id", id, "code", code, "error", err)
	WriteErrorResponse(w, code, id, err.Error())
}

// internalDetail names the failed stage without exposing the underlying error.
func internalDetail(err error) string {
	var embeddingErr *ragerr.EmbeddingError
	var upsertErr *ragerr.UpsertError

	switch {
	case errors.As(err, &embeddingErr):
		return "Embedding failed"
	case errors.As(err, &upsertErr):
		return "Index upsert failed"
	case errors.Is(err, ragerr.ErrMissingConfig):
		return "Provider not configured"
	default:
		return "Unexpected error"
	}
}
