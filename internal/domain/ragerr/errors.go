// Package ragerr defines the error taxonomy shared by the ingestion, deletion
// and ask pipelines. Handlers translate these into HTTP status codes; nothing
// below the handler layer knows about HTTP.
package ragerr

import (
	"errors"
	"fmt"
)

// User-correctable input failures (4xx family).
var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyInput      = errors.New("empty file")
	ErrSizeExceeded    = errors.New("file size exceeds limit")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("document not found")
)

// ErrNoContent means extraction succeeded but produced no indexable text.
var ErrNoContent = errors.New("no chunks produced")

// ErrMissingConfig signals that a required provider setting (API key, base
// URL) is absent; surfaced as a 500 at request time, matching the original
// service behavior.
var ErrMissingConfig = errors.New("missing required configuration")

// ErrUpstreamTimeout marks a remote call that exceeded its bounded deadline.
// There is no retry policy anywhere; the whole request fails.
var ErrUpstreamTimeout = errors.New("upstream call timed out")

// ExtractionError wraps a parser failure on content we claim to support.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("extraction failed: %v", e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// EmbeddingError wraps a failure of the embedding service. No partial add may
// have happened when this is returned.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return fmt.Sprintf("embedding failed: %v", e.Err) }
func (e *EmbeddingError) Unwrap() error { return e.Err }

// UpsertError wraps a vector index write failure. Previously committed entries
// stay intact.
type UpsertError struct {
	Err error
}

func (e *UpsertError) Error() string { return fmt.Sprintf("index upsert failed: %v", e.Err) }
func (e *UpsertError) Unwrap() error { return e.Err }

// UpstreamError carries the status and body of a non-2xx (or malformed)
// response from the remote model provider.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream provider error %d: %s", e.Status, e.Body)
}
