// Package ingest runs the save -> extract -> chunk -> annotate -> embed/upsert
// pipeline. There is no rollback: a failure after the folder is written leaves
// an orphaned folder on disk until a delete cleans it up. That limitation is
// deliberate; validation failures happen before any side effect.
package ingest

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/ragdocs/internal/adapter/utils"
	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/data/docstore"
	"github.com/akolanti/ragdocs/internal/data/store"
	"github.com/akolanti/ragdocs/internal/domain/commonModels"
	"github.com/akolanti/ragdocs/internal/domain/ragerr"
	"github.com/akolanti/ragdocs/internal/metrics"
	"github.com/akolanti/ragdocs/internal/rag/embedding"
	"github.com/akolanti/ragdocs/internal/rag/extract"
	"github.com/akolanti/ragdocs/internal/rag/vectorDB"
	"github.com/akolanti/ragdocs/pkg/logger_i"
)

var logger *logger_i.Logger

func getLogger() *logger_i.Logger {
	if logger == nil {
		logger = logger_i.NewLogger("Document Ingestion")
	}
	return logger
}

// Upload is the incoming file, still unread.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// Deps carries the pipeline's collaborators, injected by the service layer.
type Deps struct {
	Cfg      *config.Config
	Docs     *docstore.Store
	Embedder embedding.Embedder
	VectorDB vectorDB.DataProcessor
	Registry store.DocumentStore
}

// ProcessDocumentIngestion validates, persists and indexes one upload,
// returning the new doc_id and chunk count.
func ProcessDocumentIngestion(ctx context.Context, up Upload, deps Deps) (commonModels.IngestResult, error) {
	log := getLogger().With("traceId", ctx.Value(config.TRACE_ID_KEY), "filename", up.Filename)

	// Validation first: no side effects before this point.
	if !deps.Cfg.ExtAllowed(up.Filename) {
		return commonModels.IngestResult{}, ragerr.ErrUnsupportedType
	}
	raw, err := readBounded(up.Reader, deps.Cfg.MaxUploadBytes)
	if err != nil {
		return commonModels.IngestResult{}, err
	}

	docId := utils.GetNewUUID()
	savedPath, err := deps.Docs.SaveOriginal(docId, up.Filename, raw)
	if err != nil {
		return commonModels.IngestResult{}, err
	}
	log = log.With("docId", docId)
	log.Debug("original saved", "path", savedPath)

	doc := commonModels.Document{
		Id:         docId,
		Filename:   filepath.Base(up.Filename),
		Folder:     deps.Docs.Folder(docId),
		IngestedAt: time.Now().UTC(),
	}

	segments, err := extract.Extract(raw, up.Filename, savedPath)
	if err != nil {
		return commonModels.IngestResult{}, err
	}

	if isPlainText(up.Filename) && len(segments) > 0 {
		if err := deps.Docs.WriteTextCopy(docId, segments[0].Content); err != nil {
			log.Error("could not write normalized text copy", "error", err)
		}
	}

	chunks := PrepareChunks(segments, doc, deps.Cfg.ChunkSize, deps.Cfg.ChunkOverlap)
	if len(chunks) == 0 {
		// Folder stays on disk, known leak; delete path cleans it up.
		return commonModels.IngestResult{}, ragerr.ErrNoContent
	}
	log.Debug("document chunked", "chunks", len(chunks))

	if err := BatchIngest(ctx, chunks, deps.VectorDB, deps.Embedder); err != nil {
		return commonModels.IngestResult{}, err
	}

	if deps.Registry != nil {
		regErr := deps.Registry.SaveDocument(ctx, commonModels.DocumentRecord{
			DocId:      docId,
			Filename:   doc.Filename,
			Chunks:     len(chunks),
			IngestedAt: doc.IngestedAt,
		})
		if regErr != nil {
			log.Error("registry save failed", "error", regErr)
		}
	}

	metrics.IncrementDocumentsIndexed()
	metrics.AddChunksIndexed(len(chunks))

	return commonModels.IngestResult{
		DocId:    docId,
		Filename: doc.Filename,
		Chunks:   len(chunks),
		Status:   "indexed",
	}, nil
}

// readBounded reads at most maxBytes+1 bytes so an oversized upload is
// rejected without buffering the whole stream.
func readBounded(r io.Reader, maxBytes int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, ragerr.ErrSizeExceeded
	}
	if len(raw) == 0 {
		return nil, ragerr.ErrEmptyInput
	}
	return raw, nil
}

func isPlainText(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return true
	}
	return false
}
