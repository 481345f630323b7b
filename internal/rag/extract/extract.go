// Package extract turns an uploaded file's bytes into text segments with page
// metadata. Dispatch is on the lowercase file extension; everything the
// chunker and index see downstream starts here.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/akolanti/ragdocs/internal/domain/ragerr"
	"github.com/akolanti/ragdocs/pkg/logger_i"
	"github.com/lu4p/cat"
)

// Segment is one extracted span of text. Plain-text formats produce a single
// segment; PDFs produce one per page, numbered from 1.
type Segment struct {
	Page    int
	Content string
}

var logger *logger_i.Logger

func getLogger() *logger_i.Logger {
	if logger == nil {
		logger = logger_i.NewLogger("Extractor")
	}
	return logger
}

// Extract dispatches on filename's extension. savedPath is the on-disk copy of
// the original upload; the PDF and word-document parsers read from it, while
// plain text is decoded straight from raw.
func Extract(raw []byte, filename string, savedPath string) ([]Segment, error) {
	if len(raw) == 0 {
		return nil, ragerr.ErrEmptyInput
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return []Segment{{Page: 1, Content: DecodeText(raw)}}, nil
	case ".pdf":
		return extractPDF(savedPath)
	case ".docx", ".rtf", ".odt":
		// Only reachable when ALLOWED_EXTS is widened beyond the defaults.
		return extractWordDoc(savedPath)
	default:
		return nil, ragerr.ErrUnsupportedType
	}
}

// DecodeText decodes bytes as UTF-8, replacing invalid sequences. It never
// fails on malformed encoding.
func DecodeText(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "�")
}

func extractWordDoc(path string) ([]Segment, error) {
	text, err := cat.File(path)
	if err != nil {
		getLogger().Error("Error extracting content from doc", "path", path, "error", err)
		return nil, &ragerr.ExtractionError{Err: err}
	}

	// cat has no page tracking, everything lands on one segment.
	return []Segment{{Page: 1, Content: text}}, nil
}
