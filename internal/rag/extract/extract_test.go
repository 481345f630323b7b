package extract

import (
	"errors"
	"testing"

	"github.com/akolanti/ragdocs/internal/domain/ragerr"
)

func TestExtract_PlainText(t *testing.T) {
	segments, err := Extract([]byte("hello\nworld"), "notes.txt", "")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("segment count got %d, want 1", len(segments))
	}
	if segments[0].Page != 1 {
		t.Errorf("page got %d, want 1", segments[0].Page)
	}
	if segments[0].Content != "hello\nworld" {
		t.Errorf("content got %q", segments[0].Content)
	}
}

func TestExtract_MarkdownUppercaseExt(t *testing.T) {
	segments, err := Extract([]byte("# title"), "README.MD", "")
	if err != nil {
		t.Fatalf("Extract failed on uppercase extension: %v", err)
	}
	if len(segments) != 1 || segments[0].Content != "# title" {
		t.Errorf("unexpected segments: %+v", segments)
	}
}

func TestExtract_InvalidUTF8Replaced(t *testing.T) {
	raw := []byte{'o', 'k', 0xff, 0xfe, '!'}
	segments, err := Extract(raw, "broken.txt", "")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	// ToValidUTF8 collapses a run of invalid bytes into one replacement
	got := segments[0].Content
	if got != "ok�!" {
		t.Errorf("invalid bytes not replaced, got %q", got)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	_, err := Extract(nil, "empty.txt", "")
	if !errors.Is(err, ragerr.ErrEmptyInput) {
		t.Errorf("got %v, want ErrEmptyInput", err)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	for _, name := range []string{"image.png", "archive.zip", "noextension"} {
		_, err := Extract([]byte("data"), name, "")
		if !errors.Is(err, ragerr.ErrUnsupportedType) {
			t.Errorf("%s: got %v, want ErrUnsupportedType", name, err)
		}
	}
}

func TestExtract_MissingPDFIsExtractionError(t *testing.T) {
	_, err := Extract([]byte("%PDF-fake"), "ghost.pdf", "/nonexistent/ghost.pdf")
	var extractionErr *ragerr.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Errorf("got %v, want ExtractionError", err)
	}
}

func TestDecodeText_ValidPassthrough(t *testing.T) {
	in := "héllo wörld"
	if got := DecodeText([]byte(in)); got != in {
		t.Errorf("valid UTF-8 mangled: %q", got)
	}
}
