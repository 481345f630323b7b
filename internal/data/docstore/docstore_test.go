package docstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveOriginal_FlattensPath(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// a filename with directory components must not escape the doc folder
	path, err := s.SaveOriginal("doc-1", "../../etc/passwd.txt", []byte("content"))
	if err != nil {
		t.Fatalf("SaveOriginal failed: %v", err)
	}

	want := filepath.Join(s.Folder("doc-1"), "passwd.txt")
	if path != want {
		t.Errorf("saved path got %q, want %q", path, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("file not written at flattened path: %v", err)
	}
}

func TestDeleteFolder_ExistedSignal(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := s.SaveOriginal("doc-1", "a.txt", []byte("x")); err != nil {
		t.Fatalf("SaveOriginal failed: %v", err)
	}

	existed, err := s.DeleteFolder("doc-1")
	if err != nil {
		t.Fatalf("DeleteFolder failed: %v", err)
	}
	if !existed {
		t.Error("expected existed=true for a saved document")
	}

	existed, err = s.DeleteFolder("doc-1")
	if err != nil {
		t.Fatalf("second DeleteFolder failed: %v", err)
	}
	if existed {
		t.Error("expected existed=false after removal")
	}
}

func TestReset_RecreatesEmptyRoot(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, _ = s.SaveOriginal("doc-1", "a.txt", []byte("x"))
	_ = s.WriteTextCopy("doc-1", "normalized")

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("root missing after reset: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("root not empty after reset: %d entries", len(entries))
	}
}
