// Package docstore owns the on-disk document layout: one folder per doc_id
// under the root, holding the original upload and, for plain-text formats, a
// normalized UTF-8 copy.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/akolanti/ragdocs/pkg/logger_i"
)

type Store struct {
	root   string
	logger *logger_i.Logger
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("creating documents root: %w", err)
	}
	return &Store{
		root:   root,
		logger: logger_i.NewLogger("DocStore"),
	}, nil
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) Folder(docId string) string {
	return filepath.Join(s.root, docId)
}

// SaveOriginal writes the uploaded bytes under the document's folder and
// returns the saved path. The filename is flattened to its base so an upload
// can never escape its folder.
func (s *Store) SaveOriginal(docId string, filename string, raw []byte) (string, error) {
	folder := s.Folder(docId)
	if err := os.MkdirAll(folder, 0750); err != nil {
		return "", fmt.Errorf("creating document folder: %w", err)
	}

	path := filepath.Join(folder, filepath.Base(filename))
	if err := os.WriteFile(path, raw, 0640); err != nil {
		return "", fmt.Errorf("writing original file: %w", err)
	}
	return path, nil
}

// WriteTextCopy stores the normalized UTF-8 text next to the original.
func (s *Store) WriteTextCopy(docId string, text string) error {
	path := filepath.Join(s.Folder(docId), "text.txt")
	if err := os.WriteFile(path, []byte(text), 0640); err != nil {
		return fmt.Errorf("writing text copy: %w", err)
	}
	return nil
}

// DeleteFolder removes the document's folder recursively. The returned bool
// reports whether the folder existed, which is the caller's "document found"
// signal.
func (s *Store) DeleteFolder(docId string) (bool, error) {
	folder := s.Folder(docId)
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		return false, nil
	}

	s.logger.Debug("deleting document folder", "folder", folder)
	if err := os.RemoveAll(folder); err != nil {
		return true, fmt.Errorf("removing document folder: %w", err)
	}
	return true, nil
}

// Reset wipes the whole root and recreates it empty.
func (s *Store) Reset() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("removing documents root: %w", err)
	}
	return os.MkdirAll(s.root, 0750)
}
