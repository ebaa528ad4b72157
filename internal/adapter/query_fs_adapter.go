// Package adapter contains infrastructure adapters for the queryfix CLI.
package adapter

import (
	"os"
	"path/filepath"

	m "github.com/fleetops/queryfix/internal/model"
)

// QueryFSAdapter abstracts the filesystem operations the domain layer relies
// on when scanning and rewriting query trees. It hides direct `os` access so
// the workflow logic can be tested without touching the disk.
type QueryFSAdapter interface {
	// Walk traverses the provided root path, visiting every regular file.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// Remove deletes a single file. Used when a rewrite empties a query file.
	Remove(path m.Path) error

	// FileInfo returns metadata for a path so the domain can check existence
	// or distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalQueryFSAdapter is the concrete QueryFSAdapter backed by the os package.
type LocalQueryFSAdapter struct{}

// NewLocalQueryFSAdapter constructs a LocalQueryFSAdapter ready to be wired
// into the workflow.
func NewLocalQueryFSAdapter() *LocalQueryFSAdapter {
	return &LocalQueryFSAdapter{}
}

// Walk iterates over files under root, descending into subdirectories.
func (a *LocalQueryFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() {
			return nil
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalQueryFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalQueryFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// Remove deletes the file at path.
func (a *LocalQueryFSAdapter) Remove(path m.Path) error {
	return os.Remove(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalQueryFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// RelPath returns the relative path from base to target.
func (a *LocalQueryFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalQueryFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
