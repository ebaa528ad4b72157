package adapter

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	m "github.com/fleetops/queryfix/internal/model"
)

func TestLocalQueryFSAdapter_WalkVisitsFilesOnly(t *testing.T) {
	root := t.TempDir()

	for _, rel := range []string{"a.yml", "sub/b.yml", "sub/deep/c.json"} {
		path := filepath.Join(root, rel)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}

		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	fs := NewLocalQueryFSAdapter()

	var visited []string

	err := fs.Walk(m.Path(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, _ := filepath.Rel(root, path)
		visited = append(visited, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	sort.Strings(visited)

	want := []string{"a.yml", "sub/b.yml", "sub/deep/c.json"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}

	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}

func TestLocalQueryFSAdapter_ReadWriteRemove(t *testing.T) {
	fs := NewLocalQueryFSAdapter()
	path := fs.JoinPath(t.TempDir(), "q.yml")

	if err := fs.WriteFile(path, []byte("- name: a\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if string(content) != "- name: a\n" {
		t.Errorf("content = %q", content)
	}

	info, err := fs.FileInfo(path)
	if err != nil || info.IsDir() {
		t.Fatalf("FileInfo = %v, %v", info, err)
	}

	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := fs.FileInfo(path); !os.IsNotExist(err) {
		t.Errorf("file should be gone, err = %v", err)
	}
}

func TestLocalQueryFSAdapter_RelPath(t *testing.T) {
	fs := NewLocalQueryFSAdapter()

	rel, err := fs.RelPath("/a/b", "/a/b/c/d.yml")
	if err != nil {
		t.Fatalf("RelPath failed: %v", err)
	}

	if rel != m.Path(filepath.Join("c", "d.yml")) {
		t.Errorf("rel = %q", rel)
	}
}
