package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "plain", key: "akool-image-1.png", want: "akool-image-1.png"},
		{name: "leading slash", key: "/job/a.png", want: "job/a.png"},
		{name: "backslashes", key: `job\a.png`, want: "job/a.png"},
		{name: "dot prefix", key: "./a.png", want: "a.png"},
		{name: "inner traversal cleaned", key: "job/../a.png", want: "a.png"},
		{name: "escape", key: "../etc/passwd", wantErr: true},
		{name: "parent only", key: "..", wantErr: true},
		{name: "empty", key: "  ", wantErr: true},
		{name: "root", key: "/", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := sanitizeKey(tc.key)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("sanitizeKey(%q) expected error, got %q", tc.key, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("sanitizeKey(%q) error: %v", tc.key, err)
			}
			if got != tc.want {
				t.Fatalf("sanitizeKey(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestFileStoreWrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "downloads"))
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	path, err := store.Write(context.Background(), "job-1/akool-image-1.png", []byte("img"))
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	want := filepath.Join(dir, "downloads", "job-1", "akool-image-1.png")
	if path != want {
		t.Fatalf("Write path = %q, want %q", path, want)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(raw) != "img" {
		t.Fatalf("unexpected content %q", raw)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "downloads", "job-1"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestFileStoreWriteHonoursContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Write(ctx, "a.png", []byte("x")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore(" "); err == nil {
		t.Fatalf("expected error for empty base path")
	}
}
