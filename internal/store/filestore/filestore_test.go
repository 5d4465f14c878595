package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/msto63/livelog/internal/store"
)

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "livelog")
	s := New(dir)

	if _, err := s.Get(ctx, "logViewer_channelHistory"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get() before Set error = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, "logViewer_channelHistory", []byte(`["logs","audit"]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "logViewer_channelHistory", []byte(`["logs"]`)); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := s.Get(ctx, "logViewer_channelHistory")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `["logs"]` {
		t.Errorf("Get() = %s, want [\"logs\"]", got)
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 1 {
		t.Errorf("directory has %d files, temp files should be gone", len(files))
	}
}

func TestStore_InvalidKey(t *testing.T) {
	s := New(t.TempDir())

	tests := []string{"", "..", "a/b", `a\b`}
	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			if err := s.Set(context.Background(), key, []byte("x")); err == nil {
				t.Errorf("Set(%q) should fail", key)
			}
		})
	}
}
