package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{OnChange: func(string) error { return nil }}); err == nil {
		t.Error("expected error without paths")
	}
	if _, err := New(Config{Paths: []string{"objects.yaml"}}); err == nil {
		t.Error("expected error without change callback")
	}

	w, err := New(Config{
		Paths:    []string{"a/objects.yaml", "a/other.yaml", "b/objects.yaml"},
		OnChange: func(string) error { return nil },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(w.dirs) != 2 {
		t.Errorf("dirs = %v, want 2 distinct directories", w.dirs)
	}
	if w.debounceDelay != 100*time.Millisecond {
		t.Errorf("default debounce = %v", w.debounceDelay)
	}
}

func TestProcessPendingRespectsDebounce(t *testing.T) {
	t.Parallel()

	var reloaded []string
	w, err := New(Config{
		Paths:         []string{"/tmp/objects.yaml"},
		DebounceDelay: time.Hour,
		OnChange: func(path string) error {
			reloaded = append(reloaded, path)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	w.schedule("/tmp/objects.yaml")
	w.processPending()
	if len(reloaded) != 0 {
		t.Fatalf("reloaded before debounce elapsed: %v", reloaded)
	}

	w.mu.Lock()
	w.pending["/tmp/objects.yaml"] = time.Now().Add(-2 * time.Hour)
	w.mu.Unlock()
	w.processPending()
	if len(reloaded) != 1 || reloaded[0] != "/tmp/objects.yaml" {
		t.Fatalf("reloaded = %v", reloaded)
	}
	if len(w.pending) != 0 {
		t.Errorf("pending not drained: %v", w.pending)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "objects.yaml")
	if err := os.WriteFile(target, []byte("definitions: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloads := make(chan string, 16)
	w, err := New(Config{
		Paths:         []string{target},
		DebounceDelay: 10 * time.Millisecond,
		OnChange:      func(string) error { return nil },
		OnReload: func(path string, err error) {
			if err == nil {
				reloads <- path
			}
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx) }()

	// Unrelated files in the same directory are ignored.
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case path := <-reloads:
			want, _ := filepath.Abs(target)
			if path != want {
				t.Fatalf("reloaded %q, want %q", path, want)
			}
			return
		case <-tick.C:
			// Keep writing until the watch is registered.
			if err := os.WriteFile(target, []byte("definitions: []\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}
