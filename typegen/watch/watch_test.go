package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write go file", fsnotify.Event{Name: "/src/models.go", Op: fsnotify.Write}, true},
		{"create go file", fsnotify.Event{Name: "/src/new.go", Op: fsnotify.Create}, true},
		{"remove go file", fsnotify.Event{Name: "/src/old.go", Op: fsnotify.Remove}, true},
		{"rename go file", fsnotify.Event{Name: "/src/old.go", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "/src/models.go", Op: fsnotify.Chmod}, false},
		{"test file", fsnotify.Event{Name: "/src/models_test.go", Op: fsnotify.Write}, false},
		{"editor swap file", fsnotify.Event{Name: "/src/.models.go.swp", Op: fsnotify.Write}, false},
		{"hidden go file", fsnotify.Event{Name: "/src/.tmp.go", Op: fsnotify.Write}, false},
		{"non go file", fsnotify.Event{Name: "/src/README.md", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevant(tt.event))
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New([]string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}

func TestWithDebounce(t *testing.T) {
	w, err := New([]string{t.TempDir()}, WithDebounce(0))
	require.NoError(t, err)
	defer w.stop()
	assert.Equal(t, DefaultDebounce, w.debouncePeriod)

	WithDebounce(10 * time.Millisecond)(w)
	assert.Equal(t, 10*time.Millisecond, w.debouncePeriod)
}

func TestWatcher_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{dir}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	calls := make(chan []string, 4)
	w.OnChange(func(ctx context.Context, changed []string) error {
		calls <- changed
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	modelPath := filepath.Join(dir, "models.go")
	require.NoError(t, os.WriteFile(modelPath, []byte("package models\n"), 0644))
	require.NoError(t, os.WriteFile(modelPath, []byte("package models\n\ntype A struct{}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	select {
	case changed := <-calls:
		assert.Equal(t, []string{modelPath}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change callback")
	}

	// A slow writer may split the burst, but notes.txt never shows up
	time.Sleep(200 * time.Millisecond)
	for len(calls) > 0 {
		assert.Equal(t, []string{modelPath}, <-calls)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

func TestWatcher_CallbackErrorKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{dir}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	calls := make(chan struct{}, 4)
	w.OnChange(func(ctx context.Context, changed []string) error {
		calls <- struct{}{}
		return assert.AnError
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := 0; i < 2; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "models.go"), []byte("package models\n"), 0644))
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("no callback for change %d", i)
		}
	}
}

func TestWatcher_AddWatchesNewDirectories(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	w, err := New([]string{first}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Add([]string{first, second}))
	assert.Equal(t, []string{first, second}, w.Dirs())

	require.Error(t, w.Add([]string{filepath.Join(second, "missing")}))
	assert.Len(t, w.Dirs(), 2)

	calls := make(chan []string, 4)
	w.OnChange(func(ctx context.Context, changed []string) error {
		calls <- changed
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	added := filepath.Join(second, "added.go")
	require.NoError(t, os.WriteFile(added, []byte("package added\n"), 0644))

	select {
	case changed := <-calls:
		assert.Equal(t, []string{added}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no callback for a directory added after New")
	}
}
