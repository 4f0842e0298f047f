// Package watch re-runs generation when Go sources in the watched package
// directories change.
package watch

import (
	"context"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// DefaultDebounce is how long the watcher waits for edits to settle
const DefaultDebounce = 300 * time.Millisecond

// ChangeCallback receives the sorted source files changed since the last call.
// An error is logged and does not stop the watcher.
type ChangeCallback func(ctx context.Context, changed []string) error

// Watcher watches package directories for Go source changes
type Watcher struct {
	dirs           []string
	watcher        *fsnotify.Watcher
	callbacks      []ChangeCallback
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	pending        map[string]bool
	fire           chan struct{}
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debouncePeriod = d
		}
	}
}

// New creates a watcher on dirs. Watching starts with Run.
func New(dirs []string, opts ...Option) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, errors.New("no directories to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	w := &Watcher{
		dirs:           dirs,
		watcher:        fw,
		debouncePeriod: DefaultDebounce,
		pending:        make(map[string]bool),
		fire:           make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add starts watching the directories of dirs that are not watched yet, such
// as package directories that appeared since the watcher was created.
func (w *Watcher) Add(dirs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, dir := range dirs {
		if slices.Contains(w.dirs, dir) {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		w.dirs = append(w.dirs, dir)
		logger.Infow("watching new package directory", logger.FieldDir, dir)
	}
	return nil
}

// Dirs lists the watched directories
func (w *Watcher) Dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.dirs)
}

// OnChange registers a callback. Callbacks run in registration order on the
// goroutine that called Run.
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	logger.Infow("watching for changes",
		logger.FieldCount, len(w.Dirs()),
		"debounce", w.debouncePeriod.String())

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event) {
				continue
			}
			logger.Debugw("source changed",
				logger.FieldFile, event.Name,
				logger.FieldOp, event.Op.String())
			w.schedule(event.Name)

		case <-w.fire:
			w.dispatch(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watcher error", logger.FieldError, err.Error())
		}
	}
}

// schedule debounces rapid changes into one dispatch
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[name] = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) dispatch(ctx context.Context) {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	w.pending = make(map[string]bool)
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	for _, callback := range callbacks {
		if err := callback(ctx, changed); err != nil {
			logger.Errorw("regeneration failed", logger.FieldError, err.Error())
		}
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	if err := w.watcher.Close(); err != nil {
		logger.Warnw("failed to close watcher", logger.FieldError, err.Error())
	}
}

// isRelevant keeps edits to non-test Go sources
func isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "_test.go") {
		return false
	}
	return strings.HasSuffix(base, ".go")
}
