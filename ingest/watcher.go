package ingest

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/ontodag/config"
)

// Watcher re-ingests ontology files when they change on disk. Events are
// debounced per file so editors that write in several bursts trigger a
// single re-parse.
type Watcher struct {
	pipeline *Pipeline
	patterns []string
	debounce time.Duration
	excludes map[string]bool
	logger   *slog.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher over the files selected by cfg.Patterns.
func NewWatcher(pipeline *Pipeline, cfg config.IngestConfig, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	debounce := cfg.DebounceDelay
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	excludes := make(map[string]bool, len(cfg.ExcludeDirs))
	for _, dir := range cfg.ExcludeDirs {
		excludes[dir] = true
	}

	return &Watcher{
		pipeline: pipeline,
		patterns: cfg.Patterns,
		debounce: debounce,
		excludes: excludes,
		logger:   logger,
		fsw:      fsw,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Run watches until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.addDirs(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watch error", slog.String("error", err.Error()))
		}
	}
}

// addDirs watches the directories containing currently matched files.
func (w *Watcher) addDirs() error {
	files, err := ResolveFiles(w.patterns)
	if err != nil {
		return err
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		dirs[filepath.Dir(file)] = true
	}
	if len(dirs) == 0 {
		dirs["."] = true
	}

	for dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.logger.Debug("Watching directory", slog.String("dir", dir))
	}
	return nil
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if w.excluded(event.Name) || !w.matches(event.Name) {
		return
	}
	w.debounceIngest(ctx, event.Name)
}

// excluded reports whether any path component is an excluded directory.
func (w *Watcher) excluded(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if w.excludes[part] {
			return true
		}
	}
	return false
}

// matches reports whether the path matches any configured pattern.
func (w *Watcher) matches(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range w.patterns {
		if ok, err := doublestar.Match(filepath.ToSlash(pattern), slashed); err == nil && ok {
			return true
		}
	}
	return false
}

// debounceIngest schedules (or reschedules) a re-ingest of path after the
// debounce window.
func (w *Watcher) debounceIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}

	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if err := w.pipeline.IngestFile(ctx, path); err != nil {
			w.pipeline.metrics.ParseFailures.Inc()
			w.logger.Error("Re-ingest failed",
				slog.String("file", path),
				slog.String("error", err.Error()))
		}
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
