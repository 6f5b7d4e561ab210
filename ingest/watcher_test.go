package ingest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/ontodag/config"
)

func newTestWatcher(t *testing.T, cfg config.IngestConfig) *Watcher {
	t.Helper()
	w, err := NewWatcher(NewPipeline(nil, nil, nil), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsw.Close() })
	return w
}

func TestWatcher_Matches(t *testing.T) {
	w := newTestWatcher(t, config.IngestConfig{
		Patterns: []string{"ontologies/**/*.dag"},
	})

	assert.True(t, w.matches(filepath.Join("ontologies", "go", "process.dag")))
	assert.True(t, w.matches(filepath.Join("ontologies", "flat.dag")))
	assert.False(t, w.matches(filepath.Join("ontologies", "readme.md")))
	assert.False(t, w.matches(filepath.Join("other", "process.dag")))
}

func TestWatcher_Excluded(t *testing.T) {
	w := newTestWatcher(t, config.IngestConfig{
		Patterns:    []string{"**/*.dag"},
		ExcludeDirs: []string{".git", "vendor"},
	})

	assert.True(t, w.excluded(filepath.Join("a", ".git", "x.dag")))
	assert.True(t, w.excluded(filepath.Join("vendor", "x.dag")))
	assert.False(t, w.excluded(filepath.Join("a", "b", "x.dag")))
}

func TestNewWatcher_Defaults(t *testing.T) {
	w := newTestWatcher(t, config.IngestConfig{Patterns: []string{"*.dag"}})
	assert.Equal(t, 500*time.Millisecond, w.debounce)
}
