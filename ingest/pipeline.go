// Package ingest runs ontology files through the DAG parser and forwards
// the resulting term graphs to downstream sinks.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/c360studio/ontodag/dag"
	"github.com/c360studio/ontodag/graph"
	"github.com/c360studio/ontodag/search"
)

// Sink consumes the root-term set produced from one document.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string

	// Consume receives the root terms of one parsed document.
	Consume(ctx context.Context, roots []*dag.Term) error
}

// GraphSink forwards parsed terms to the knowledge graph.
type GraphSink struct {
	Publisher *graph.Publisher
}

func (s GraphSink) Name() string { return "graph" }

func (s GraphSink) Consume(ctx context.Context, roots []*dag.Term) error {
	_, err := s.Publisher.PublishTerms(ctx, roots)
	return err
}

// SearchSink forwards parsed terms to the search index.
type SearchSink struct {
	Client *search.Client
}

func (s SearchSink) Name() string { return "search" }

func (s SearchSink) Consume(ctx context.Context, roots []*dag.Term) error {
	_, err := s.Client.IndexTerms(ctx, roots)
	return err
}

// Pipeline parses ontology files and fans the results out to sinks. Each
// file gets a fresh parser, so files are independent of one another.
type Pipeline struct {
	sinks   []Sink
	logger  *slog.Logger
	metrics *Metrics
}

// NewPipeline creates a pipeline. A nil metrics value gets unregistered
// metrics; a nil logger falls back to slog.Default.
func NewPipeline(sinks []Sink, logger *slog.Logger, metrics *Metrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Pipeline{sinks: sinks, logger: logger, metrics: metrics}
}

// Run resolves the glob patterns to files and ingests each one. Files that
// fail to parse are logged and counted but do not stop the run; pattern
// resolution errors do.
func (p *Pipeline) Run(ctx context.Context, patterns []string) error {
	files, err := ResolveFiles(patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.logger.Warn("No files matched", slog.Any("patterns", patterns))
		return nil
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.IngestFile(ctx, file); err != nil {
			p.metrics.ParseFailures.Inc()
			p.logger.Error("Ingest failed",
				slog.String("file", file),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// IngestFile parses one file and forwards its root terms to every sink.
func (p *Pipeline) IngestFile(ctx context.Context, path string) error {
	batchID := uuid.New().String()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	roots, err := dag.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	termCount := dag.Count(roots)
	p.metrics.FilesIngested.Inc()
	p.metrics.TermsParsed.Add(float64(termCount))
	p.metrics.RootsParsed.Add(float64(len(roots)))

	p.logger.Info("Parsed ontology file",
		slog.String("file", path),
		slog.String("batch_id", batchID),
		slog.Int("roots", len(roots)),
		slog.Int("terms", termCount))

	for _, sink := range p.sinks {
		if err := sink.Consume(ctx, roots); err != nil {
			return fmt.Errorf("sink %s for %s: %w", sink.Name(), path, err)
		}
		p.logger.Debug("Sink consumed terms",
			slog.String("sink", sink.Name()),
			slog.String("batch_id", batchID))
	}
	return nil
}

// ResolveFiles expands doublestar glob patterns to a deduplicated list of
// regular files.
func ResolveFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = true
			files = append(files, match)
		}
	}
	return files, nil
}
