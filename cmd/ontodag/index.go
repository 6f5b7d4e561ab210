package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/ontodag/graph"
	"github.com/c360studio/ontodag/ingest"
	"github.com/c360studio/ontodag/search"
)

func indexCmd(configPath *string) *cobra.Command {
	var (
		watch       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "index [patterns...]",
		Short: "Ingest ontology files and push terms to the graph and search index",
		Long: `Index resolves the given glob patterns (or ingest.patterns from the
configuration), parses each matched file, and forwards the term graphs to
the configured sinks: a NATS JetStream graph subject and/or a search
service. With --watch it keeps running and re-ingests files as they
change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.Context(), *configPath, args, watch, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and re-ingest files on change")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (empty = disabled)")

	return cmd
}

func runIndex(ctx context.Context, configPath string, patterns []string, watch bool, metricsAddr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(patterns) == 0 {
		patterns = cfg.Ingest.Patterns
	}

	registry := prometheus.NewRegistry()
	metrics := ingest.NewMetrics(registry)

	var sinks []ingest.Sink

	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name(appName))
		if err != nil {
			return fmt.Errorf("connect to NATS at %s: %w", cfg.NATS.URL, err)
		}
		defer nc.Drain() //nolint:errcheck
		js, err := jetstream.New(nc)
		if err != nil {
			return fmt.Errorf("create JetStream context: %w", err)
		}
		sinks = append(sinks, ingest.GraphSink{Publisher: graph.NewPublisher(js, cfg.NATS.Subject)})
		slog.Info("Graph publishing enabled", "url", cfg.NATS.URL, "subject", cfg.NATS.Subject)
	}

	if cfg.Search.URL != "" {
		sinks = append(sinks, ingest.SearchSink{Client: search.NewClient(cfg.Search)})
		slog.Info("Search indexing enabled", "url", cfg.Search.URL, "collection", cfg.Search.Collection)
	}

	if len(sinks) == 0 {
		slog.Warn("No sinks configured; files will be parsed but not forwarded")
	}

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			slog.Info("Serving metrics", "addr", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				slog.Error("Metrics server stopped", "error", err.Error())
			}
		}()
	}

	signalCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pipeline := ingest.NewPipeline(sinks, slog.Default(), metrics)
	if err := pipeline.Run(signalCtx, patterns); err != nil {
		return err
	}

	if watch || cfg.Ingest.Watch {
		ingestCfg := cfg.Ingest
		ingestCfg.Patterns = patterns

		watcher, err := ingest.NewWatcher(pipeline, ingestCfg, slog.Default())
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}

		slog.Info("Watching for changes", "patterns", patterns)
		if err := watcher.Run(signalCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		slog.Info("Watch stopped")
	}

	return nil
}
