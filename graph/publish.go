package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/ontodag/dag"
)

// Publisher publishes term entities to the graph ingest stream.
type Publisher struct {
	js      jetstream.JetStream
	subject string
}

// NewPublisher creates a publisher for the given JetStream context. An
// empty subject falls back to TermIngestSubject.
func NewPublisher(js jetstream.JetStream, subject string) *Publisher {
	if subject == "" {
		subject = TermIngestSubject
	}
	return &Publisher{js: js, subject: subject}
}

// PublishTerms publishes one entity per distinct term reachable from
// roots and returns the number of entities published. A nil JetStream
// context degrades to a no-op so parsing still works without NATS.
func (p *Publisher) PublishTerms(ctx context.Context, roots []*dag.Term) (int, error) {
	if p == nil || p.js == nil {
		return 0, nil
	}

	rootSet := make(map[*dag.Term]bool, len(roots))
	for _, r := range roots {
		rootSet[r] = true
	}

	now := time.Now()
	var entities []TermEntity
	dag.Walk(roots, func(term *dag.Term) {
		entities = append(entities, NewTermEntity(term, rootSet[term], now))
	})

	for _, entity := range entities {
		if err := entity.Validate(); err != nil {
			return 0, fmt.Errorf("term entity %q: %w", entity.ID, err)
		}
		data, err := json.Marshal(entity)
		if err != nil {
			return 0, fmt.Errorf("marshal term entity %q: %w", entity.ID, err)
		}
		if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
			return 0, fmt.Errorf("publish term entity %q: %w", entity.ID, err)
		}
	}

	return len(entities), nil
}
