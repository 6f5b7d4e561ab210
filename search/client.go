// Package search pushes parsed ontology terms into a search index service.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/c360studio/ontodag/config"
	"github.com/c360studio/ontodag/dag"
)

// Document is one term as indexed by the search service.
type Document struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Synonyms  []string `json:"synonyms,omitempty"`
	ParentIDs []string `json:"parent_ids,omitempty"`
	WholeIDs  []string `json:"whole_ids,omitempty"`
	Root      bool     `json:"root"`
}

// Client indexes term documents against a Solr-style search service. The
// service location comes from explicit configuration, never ambient state;
// the underlying HTTP client is built lazily under a once guard so a
// Client is cheap to construct and safe for concurrent use.
type Client struct {
	cfg config.SearchConfig

	initOnce   sync.Once
	httpClient *http.Client
}

// NewClient creates a client from the given configuration.
func NewClient(cfg config.SearchConfig) *Client {
	return &Client{cfg: cfg}
}

// client returns the lazily-initialized HTTP client.
func (c *Client) client() *http.Client {
	c.initOnce.Do(func() {
		c.httpClient = &http.Client{Timeout: c.cfg.Timeout}
	})
	return c.httpClient
}

// IndexTerms flattens the term DAG reachable from roots into documents,
// sends them in configured batch sizes, and commits. Returns the number
// of documents indexed.
func (c *Client) IndexTerms(ctx context.Context, roots []*dag.Term) (int, error) {
	docs := Flatten(roots)

	batchSize := c.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = len(docs)
	}

	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))
		if err := c.post(ctx, c.updateURL(), docs[start:end]); err != nil {
			return 0, fmt.Errorf("index batch %d-%d: %w", start, end, err)
		}
	}

	if err := c.Commit(ctx); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Commit makes previously sent documents visible to searches.
func (c *Client) Commit(ctx context.Context) error {
	if err := c.post(ctx, c.commitURL(), map[string]any{}); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Flatten converts every distinct term reachable from roots into a
// Document, with reverse edges (parents, wholes) resolved by ID.
func Flatten(roots []*dag.Term) []Document {
	rootSet := make(map[*dag.Term]bool, len(roots))
	for _, r := range roots {
		rootSet[r] = true
	}

	parents := make(map[*dag.Term][]string)
	wholes := make(map[*dag.Term][]string)
	dag.Walk(roots, func(t *dag.Term) {
		for _, child := range t.Children {
			parents[child] = append(parents[child], t.ID)
		}
		for _, component := range t.Components {
			wholes[component] = append(wholes[component], t.ID)
		}
	})

	var docs []Document
	dag.Walk(roots, func(t *dag.Term) {
		docs = append(docs, Document{
			ID:        t.ID,
			Name:      t.Name,
			Synonyms:  t.Synonyms,
			ParentIDs: parents[t],
			WholeIDs:  wholes[t],
			Root:      rootSet[t],
		})
	})
	return docs
}

func (c *Client) updateURL() string {
	return c.baseURL() + "/update/json/docs"
}

func (c *Client) commitURL() string {
	return c.baseURL() + "/update?commit=true"
}

func (c *Client) baseURL() string {
	return strings.TrimRight(c.cfg.URL, "/") + "/" + c.cfg.Collection
}

// post sends a JSON body and fails on any non-2xx response.
func (c *Client) post(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("search service returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	return nil
}
