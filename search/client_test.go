package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/ontodag/config"
	"github.com/c360studio/ontodag/dag"
)

func testConfig(url string, batchSize int) config.SearchConfig {
	return config.SearchConfig{
		URL:        url,
		Collection: "ontology",
		Timeout:    5 * time.Second,
		BatchSize:  batchSize,
	}
}

func parseFixture(t *testing.T) []*dag.Term {
	t.Helper()
	input := "$ root ; 1 ; synonym:top\n % a ; 2\n % b ; 3\n % c ; 4\n"
	roots, err := dag.Parse(strings.NewReader(input))
	require.NoError(t, err)
	return roots
}

func TestFlatten(t *testing.T) {
	docs := Flatten(parseFixture(t))

	require.Len(t, docs, 4)
	assert.Equal(t, "1", docs[0].ID)
	assert.True(t, docs[0].Root)
	assert.Equal(t, []string{"top"}, docs[0].Synonyms)

	assert.Equal(t, "a", docs[1].Name)
	assert.False(t, docs[1].Root)
	assert.Equal(t, []string{"1"}, docs[1].ParentIDs)
}

func TestIndexTerms_BatchesAndCommits(t *testing.T) {
	var mu sync.Mutex
	var updateBodies [][]Document
	commits := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case r.URL.Path == "/ontology/update/json/docs":
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			var docs []Document
			assert.NoError(t, json.Unmarshal(body, &docs))
			updateBodies = append(updateBodies, docs)
		case r.URL.Path == "/ontology/update" && r.URL.Query().Get("commit") == "true":
			commits++
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, 3))
	n, err := client.IndexTerms(context.Background(), parseFixture(t))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updateBodies, 2)
	assert.Len(t, updateBodies[0], 3)
	assert.Len(t, updateBodies[1], 1)
	assert.Equal(t, 1, commits)
}

func TestIndexTerms_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "core not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, 10))
	_, err := client.IndexTerms(context.Background(), parseFixture(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestIndexTerms_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(testConfig(srv.URL, 10))
	_, err := client.IndexTerms(ctx, parseFixture(t))
	assert.Error(t, err)
}

func TestClient_LazyInitOnce(t *testing.T) {
	client := NewClient(testConfig("http://localhost:8983/solr", 10))

	first := client.client()
	second := client.client()
	assert.Same(t, first, second)
	assert.Equal(t, 5*time.Second, first.Timeout)
}
