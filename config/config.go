// Package config provides configuration loading and management for ontodag.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete ontodag configuration
type Config struct {
	NATS   NATSConfig   `yaml:"nats"`
	Search SearchConfig `yaml:"search"`
	Ingest IngestConfig `yaml:"ingest"`
}

// NATSConfig configures graph publishing over NATS JetStream
type NATSConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
	// Subject is the JetStream subject terms are published to
	Subject string `yaml:"subject"`
}

// SearchConfig configures the search index client
type SearchConfig struct {
	// URL is the base URL of the search service (empty = indexing disabled)
	URL string `yaml:"url"`
	// Collection is the target collection/core name
	Collection string `yaml:"collection"`
	// Timeout is the per-request timeout
	Timeout time.Duration `yaml:"timeout"`
	// BatchSize is the number of term documents sent per request
	BatchSize int `yaml:"batch_size"`
}

// IngestConfig configures the file ingestion pipeline
type IngestConfig struct {
	// Patterns are doublestar globs selecting ontology files to ingest
	Patterns []string `yaml:"patterns"`
	// Watch enables re-ingestion when watched files change
	Watch bool `yaml:"watch"`
	// DebounceDelay is how long to wait for further changes before
	// re-ingesting a changed file
	DebounceDelay time.Duration `yaml:"debounce_delay"`
	// ExcludeDirs lists directory names skipped while watching
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:     "",
			Subject: "graph.ingest.term",
		},
		Search: SearchConfig{
			URL:        "",
			Collection: "ontology",
			Timeout:    30 * time.Second,
			BatchSize:  500,
		},
		Ingest: IngestConfig{
			Patterns:      []string{"**/*.dag"},
			Watch:         false,
			DebounceDelay: 500 * time.Millisecond,
			ExcludeDirs:   []string{".git", "node_modules", "vendor"},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Search.BatchSize <= 0 {
		return fmt.Errorf("search.batch_size must be positive")
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("search.timeout must be positive")
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required")
	}
	if len(c.Ingest.Patterns) == 0 {
		return fmt.Errorf("ingest.patterns must list at least one pattern")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}

	// Search
	if other.Search.URL != "" {
		c.Search.URL = other.Search.URL
	}
	if other.Search.Collection != "" {
		c.Search.Collection = other.Search.Collection
	}
	if other.Search.Timeout != 0 {
		c.Search.Timeout = other.Search.Timeout
	}
	if other.Search.BatchSize != 0 {
		c.Search.BatchSize = other.Search.BatchSize
	}

	// Ingest
	if len(other.Ingest.Patterns) > 0 {
		c.Ingest.Patterns = other.Ingest.Patterns
	}
	if other.Ingest.Watch {
		c.Ingest.Watch = true
	}
	if other.Ingest.DebounceDelay != 0 {
		c.Ingest.DebounceDelay = other.Ingest.DebounceDelay
	}
	if len(other.Ingest.ExcludeDirs) > 0 {
		c.Ingest.ExcludeDirs = other.Ingest.ExcludeDirs
	}
}
