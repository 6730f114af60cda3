// Package config loads the size limits and the graph database connection
// settings from an optional YAML file, overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/revelaction/puggle/annotation"
)

// Environment variables that override the file values.
const (
	EnvMaxSentLength = "PUGGLE_MAX_SENT_LENGTH"
	EnvMaxWordLength = "PUGGLE_MAX_WORD_LENGTH"
	EnvMaxRows       = "PUGGLE_MAX_ROWS"
	EnvMaxCategories = "PUGGLE_MAX_CATEGORIES"

	EnvNeo4jURI      = "NEO4J_URI"
	EnvNeo4jPort     = "NEO4J_PORT"
	EnvNeo4jUser     = "NEO4J_USER"
	EnvNeo4jPassword = "NEO4J_PASSWORD"
)

const (
	DefaultNeo4jPort = 7687
	DefaultNeo4jUser = "neo4j"
)

type Config struct {
	Limits annotation.Limits `yaml:"limits"`
	Neo4j  Neo4j             `yaml:"neo4j"`
}

// Neo4j holds the connection settings of the graph database. An empty
// Database selects the server default.
type Neo4j struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Default returns the configuration used when no file and no environment
// variable is given.
func Default() *Config {
	return &Config{
		Limits: annotation.DefaultLimits(),
		Neo4j: Neo4j{
			URI:  neo4jURI(DefaultNeo4jPort),
			User: DefaultNeo4jUser,
		},
	}
}

// Load reads path, when not empty, on top of the defaults and then applies
// the environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	ints := []struct {
		name string
		dst  *int
	}{
		{EnvMaxSentLength, &c.Limits.MaxSentLength},
		{EnvMaxWordLength, &c.Limits.MaxWordLength},
		{EnvMaxRows, &c.Limits.MaxRows},
		{EnvMaxCategories, &c.Limits.MaxCategories},
	}

	for _, v := range ints {
		s, ok := os.LookupEnv(v.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
		*v.dst = n
	}

	// An explicit URI wins over a port.
	if uri, ok := os.LookupEnv(EnvNeo4jURI); ok {
		c.Neo4j.URI = uri
	} else if s, ok := os.LookupEnv(EnvNeo4jPort); ok {
		port, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNeo4jPort, err)
		}
		c.Neo4j.URI = neo4jURI(port)
	}

	if user, ok := os.LookupEnv(EnvNeo4jUser); ok {
		c.Neo4j.User = user
	}

	if password, ok := os.LookupEnv(EnvNeo4jPassword); ok {
		c.Neo4j.Password = password
	}

	return nil
}

// Validate checks that every limit is positive and that a graph URI is set.
func (c *Config) Validate() error {
	limits := []struct {
		name  string
		value int
	}{
		{"max_sent_length", c.Limits.MaxSentLength},
		{"max_word_length", c.Limits.MaxWordLength},
		{"max_rows", c.Limits.MaxRows},
		{"max_categories", c.Limits.MaxCategories},
	}

	for _, l := range limits {
		if l.value <= 0 {
			return fmt.Errorf("limits: %s must be positive, got %d", l.name, l.value)
		}
	}

	if c.Neo4j.URI == "" {
		return errors.New("neo4j: uri is required")
	}

	return nil
}

func neo4jURI(port int) string {
	return fmt.Sprintf("neo4j://localhost:%d", port)
}
