package config

import (
	"path/filepath"
	"testing"

	"github.com/revelaction/puggle/annotation"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Limits != annotation.DefaultLimits() {
		t.Errorf("limits = %+v, want defaults", cfg.Limits)
	}
	if cfg.Neo4j.URI != "neo4j://localhost:7687" || cfg.Neo4j.User != "neo4j" {
		t.Errorf("neo4j = %+v", cfg.Neo4j)
	}
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "puggle.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := annotation.Limits{MaxSentLength: 250, MaxWordLength: 100, MaxRows: 10000, MaxCategories: 20}
	if cfg.Limits != want {
		t.Errorf("limits = %+v, want %+v", cfg.Limits, want)
	}

	wantNeo := Neo4j{URI: "neo4j://graph.internal:7687", User: "reader", Database: "corpus"}
	if cfg.Neo4j != wantNeo {
		t.Errorf("neo4j = %+v, want %+v", cfg.Neo4j, wantNeo)
	}
}

func TestLoadEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(*Config) bool
	}{
		{
			name:  "max rows",
			env:   map[string]string{EnvMaxRows: "5"},
			check: func(c *Config) bool { return c.Limits.MaxRows == 5 },
		},
		{
			name:  "port builds uri",
			env:   map[string]string{EnvNeo4jPort: "7999"},
			check: func(c *Config) bool { return c.Neo4j.URI == "neo4j://localhost:7999" },
		},
		{
			name:  "uri wins over port",
			env:   map[string]string{EnvNeo4jPort: "7999", EnvNeo4jURI: "bolt://db:7687"},
			check: func(c *Config) bool { return c.Neo4j.URI == "bolt://db:7687" },
		},
		{
			name:  "credentials",
			env:   map[string]string{EnvNeo4jUser: "admin", EnvNeo4jPassword: "secret"},
			check: func(c *Config) bool { return c.Neo4j.User == "admin" && c.Neo4j.Password == "secret" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(filepath.Join("testdata", "puggle.yaml"))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("unexpected config %+v", cfg)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		env  map[string]string
	}{
		{"missing file", filepath.Join("testdata", "nope.yaml"), nil},
		{"broken yaml", filepath.Join("testdata", "broken.yaml"), nil},
		{"negative limit", filepath.Join("testdata", "negative.yaml"), nil},
		{"bad int env", "", map[string]string{EnvMaxSentLength: "many"}},
		{"bad port env", "", map[string]string{EnvNeo4jPort: "http"}},
		{"zero env", "", map[string]string{EnvMaxCategories: "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := Load(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
