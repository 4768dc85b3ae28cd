package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "hris_lifecycle",
		},
		Storage: StorageConfig{
			Backend:  "local",
			LocalDir: "data/evidence",
		},
		Outbox: OutboxConfig{
			Path: "data/outbox.db",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid local backend"},
		{
			name:    "missing mongo uri",
			mutate:  func(c *Config) { c.Mongo.URI = "" },
			wantErr: true,
		},
		{
			name:    "missing mongo database",
			mutate:  func(c *Config) { c.Mongo.Database = "" },
			wantErr: true,
		},
		{
			name:    "local backend needs a directory",
			mutate:  func(c *Config) { c.Storage.LocalDir = "" },
			wantErr: true,
		},
		{
			name: "gcs backend needs a bucket",
			mutate: func(c *Config) {
				c.Storage.Backend = "gcs"
				c.Storage.GCSBucket = ""
			},
			wantErr: true,
		},
		{
			name: "gcs backend with bucket is valid",
			mutate: func(c *Config) {
				c.Storage.Backend = "gcs"
				c.Storage.GCSBucket = "hris-evidence"
			},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "s3" },
			wantErr: true,
		},
		{
			name:    "missing outbox path",
			mutate:  func(c *Config) { c.Outbox.Path = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
mongo:
  database: "hris_test"
outbox:
  poll_interval: 5s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090 from file", cfg.Server.Port)
	}
	if cfg.Mongo.Database != "hris_test" {
		t.Errorf("mongo.database = %s, want hris_test from file", cfg.Mongo.Database)
	}
	if cfg.Outbox.PollInterval != 5*time.Second {
		t.Errorf("outbox.poll_interval = %v, want 5s from file", cfg.Outbox.PollInterval)
	}

	// Everything else falls back to defaults.
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("mongo.uri = %s, want default", cfg.Mongo.URI)
	}
	if cfg.Storage.Backend != "local" {
		t.Errorf("storage.backend = %s, want default local", cfg.Storage.Backend)
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("logger.level = %s, want default info", cfg.Logger.Level)
	}
}
