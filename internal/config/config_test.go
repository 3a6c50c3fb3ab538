package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Create temporary config file
	content := `
server:
  port: 9090
  host: "127.0.0.1"

upstream:
  legacyBaseURL: "http://legacy.test"
  catalogBaseURL: "http://catalog.test"
  client: "web"

playback:
  language: "de"
  quality: "HQ"
`

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Load config
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Upstream.LegacyBaseURL != "http://legacy.test" {
		t.Errorf("Expected legacy base URL http://legacy.test, got %s", cfg.Upstream.LegacyBaseURL)
	}

	if cfg.Upstream.Client != "web" {
		t.Errorf("Expected client web, got %s", cfg.Upstream.Client)
	}

	if cfg.Playback.Language != "de" {
		t.Errorf("Expected language de, got %s", cfg.Playback.Language)
	}

	if cfg.Playback.Quality != "HQ" {
		t.Errorf("Expected quality HQ, got %s", cfg.Playback.Quality)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte("server:\n  port: 8081\n")); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Upstream.Timeout != 10*time.Second {
		t.Errorf("Expected default upstream timeout 10s, got %v", cfg.Upstream.Timeout)
	}

	if cfg.Sync.SyncEvery != 60 {
		t.Errorf("Expected default syncEvery 60, got %d", cfg.Sync.SyncEvery)
	}

	if cfg.Sync.TickInterval != time.Second {
		t.Errorf("Expected default tick interval 1s, got %v", cfg.Sync.TickInterval)
	}

	if cfg.Playback.AudioSlot != 1 {
		t.Errorf("Expected default audio slot 1, got %d", cfg.Playback.AudioSlot)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}
