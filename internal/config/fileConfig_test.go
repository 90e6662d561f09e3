package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not error, got %v", err)
	}
	if cfg.DBPathOrDefault() != DefaultDBPath {
		t.Errorf("DBPathOrDefault got %s, want %s", cfg.DBPathOrDefault(), DefaultDBPath)
	}
	if cfg.ListenAddrOrDefault() != ServerListenAddr {
		t.Errorf("ListenAddrOrDefault got %s, want %s", cfg.ListenAddrOrDefault(), ServerListenAddr)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	content := "db_path: /data/kb\nlisten_addr: \":8080\"\nproviders:\n  llm: openai\n  embedding: openai\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.DBPathOrDefault() != "/data/kb" {
		t.Errorf("db_path got %s", cfg.DBPathOrDefault())
	}
	if cfg.ListenAddrOrDefault() != ":8080" {
		t.Errorf("listen_addr got %s", cfg.ListenAddrOrDefault())
	}
	if cfg.Providers.LLM != "openai" || cfg.Providers.Embedding != "openai" {
		t.Errorf("providers got %+v", cfg.Providers)
	}
}

func TestCacheSimilarityCutoffComparesAgainstScores(t *testing.T) {
	// qdrant scores are float32; the cutoff must be too
	var score float32 = 0.99
	if !(score >= CacheSimilarityCutoff) {
		t.Error("score above the cutoff should count as a cache hit")
	}
}
