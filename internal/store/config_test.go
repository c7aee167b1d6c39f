package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Pipeline.MinWords != 50 {
		t.Errorf("Expected MinWords 50, got %d", cfg.Pipeline.MinWords)
	}
	if cfg.Relevance.Provider != ProviderKeyword {
		t.Errorf("Expected KEYWORD provider, got %s", cfg.Relevance.Provider)
	}
	if cfg.Relevance.RelatedLabel != "related to %s stock analysis" {
		t.Errorf("Unexpected related label %q", cfg.Relevance.RelatedLabel)
	}
	if len(cfg.Fetch.Subreddits) != 10 {
		t.Errorf("Expected 10 default subreddits, got %d", len(cfg.Fetch.Subreddits))
	}
	if cfg.Fetch.RateLimitSeconds != 2 {
		t.Errorf("Expected 2s rate limit, got %d", cfg.Fetch.RateLimitSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestParseConfig(t *testing.T) {
	yml := `
pipeline:
  min_words: 80
relevance:
  provider: huggingface
fetch:
  subreddits: [investing]
  time_filter: MONTH
validator:
  provider: static
  allow: [ACME]
`
	cfg, err := ParseConfig([]byte(yml))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Pipeline.MinWords != 80 {
		t.Errorf("Expected MinWords 80, got %d", cfg.Pipeline.MinWords)
	}
	if cfg.Relevance.Provider != ProviderHuggingFace {
		t.Errorf("Expected HUGGINGFACE, got %s", cfg.Relevance.Provider)
	}
	if cfg.Relevance.Model != "facebook/bart-large-mnli" {
		t.Errorf("Expected default HF model, got %s", cfg.Relevance.Model)
	}
	if cfg.Relevance.APIKeyEnv != "HF_API_TOKEN" {
		t.Errorf("Expected HF_API_TOKEN, got %s", cfg.Relevance.APIKeyEnv)
	}
	if cfg.Fetch.TimeFilter != "month" {
		t.Errorf("Expected lower-cased time filter, got %s", cfg.Fetch.TimeFilter)
	}
	if len(cfg.Fetch.Subreddits) != 1 {
		t.Errorf("Configured subreddits should not be replaced by defaults: %v", cfg.Fetch.Subreddits)
	}
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"provider":    "relevance:\n  provider: magic\n",
		"time filter": "fetch:\n  time_filter: decade\n",
		"label":       "relevance:\n  related_label: about stocks\n",
		"static":      "validator:\n  provider: STATIC\n",
		"min words":   "pipeline:\n  min_words: -1\n",
	}
	for name, yml := range cases {
		if _, err := ParseConfig([]byte(yml)); err == nil {
			t.Errorf("%s: expected validation error", name)
		} else if !strings.Contains(err.Error(), "config validation failed") {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got %v", err)
	}
	if cfg.Pipeline.MinWords != 50 {
		t.Errorf("Expected default MinWords, got %d", cfg.Pipeline.MinWords)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  ttl_minutes: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Cache.TTLMinutes != 5 {
		t.Errorf("Expected TTL 5, got %d", cfg.Cache.TTLMinutes)
	}
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "config.example.yaml"))
	if err != nil {
		t.Fatalf("example config should load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Pipeline.MinWords != def.Pipeline.MinWords || cfg.Relevance.Provider != def.Relevance.Provider {
		t.Errorf("example config drifted from defaults")
	}
	if len(cfg.Fetch.Subreddits) != len(DefaultSubreddits) {
		t.Errorf("Expected %d subreddits, got %d", len(DefaultSubreddits), len(cfg.Fetch.Subreddits))
	}
}
