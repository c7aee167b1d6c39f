package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Relevance backends
const (
	ProviderKeyword     = "KEYWORD"
	ProviderHuggingFace = "HUGGINGFACE"
	ProviderGemini      = "GEMINI"
	ProviderOpenAI      = "OPENAI"
	ProviderClaude      = "CLAUDE"
)

// Ticker validators
const (
	ValidatorYahoo  = "YAHOO"
	ValidatorKite   = "KITE"
	ValidatorStatic = "STATIC"
	ValidatorNone   = "NONE"
)

// TimeFilters are the search windows accepted by forum search
var TimeFilters = []string{"hour", "day", "week", "month", "year", "all"}

// DefaultSubreddits are the communities searched when none are configured
var DefaultSubreddits = []string{
	"wallstreetbets", "pennystocks", "valueinvesting",
	"investing", "stockmarket", "stocksandtrading",
	"robinhoodpennystocks", "wallstreetbetselite",
	"shortsqueeze", "dividends",
}

type Config struct {
	Pipeline struct {
		MinWords         int  `yaml:"min_words"`
		RecordRejections bool `yaml:"record_rejections"`
	} `yaml:"pipeline"`
	Language struct {
		MinConfidence float64 `yaml:"min_confidence"`
	} `yaml:"language"`
	Relevance struct {
		Provider       string `yaml:"provider"`
		Model          string `yaml:"model"`
		Endpoint       string `yaml:"endpoint"`
		// %s in RelatedLabel is replaced by the subject
		RelatedLabel   string `yaml:"related_label"`
		UnrelatedLabel string `yaml:"unrelated_label"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		APIKeyEnv      string `yaml:"api_key_env"`
	} `yaml:"relevance"`
	Fetch struct {
		Subreddits       []string `yaml:"subreddits"`
		Feeds            []Feed   `yaml:"feeds"`
		TimeFilter       string   `yaml:"time_filter"`
		Limit            int      `yaml:"limit"`
		RateLimitSeconds int      `yaml:"rate_limit_seconds"`
		TimeoutSeconds   int      `yaml:"timeout_seconds"`
		UserAgent        string   `yaml:"user_agent"`
	} `yaml:"fetch"`
	Validator struct {
		Provider string   `yaml:"provider"`
		Exchange string   `yaml:"exchange"`
		Allow    []string `yaml:"allow"`
	} `yaml:"validator"`
	Cache struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"cache"`
}

// Feed is an RSS/Atom source; URL may contain {subject}
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ValidTimeFilter reports whether f is a forum search window
func ValidTimeFilter(f string) bool {
	for _, tf := range TimeFilters {
		if f == tf {
			return true
		}
	}
	return false
}

func (c *Config) Validate() error {
	if c.Pipeline.MinWords < 0 {
		return fmt.Errorf("pipeline.min_words must be >= 0, got %d", c.Pipeline.MinWords)
	}
	if c.Language.MinConfidence < 0 || c.Language.MinConfidence > 1 {
		return fmt.Errorf("language.min_confidence must be between 0-1, got %.2f", c.Language.MinConfidence)
	}
	switch c.Relevance.Provider {
	case ProviderKeyword, ProviderHuggingFace, ProviderGemini, ProviderOpenAI, ProviderClaude:
	default:
		return fmt.Errorf("relevance.provider must be 'KEYWORD', 'HUGGINGFACE', 'GEMINI', 'OPENAI' or 'CLAUDE', got '%s'", c.Relevance.Provider)
	}
	if !strings.Contains(c.Relevance.RelatedLabel, "%s") {
		return errors.New("relevance.related_label must contain %s for the subject")
	}
	if c.Relevance.RelatedLabel == c.Relevance.UnrelatedLabel {
		return errors.New("relevance labels must differ")
	}
	if !ValidTimeFilter(c.Fetch.TimeFilter) {
		return fmt.Errorf("invalid fetch.time_filter '%s': must be one of %v", c.Fetch.TimeFilter, TimeFilters)
	}
	if len(c.Fetch.Subreddits) == 0 && len(c.Fetch.Feeds) == 0 {
		return errors.New("fetch needs at least one subreddit or feed")
	}
	switch c.Validator.Provider {
	case ValidatorYahoo, ValidatorKite, ValidatorNone:
	case ValidatorStatic:
		if len(c.Validator.Allow) == 0 {
			return errors.New("validator.allow cannot be empty for STATIC validator")
		}
	default:
		return fmt.Errorf("validator.provider must be 'YAHOO', 'KITE', 'STATIC' or 'NONE', got '%s'", c.Validator.Provider)
	}
	return nil
}

// applyDefaults fills zero values with the values the scanner was designed around
func (c *Config) applyDefaults() {
	if c.Pipeline.MinWords == 0 {
		c.Pipeline.MinWords = 50
	}
	if c.Relevance.Provider == "" {
		c.Relevance.Provider = ProviderKeyword
	}
	c.Relevance.Provider = strings.ToUpper(c.Relevance.Provider)
	if c.Relevance.RelatedLabel == "" {
		c.Relevance.RelatedLabel = "related to %s stock analysis"
	}
	if c.Relevance.UnrelatedLabel == "" {
		c.Relevance.UnrelatedLabel = "not related to stock analysis"
	}
	if c.Relevance.TimeoutSeconds == 0 {
		c.Relevance.TimeoutSeconds = 60
	}
	if c.Relevance.Model == "" {
		switch c.Relevance.Provider {
		case ProviderHuggingFace:
			c.Relevance.Model = "facebook/bart-large-mnli"
		case ProviderGemini:
			c.Relevance.Model = "gemini-1.5-flash"
		case ProviderOpenAI:
			c.Relevance.Model = "gpt-4o-mini"
		case ProviderClaude:
			c.Relevance.Model = "claude-3-5-haiku-latest"
		}
	}
	if c.Relevance.APIKeyEnv == "" {
		switch c.Relevance.Provider {
		case ProviderHuggingFace:
			c.Relevance.APIKeyEnv = "HF_API_TOKEN"
		case ProviderGemini:
			c.Relevance.APIKeyEnv = "GEMINI_API_KEY"
		case ProviderOpenAI:
			c.Relevance.APIKeyEnv = "OPENAI_API_KEY"
		case ProviderClaude:
			c.Relevance.APIKeyEnv = "CLAUDE_API_KEY"
		}
	}
	if len(c.Fetch.Subreddits) == 0 && len(c.Fetch.Feeds) == 0 {
		c.Fetch.Subreddits = append([]string(nil), DefaultSubreddits...)
	}
	if c.Fetch.TimeFilter == "" {
		c.Fetch.TimeFilter = "week"
	}
	c.Fetch.TimeFilter = strings.ToLower(c.Fetch.TimeFilter)
	if c.Fetch.Limit == 0 {
		c.Fetch.Limit = 50
	}
	if c.Fetch.RateLimitSeconds == 0 {
		c.Fetch.RateLimitSeconds = 2
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 30
	}
	if c.Validator.Provider == "" {
		c.Validator.Provider = ValidatorYahoo
	}
	c.Validator.Provider = strings.ToUpper(c.Validator.Provider)
	if c.Validator.Exchange == "" {
		c.Validator.Exchange = "NSE"
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = 60
	}
}

// DefaultConfig returns a validated configuration with every default applied
func DefaultConfig() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// ParseConfig decodes YAML, applies defaults and validates
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// LoadConfig reads the YAML file at path. A missing file yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}
