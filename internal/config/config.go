package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Config is the full curation configuration. Every optional field has a
// default applied at parse time; section specs are the one thing that must
// be supplied explicitly.
type Config struct {
	Sources   Sources   `yaml:"sources"`
	Interests Interests `yaml:"user_interests"`
	Scoring   Scoring   `yaml:"scoring"`
	Dedup     Dedup     `yaml:"dedup"`
	Brief     Brief     `yaml:"daily_brief"`
	Learning  Learning  `yaml:"learning"`
	Summaries Summaries `yaml:"summaries"`
	Server    Server    `yaml:"server"`
	Output    Output    `yaml:"output"`
	Logging   Logging   `yaml:"logging"`
}

type Sources struct {
	Feeds []Feed `yaml:"feeds"`
}

// Feed is a single RSS feed source.
type Feed struct {
	URL         string  `yaml:"url"`
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Reliability float64 `yaml:"reliability"`
}

// Interests holds the static per-category weights and keyword tiers.
type Interests struct {
	Categories map[string]float64 `yaml:"categories"`
	Keywords   Keywords           `yaml:"keywords"`
}

type Keywords struct {
	HighPriority   []string `yaml:"high_priority"`
	MediumPriority []string `yaml:"medium_priority"`
	LowPriority    []string `yaml:"low_priority"`
}

// Scoring holds the scoring weights and the survival threshold.
type Scoring struct {
	MinScore             float64 `yaml:"min_score"`
	ReliabilityWeight    float64 `yaml:"reliability_weight"`
	HighReliabilityBonus float64 `yaml:"high_reliability_bonus"`
	CrossReferenceBonus  float64 `yaml:"cross_reference_bonus"`
}

type Dedup struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	RelationThreshold   float64 `yaml:"relation_threshold"`
}

type Brief struct {
	Sections []Section `yaml:"sections"`
}

// Section declares one named output bucket. Category is optional; empty
// means the section accepts any category.
type Section struct {
	Name     string `yaml:"name"`
	Count    int    `yaml:"count"`
	Category string `yaml:"category"`
}

type Learning struct {
	DecayAfterDays int     `yaml:"decay_after_days"`
	DecayFactor    float64 `yaml:"decay_factor"`
}

type Summaries struct {
	Enabled             bool   `yaml:"enabled"`
	IncludeWhyItMatters bool   `yaml:"include_why_it_matters"`
	Model               string `yaml:"model"`
	OllamaURL           string `yaml:"ollama_url"`
	OpenRouterModel     string `yaml:"openrouter_model"`
	APIKeyEnv           string `yaml:"api_key_env"`
	MaxArticles         int    `yaml:"max_articles"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Output struct {
	DataDir  string `yaml:"data_dir"`
	HTMLPath string `yaml:"html_path"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for brief.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "brief")
}

// DataDir returns the XDG data directory for brief.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "brief")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/brief/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'brief init' to create a default config",
		xdgConfig,
	)
}

// Load reads, parses, and validates a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults and validating.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Scoring: Scoring{
			MinScore:             0.25,
			ReliabilityWeight:    0.25,
			HighReliabilityBonus: 0.1,
			CrossReferenceBonus:  0.15,
		},
		Dedup: Dedup{
			SimilarityThreshold: 0.7,
			RelationThreshold:   0.5,
		},
		Learning: Learning{
			DecayAfterDays: 30,
			DecayFactor:    0.95,
		},
		Summaries: Summaries{
			Enabled:             true,
			IncludeWhyItMatters: true,
			Model:               "qwen2.5:14b",
			OllamaURL:           "http://localhost:11434",
			OpenRouterModel:     "anthropic/claude-3-haiku",
			APIKeyEnv:           "OPENROUTER_API_KEY",
			MaxArticles:         20,
		},
		Server:  Server{Port: 8090},
		Output:  Output{HTMLPath: "index.html"},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks the parts of the config that have no safe default.
func (c *Config) validate() error {
	if len(c.Brief.Sections) == 0 {
		return fmt.Errorf("config: daily_brief.sections is required and must not be empty")
	}
	seen := make(map[string]bool, len(c.Brief.Sections))
	for i := range c.Brief.Sections {
		s := &c.Brief.Sections[i]
		if s.Name == "" {
			return fmt.Errorf("config: daily_brief.sections[%d] has no name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("config: duplicate section name %q", s.Name)
		}
		seen[s.Name] = true
		if s.Count <= 0 {
			s.Count = 5
		}
	}

	if c.Dedup.SimilarityThreshold <= 0 || c.Dedup.SimilarityThreshold > 1 {
		return fmt.Errorf("config: dedup.similarity_threshold must be in (0, 1], got %v", c.Dedup.SimilarityThreshold)
	}
	if c.Dedup.RelationThreshold <= 0 || c.Dedup.RelationThreshold > c.Dedup.SimilarityThreshold {
		return fmt.Errorf("config: dedup.relation_threshold must be in (0, similarity_threshold], got %v", c.Dedup.RelationThreshold)
	}
	if c.Learning.DecayFactor <= 0 || c.Learning.DecayFactor > 1 {
		return fmt.Errorf("config: learning.decay_factor must be in (0, 1], got %v", c.Learning.DecayFactor)
	}
	for cat, w := range c.Interests.Categories {
		if w < 0 {
			return fmt.Errorf("config: user_interests.categories[%s] must not be negative", cat)
		}
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
