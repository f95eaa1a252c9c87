package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/schoolatlas/schoolatlas-backend/internal/platform/envutil"
)

// MatcherConfig tunes the catalog matcher.
type MatcherConfig struct {
	// DefaultThreshold is the minimum similarity for bulk auto-merge.
	DefaultThreshold float64 `yaml:"default_threshold"`
	// MaxCandidates caps the shortlist shown per pipeline school.
	MaxCandidates int `yaml:"max_candidates"`
}

// AggregationConfig tunes the recalculation pipeline.
type AggregationConfig struct {
	// NarrativeModel overrides the text-generation model for narrative
	// resynthesis; empty uses the client default.
	NarrativeModel string `yaml:"narrative_model"`
	// NarrativeMaxTokens is the token budget for one resynthesis call.
	NarrativeMaxTokens int `yaml:"narrative_max_tokens"`
	// TranscriptLimit caps how many approved reviews feed one transcript.
	TranscriptLimit int `yaml:"transcript_limit"`
}

type Config struct {
	Matcher     MatcherConfig     `yaml:"matcher"`
	Aggregation AggregationConfig `yaml:"aggregation"`
}

func Default() Config {
	return Config{
		Matcher: MatcherConfig{
			DefaultThreshold: 0.7,
			MaxCandidates:    3,
		},
		Aggregation: AggregationConfig{
			NarrativeMaxTokens: 1200,
			TranscriptLimit:    50,
		},
	}
}

// Load reads the tuning file named by ATLAS_CONFIG_PATH (default
// config/atlas.yaml), overlaying it on defaults. A missing file is not an
// error; a malformed one is.
func Load() (Config, error) {
	cfg := Default()

	path := envutil.String("ATLAS_CONFIG_PATH", "config/atlas.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Matcher.DefaultThreshold <= 0 || cfg.Matcher.DefaultThreshold > 1 {
		cfg.Matcher.DefaultThreshold = Default().Matcher.DefaultThreshold
	}
	if cfg.Matcher.MaxCandidates <= 0 {
		cfg.Matcher.MaxCandidates = Default().Matcher.MaxCandidates
	}
	return cfg, nil
}
