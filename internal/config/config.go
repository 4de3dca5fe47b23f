package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database    DatabaseConfig `yaml:"database"`
	Server      ServerConfig   `yaml:"server"`
	Schedule    ScheduleConfig `yaml:"schedule"`
	Sources     SourcesConfig  `yaml:"sources"`
	Methodology Methodology    `yaml:"methodology"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ScheduleConfig configures collection and scoring intervals.
type ScheduleConfig struct {
	CollectInterval string `yaml:"collect_interval"`
	ScoreInterval   string `yaml:"score_interval"`
}

// ParseCollectInterval returns the collect interval as time.Duration.
func (s ScheduleConfig) ParseCollectInterval() time.Duration {
	d, err := time.ParseDuration(s.CollectInterval)
	if err != nil {
		return time.Hour
	}
	return d
}

// ParseScoreInterval returns the scoring interval as time.Duration.
func (s ScheduleConfig) ParseScoreInterval() time.Duration {
	d, err := time.ParseDuration(s.ScoreInterval)
	if err != nil {
		return 2 * time.Hour
	}
	return d
}

// SourcesConfig holds configuration for all ingest sources.
type SourcesConfig struct {
	ReviewFeeds   []ReviewFeedConfig   `yaml:"review_feeds"`
	AudiencePages []AudiencePageConfig `yaml:"audience_pages"`
}

// ReviewFeedConfig is a single outlet review feed.
type ReviewFeedConfig struct {
	Outlet string `yaml:"outlet"`
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
}

// AudiencePageConfig is a single audience-platform production page.
type AudiencePageConfig struct {
	Platform   string `yaml:"platform"`
	Production string `yaml:"production"`
	URL        string `yaml:"url"`
}

// Methodology is the versioned scoring configuration. Every aggregator call
// receives one snapshot of it; identical inputs plus an identical methodology
// version always yield identical output.
type Methodology struct {
	Version string `yaml:"version"`

	// Outlet trust: outlet id -> tier (1 most authoritative), tier -> weight.
	Outlets     map[string]int  `yaml:"outlets"`
	TierWeights map[int]float64 `yaml:"tier_weights"`

	// Audience platform trust weights.
	Platforms             map[string]float64 `yaml:"platforms"`
	DefaultPlatformWeight float64            `yaml:"default_platform_weight"`

	// Letter grade -> score. Strictly decreasing from A+ down to F.
	Grades map[string]float64 `yaml:"grades"`

	// Sentiment keyword vocabulary, matched in priority order.
	Sentiments []SentimentKeyword `yaml:"sentiments"`

	// Designation tag -> additive bonus (never negative).
	Designations map[string]float64 `yaml:"designations"`

	Blend               BlendWeights    `yaml:"blend"`
	DivergenceThreshold float64         `yaml:"divergence_threshold"`
	Buzz                BuzzTuning      `yaml:"buzz"`
	Confidence          ConfidenceRules `yaml:"confidence"`
}

// SentimentKeyword maps a review-text keyword to a fixed score.
type SentimentKeyword struct {
	Keyword string  `yaml:"keyword"`
	Score   float64 `yaml:"score"`
}

// BlendWeights are the nominal per-family composite weights. Absent families
// are zeroed and the rest renormalized at blend time.
type BlendWeights struct {
	Critic   float64 `yaml:"critic"`
	Audience float64 `yaml:"audience"`
	Buzz     float64 `yaml:"buzz"`
}

// BuzzTuning configures the discussion-activity aggregator.
type BuzzTuning struct {
	BaselineThreads   int                `yaml:"baseline_threads"`
	VolumeCap         float64            `yaml:"volume_cap"`
	RecencyWindowDays int                `yaml:"recency_window_days"`
	StalenessPenalty  float64            `yaml:"staleness_penalty"`
	SentimentValues   map[string]float64 `yaml:"sentiment_values"`
}

// RecencyWindow returns the recency window as a duration.
func (b BuzzTuning) RecencyWindow() time.Duration {
	return time.Duration(b.RecencyWindowDays) * 24 * time.Hour
}

// ConfidenceRules configures the additive-point confidence assessment.
type ConfidenceRules struct {
	BasePoints        int `yaml:"base_points"`
	MinReviews        int `yaml:"min_reviews"`
	StrongReviews     int `yaml:"strong_reviews"`
	DivergencePenalty int `yaml:"divergence_penalty"`
	PreviewsPenalty   int `yaml:"previews_penalty"`
	HighCutoff        int `yaml:"high_cutoff"`
	MediumCutoff      int `yaml:"medium_cutoff"`
}

// LowestTierWeight returns the smallest configured tier weight. Unknown
// outlets resolve to tier 3 with this weight.
func (m *Methodology) LowestTierWeight() float64 {
	lowest := 0.0
	first := true
	for _, w := range m.TierWeights {
		if first || w < lowest {
			lowest = w
			first = false
		}
	}
	return lowest
}

// DefaultMethodology returns methodology version 2025.1, the single
// authoritative rule set this build scores with.
func DefaultMethodology() Methodology {
	return Methodology{
		Version: "2025.1",
		Outlets: map[string]int{
			"nytimes":            1,
			"washington-post":    1,
			"new-yorker":         1,
			"variety":            2,
			"hollywood-reporter": 2,
			"vulture":            2,
			"timeout":            2,
			"theatermania":       3,
			"broadwayworld":      3,
		},
		TierWeights: map[int]float64{1: 1.5, 2: 1.0, 3: 0.5},
		Platforms: map[string]float64{
			"showscore":    1.0,
			"todaytix":     0.8,
			"google":       0.6,
			"audience-hub": 0.6,
		},
		DefaultPlatformWeight: 0.4,
		Grades: map[string]float64{
			"A+": 98, "A": 95, "A-": 91,
			"B+": 88, "B": 85, "B-": 81,
			"C+": 78, "C": 74, "C-": 70,
			"D+": 65, "D": 60, "D-": 55,
			"F": 40,
		},
		Sentiments: []SentimentKeyword{
			{Keyword: "rave", Score: 90},
			{Keyword: "positive", Score: 75},
			{Keyword: "mixed", Score: 55},
			{Keyword: "negative", Score: 35},
			{Keyword: "pan", Score: 20},
		},
		Designations: map[string]float64{
			"critics-pick":    3,
			"pulitzer-winner": 5,
		},
		Blend: BlendWeights{
			Critic:   0.50,
			Audience: 0.30,
			Buzz:     0.20,
		},
		DivergenceThreshold: 20,
		Buzz: BuzzTuning{
			BaselineThreads:   10,
			VolumeCap:         50,
			RecencyWindowDays: 30,
			StalenessPenalty:  15,
			SentimentValues: map[string]float64{
				"positive": 45,
				"mixed":    25,
				"negative": 5,
			},
		},
		Confidence: ConfidenceRules{
			BasePoints:        5,
			MinReviews:        5,
			StrongReviews:     8,
			DivergencePenalty: 1,
			PreviewsPenalty:   2,
			HighCutoff:        5,
			MediumCutoff:      3,
		},
	}
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./stagepulse.db"},
		Server:   ServerConfig{Port: 8080},
		Schedule: ScheduleConfig{
			CollectInterval: "1h",
			ScoreInterval:   "2h",
		},
		Sources:     SourcesConfig{},
		Methodology: DefaultMethodology(),
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Methodology.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects methodology snapshots the engine cannot score with.
func (m *Methodology) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("methodology: version is required")
	}
	if len(m.TierWeights) == 0 {
		return fmt.Errorf("methodology %s: tier_weights is empty", m.Version)
	}
	for tier := range m.TierWeights {
		if tier < 1 || tier > 3 {
			return fmt.Errorf("methodology %s: tier %d out of range", m.Version, tier)
		}
	}
	for outlet, tier := range m.Outlets {
		if _, ok := m.TierWeights[tier]; !ok {
			return fmt.Errorf("methodology %s: outlet %s references unknown tier %d", m.Version, outlet, tier)
		}
	}
	if m.Blend.Critic+m.Blend.Audience+m.Blend.Buzz <= 0 {
		return fmt.Errorf("methodology %s: blend weights must sum above zero", m.Version)
	}
	for tag, bonus := range m.Designations {
		if bonus < 0 {
			return fmt.Errorf("methodology %s: designation %s has negative bonus", m.Version, tag)
		}
	}
	if m.Buzz.BaselineThreads <= 0 {
		return fmt.Errorf("methodology %s: buzz baseline_threads must be positive", m.Version)
	}
	return nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STAGEPULSE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("STAGEPULSE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}
