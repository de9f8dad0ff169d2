package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	HTTP     HTTPConfig     `yaml:"http"`
	Telegram TelegramConfig `yaml:"telegram"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LiveTTL  time.Duration `yaml:"live_ttl"` // How long a cached live score stays valid
}

type HTTPConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"` // Usually overridden via TELEGRAM_BOT_TOKEN env var
	ChatID   int64  `yaml:"chat_id"`
}

// ScoringConfig sets the default match rules applied when a match is
// created without explicit rules. Per-match rules stored with the
// match always win.
type ScoringConfig struct {
	OversPerInnings    int  `yaml:"overs_per_innings"`
	BallsPerOver       int  `yaml:"balls_per_over"`
	WideRuns           int  `yaml:"wide_runs"`
	NoBallRuns         int  `yaml:"no_ball_runs"`
	WideCountsAsBall   bool `yaml:"wide_counts_as_ball"`
	NoBallCountsAsBall bool `yaml:"no_ball_counts_as_ball"`
	LastManStanding    bool `yaml:"last_man_standing"`
	MaxOversPerBowler  int  `yaml:"max_overs_per_bowler"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`  // JSON handler instead of text
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Scoring.OversPerInnings == 0 {
		c.Scoring.OversPerInnings = 20
	}
	if c.Scoring.BallsPerOver == 0 {
		c.Scoring.BallsPerOver = 6
	}
	if c.Scoring.WideRuns == 0 {
		c.Scoring.WideRuns = 1
	}
	if c.Scoring.NoBallRuns == 0 {
		c.Scoring.NoBallRuns = 1
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadHeaderTimeout == 0 {
		c.HTTP.ReadHeaderTimeout = 10 * time.Second
	}
	if c.Redis.LiveTTL == 0 {
		c.Redis.LiveTTL = 30 * time.Second
	}
}
