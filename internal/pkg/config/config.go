package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	Calculator CalculatorConfig `yaml:"calculator"`
	Health     HealthConfig     `yaml:"health"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type ScraperConfig struct {
	Interval       time.Duration    `yaml:"interval"`
	Timeout        time.Duration    `yaml:"timeout"`
	Sports         []string         `yaml:"sports"`
	RawResponseDir string           `yaml:"raw_response_dir"` // empty disables raw payload archival
	CrabSports     CrabSportsConfig `yaml:"crabsports"`
	Pinnacle       PinnacleConfig   `yaml:"pinnacle"`
}

type CrabSportsConfig struct {
	BaseURL   string `yaml:"base_url"`
	SiteURL   string `yaml:"site_url"` // sportsbook frontend, used for cookie bootstrap
	Cookie    string `yaml:"cookie"`   // session cookie; refreshed via headless browser when empty
	UserAgent string `yaml:"user_agent"`
}

type PinnacleConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type CalculatorConfig struct {
	MinEVThreshold   float64 `yaml:"min_ev_threshold"` // e.g. 0.01 for 1%
	HoursAhead       int     `yaml:"hours_ahead"`
	TelegramBotToken string  `yaml:"telegram_bot_token"`
	TelegramChatID   int64   `yaml:"telegram_chat_id"`
}

type HealthConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
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

	return &config, nil
}
