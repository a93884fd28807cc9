package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"trade-stats/internal/stats"
	"trade-stats/internal/types"
)

type Config struct {
	Timezone               string               `yaml:"timezone"`
	RecentDays             int                  `yaml:"recent_days"`
	RecentTransactionCount int                  `yaml:"recent_transaction_count"`
	ItemChartLimit         int                  `yaml:"item_chart_limit"`
	Categories             []types.CategoryRule `yaml:"categories"`
	Source                 struct {
		Kind       string `yaml:"kind"`
		JournalDir string `yaml:"journal_dir"`
		HTMLPath   string `yaml:"html_path"`
		Exchange   string `yaml:"exchange"`
	} `yaml:"source"`
	Cache struct {
		TTLMinutes     int `yaml:"ttl_minutes"`
		ResolutionSecs int `yaml:"resolution_seconds"`
	} `yaml:"cache"`
	Report struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
	} `yaml:"report"`
	Journal struct {
		RetentionDays int  `yaml:"retention_days"`
		Mirror        bool `yaml:"mirror"`
	} `yaml:"journal"`
}

func (c *Config) Validate() error {
	if c.RecentDays <= 0 {
		return fmt.Errorf("recent_days must be set to a positive number of days, got %d", c.RecentDays)
	}
	if c.RecentTransactionCount <= 0 {
		return fmt.Errorf("recent_transaction_count must be positive, got %d", c.RecentTransactionCount)
	}
	if c.ItemChartLimit < 0 {
		return fmt.Errorf("item_chart_limit must not be negative, got %d", c.ItemChartLimit)
	}
	switch c.Source.Kind {
	case "JOURNAL":
		if c.Source.JournalDir == "" {
			return errors.New("source.journal_dir is required for JOURNAL source")
		}
	case "HTML":
		if c.Source.HTMLPath == "" {
			return errors.New("source.html_path is required for HTML source")
		}
	case "KITE":
	default:
		return fmt.Errorf("invalid source.kind '%s': must be 'JOURNAL', 'HTML' or 'KITE'", c.Source.Kind)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return c.StatsConfig().Validate()
}

// Location resolves Timezone; empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *Config) StatsConfig() stats.Config {
	return stats.Config{
		RecentDays:             c.RecentDays,
		RecentTransactionCount: c.RecentTransactionCount,
		ItemChartLimit:         c.ItemChartLimit,
		CategoryRules:          c.Categories,
	}
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

func (c *Config) CacheResolution() time.Duration {
	return time.Duration(c.Cache.ResolutionSecs) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Source.Kind == "" {
		c.Source.Kind = "JOURNAL"
	}
	if c.Source.JournalDir == "" {
		c.Source.JournalDir = "logs/transactions"
	}
	if c.Source.Exchange == "" {
		c.Source.Exchange = "NSE"
	}
	// categories: absent means the stock rule set, an explicit empty list
	// means everything is Other
	if c.Categories == nil {
		c.Categories = stats.DefaultCategoryRules()
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = 30
	}
	if c.Cache.ResolutionSecs == 0 {
		c.Cache.ResolutionSecs = 60
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "reports"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
