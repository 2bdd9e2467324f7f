package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// DatabaseConfig holds the sqlite store location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig holds the optional cache connection. An empty Addr
// disables caching entirely.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HNConfig controls the Hacker News source client.
type HNConfig struct {
	BaseAPI string `mapstructure:"base_api"`
}

// GitHubConfig controls the code-host reputation signal.
type GitHubConfig struct {
	BaseAPI  string `mapstructure:"base_api"`
	Token    string `mapstructure:"token"`
	CacheTTL string `mapstructure:"cache_ttl"` // duration string, e.g., "6h"
}

// SweepConfig controls ingestion sweeps.
type SweepConfig struct {
	IntervalMinutes  int     `mapstructure:"interval_minutes"`
	WindowMinutes    int     `mapstructure:"window_minutes"`
	MaxStories       int     `mapstructure:"max_stories"`
	BatchSize        int     `mapstructure:"batch_size"`
	KarmaThreshold   int     `mapstructure:"karma_threshold"`
	MinInterestScore float64 `mapstructure:"min_interest_score"`
}

// MonitorConfig controls success re-checks.
type MonitorConfig struct {
	IntervalHours    int `mapstructure:"interval_hours"`
	SuccessThreshold int `mapstructure:"success_threshold"`
}

// MetricsConfig controls the prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	HN       HNConfig       `mapstructure:"hn"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Sweep    SweepConfig    `mapstructure:"sweep"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/hn-gems.db"
	}
	if c.HN.BaseAPI == "" {
		c.HN.BaseAPI = "https://hacker-news.firebaseio.com/v0"
	}
	if c.GitHub.BaseAPI == "" {
		c.GitHub.BaseAPI = "https://api.github.com"
	}
	if c.GitHub.CacheTTL == "" {
		c.GitHub.CacheTTL = "6h"
	}
	if c.Sweep.IntervalMinutes <= 0 {
		c.Sweep.IntervalMinutes = 5
	}
	if c.Sweep.WindowMinutes <= 0 {
		c.Sweep.WindowMinutes = 60
	}
	if c.Sweep.MaxStories <= 0 {
		c.Sweep.MaxStories = 500
	}
	if c.Sweep.BatchSize <= 0 {
		c.Sweep.BatchSize = 25
	}
	if c.Sweep.KarmaThreshold <= 0 {
		c.Sweep.KarmaThreshold = 100
	}
	if c.Sweep.MinInterestScore <= 0 {
		c.Sweep.MinInterestScore = 0.3
	}
	if c.Monitor.IntervalHours <= 0 {
		c.Monitor.IntervalHours = 6
	}
	if c.Monitor.SuccessThreshold <= 0 {
		c.Monitor.SuccessThreshold = 100
	}
}
