package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            int    `yaml:"port"`
		Timezone        string `yaml:"timezone"`
		RequestsPerMin  int    `yaml:"requests_per_min"`
		ShutdownSeconds int    `yaml:"shutdown_seconds"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address    string `yaml:"address"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Booking struct {
		RateWindowMinutes int `yaml:"rate_window_minutes"`
		RateLimit         int `yaml:"rate_limit"`
		CancelPenaltyHrs  int `yaml:"cancel_penalty_hours"`
	} `yaml:"booking"`

	Reminders struct {
		Enabled              bool `yaml:"enabled"`
		CheckIntervalMinutes int  `yaml:"check_interval_minutes"`
	} `yaml:"reminders"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		Dir           string `yaml:"dir"`
		IntervalHours int    `yaml:"interval_hours"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/barberbook.db"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "Europe/Madrid"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// BookingRateWindow is the trailing window for the per-client booking cap.
func (c *Config) BookingRateWindow() time.Duration {
	if c.Booking.RateWindowMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Booking.RateWindowMinutes) * time.Minute
}

// BookingRateLimit is the maximum bookings per client inside the window.
func (c *Config) BookingRateLimit() int {
	if c.Booking.RateLimit <= 0 {
		return 4
	}
	return c.Booking.RateLimit
}

// CancelPenaltyWindow is how close to the appointment a cancellation
// must be to degrade the client's reputation.
func (c *Config) CancelPenaltyWindow() time.Duration {
	if c.Booking.CancelPenaltyHrs <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Booking.CancelPenaltyHrs) * time.Hour
}

// ReminderCheckInterval is the reminder loop's scan period.
func (c *Config) ReminderCheckInterval() time.Duration {
	if c.Reminders.CheckIntervalMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Reminders.CheckIntervalMinutes) * time.Minute
}

// BackupInterval is the pause between database backups.
func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}

// RedisTTL is the catalog cache lifetime.
func (c *Config) RedisTTL() time.Duration {
	if c.Redis.TTLSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}
