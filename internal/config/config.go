package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz Quiz `yaml:"quiz"`
}

// Quiz holds the parsing and delivery limits. They vary per delivery channel,
// so they are configuration rather than constants.
type Quiz struct {
	MaxOptions        int     `yaml:"max_options"`
	MinOptions        int     `yaml:"min_options"`
	MaxOptionLength   int     `yaml:"max_option_length"`
	DeliveryOptionLen int     `yaml:"delivery_option_length"`
	HeuristicWindow   int     `yaml:"heuristic_window"`
	PointsScale       float64 `yaml:"points_scale"`
	CacheTTL          string  `yaml:"cache_ttl"`
	CacheSize         int     `yaml:"cache_size"`
}

// Load reads YAML config from path and fills in defaults for unset limits.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.Quiz = cfg.Quiz.withDefaults()
	return cfg, nil
}

// Default returns a config with only the quiz defaults applied, for callers
// that run without a config file.
func Default() Config {
	cfg := Config{}
	cfg.Quiz = cfg.Quiz.withDefaults()
	return cfg
}

func (q Quiz) withDefaults() Quiz {
	if q.MaxOptions == 0 {
		q.MaxOptions = 4
	}
	if q.MinOptions == 0 {
		q.MinOptions = 2
	}
	if q.MaxOptionLength == 0 {
		q.MaxOptionLength = 150
	}
	if q.DeliveryOptionLen == 0 {
		q.DeliveryOptionLen = 100
	}
	if q.HeuristicWindow == 0 {
		q.HeuristicWindow = 6
	}
	if q.PointsScale == 0 {
		q.PointsScale = 100
	}
	if q.CacheSize == 0 {
		q.CacheSize = 128
	}
	return q
}

// TTLDuration parses a duration string or returns the fallback if empty or
// malformed.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
