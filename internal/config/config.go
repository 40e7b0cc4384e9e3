package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
		APIKey  string `yaml:"api_key"`
		// TrustProxy makes rate limiting honor X-Forwarded-For; enable
		// only behind a reverse proxy that overwrites the header.
		TrustProxy bool `yaml:"trust_proxy"`
	} `yaml:"server"`

	State struct {
		Path string `yaml:"path"`
	} `yaml:"state"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Limits struct {
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"limits"`

	Clinics struct {
		Path                  string `yaml:"path"`
		ReloadIntervalSeconds int    `yaml:"reload_interval_seconds"`
	} `yaml:"clinics"`

	Templates struct {
		Path string `yaml:"path"`
	} `yaml:"templates"`
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

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.State.Path == "" {
		cfg.State.Path = "data/organicare.db"
	}
	if cfg.Clinics.Path == "" {
		cfg.Clinics.Path = "configs/clinics.yaml"
	}
	if cfg.Templates.Path == "" {
		cfg.Templates.Path = "configs/templates.yaml"
	}
	if cfg.Redis.CacheTTLSeconds <= 0 {
		cfg.Redis.CacheTTLSeconds = 60
	}
	if cfg.Limits.RequestsPerSecond <= 0 {
		cfg.Limits.RequestsPerSecond = 20
	}
	if cfg.Limits.Burst <= 0 {
		cfg.Limits.Burst = 40
	}

	if err = os.MkdirAll(filepath.Dir(cfg.State.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// CacheTTL returns the redis read-cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

// ClinicsReloadInterval returns how often clinics.yaml is polled for
// changes.
func (c *Config) ClinicsReloadInterval() time.Duration {
	if c.Clinics.ReloadIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Clinics.ReloadIntervalSeconds) * time.Second
}
