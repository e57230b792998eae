package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultYAML []byte

const defaultBackendURL = "http://localhost:4000/api"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Listing  ListingConfig  `yaml:"listing"`
	Database DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type BackendConfig struct {
	BaseURL            string `yaml:"base_url"`
	Token              string `yaml:"token,omitempty"`
	TimeoutSeconds     int    `yaml:"timeout_seconds,omitempty"`     // Default: 15
	CategoryTTLSeconds int    `yaml:"category_ttl_seconds,omitempty"` // Default: 300
}

type ListingConfig struct {
	PerPage         int `yaml:"per_page"`
	MaxPerPage      int `yaml:"max_per_page"`
	MaxVisiblePages int `yaml:"max_visible_pages"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

func (b BackendConfig) CategoryTTL() time.Duration {
	return time.Duration(b.CategoryTTLSeconds) * time.Second
}

// Load reads the embedded defaults, then the file at path (if any), expands
// environment variables in both, and finally applies direct env overrides.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := decode(defaultYAML, &cfg); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	return yaml.Unmarshal([]byte(expanded), cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("BACKEND_TOKEN"); v != "" {
		cfg.Backend.Token = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.Server.CORSOrigins = append(cfg.Server.CORSOrigins, o)
			}
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8081"
	}
	if strings.TrimSpace(cfg.Backend.BaseURL) == "" {
		cfg.Backend.BaseURL = defaultBackendURL
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 15
	}
	if cfg.Backend.CategoryTTLSeconds < 0 {
		cfg.Backend.CategoryTTLSeconds = 0
	}
	if cfg.Listing.PerPage <= 0 {
		cfg.Listing.PerPage = 12
	}
	if cfg.Listing.MaxPerPage < cfg.Listing.PerPage {
		cfg.Listing.MaxPerPage = cfg.Listing.PerPage
	}
	if cfg.Listing.MaxVisiblePages <= 0 {
		cfg.Listing.MaxVisiblePages = 5
	}
}
