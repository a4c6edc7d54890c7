package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration, loaded from a YAML file
// with environment variable overrides for secrets
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Discord   DiscordConfig   `yaml:"discord"`
	JWT       JWTConfig       `yaml:"jwt"`
	Redis     RedisConfig     `yaml:"redis"`
	Deletion  DeletionConfig  `yaml:"deletion"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

// DiscordConfig holds OAuth application credentials and the API base URL.
// APIBase is overridable so tests can point the client at a local server.
type DiscordConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
	APIBase      string `yaml:"api_base"`
}

// JWTConfig holds session token settings
type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiresDays int    `yaml:"expires_days"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// DeletionConfig holds the deletion pipeline policy knobs. The page bounds
// are policy constants of this service, not Discord protocol limits.
type DeletionConfig struct {
	PreviewPages     int `yaml:"preview_pages"`
	MaxPages         int `yaml:"max_pages"`
	PageSize         int `yaml:"page_size"`
	DeleteIntervalMs int `yaml:"delete_interval_ms"`
	JobTTLHours      int `yaml:"job_ttl_hours"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// RateLimitConfig holds API rate limit settings
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// Load reads the YAML config at path and applies env var overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from APP_ENV, not user input
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Discord.ClientID == "" || cfg.Discord.ClientSecret == "" {
		return nil, fmt.Errorf("discord client_id and client_secret are required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: 3000, Env: "local"},
		Discord: DiscordConfig{
			APIBase: "https://discord.com/api",
		},
		JWT: JWTConfig{ExpiresDays: 7},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			PoolSize: 10,
		},
		Deletion: DeletionConfig{
			PreviewPages:     10,
			MaxPages:         50,
			PageSize:         100,
			DeleteIntervalMs: 200,
			JobTTLHours:      24,
		},
		CORS:      CORSConfig{AllowOrigins: "http://localhost:3000"},
		RateLimit: RateLimitConfig{RequestsPerMinute: 120},
	}
}

// applyEnvOverrides lets secrets and deploy-specific values come from the
// environment so they never land in the config file
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("DISCORD_CLIENT_ID"); v != "" {
		cfg.Discord.ClientID = v
	}
	if v := os.Getenv("DISCORD_CLIENT_SECRET"); v != "" {
		cfg.Discord.ClientSecret = v
	}
	if v := os.Getenv("DISCORD_REDIRECT_URI"); v != "" {
		cfg.Discord.RedirectURI = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}

// DeleteInterval returns the inter-delete pause as a Duration
func (c *DeletionConfig) DeleteInterval() time.Duration {
	return time.Duration(c.DeleteIntervalMs) * time.Millisecond
}

// JobTTL returns how long finished job snapshots are retained
func (c *DeletionConfig) JobTTL() time.Duration {
	return time.Duration(c.JobTTLHours) * time.Hour
}
