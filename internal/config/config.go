package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nexthub/intranet-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry values like "15m" or "24h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full service configuration, loaded from a YAML file and then
// overridden by environment variables.
type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		// DSN, when set, wins over the individual fields below.
		DSN      string `yaml:"dsn"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`
	JWT struct {
		Secret    string   `yaml:"secret"`
		IdPSecret string   `yaml:"idp_secret"`
		ExpiresIn Duration `yaml:"expires_in"`
		RefreshIn Duration `yaml:"refresh_in"`
	} `yaml:"jwt"`
	CORS struct {
		AllowOrigins string `yaml:"allow_origins"`
	} `yaml:"cors"`
	Migrations struct {
		Dir string `yaml:"dir"`
	} `yaml:"migrations"`
}

// Load reads the YAML config at path, applies environment overrides and
// validates required settings. A missing database DSN is a startup error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Redis.Port = 6379
	cfg.Redis.PoolSize = 10
	cfg.JWT.ExpiresIn = Duration(time.Hour)
	cfg.JWT.RefreshIn = Duration(7 * 24 * time.Hour)
	cfg.Migrations.Dir = "content-migrations"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database is not configured: set DATABASE_URL or database.host in %s", path)
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is not configured: set JWT_SECRET or jwt.secret in %s", path)
	}

	return cfg, nil
}

// applyEnvOverrides lets environment variables win over the YAML file.
// Legacy variable names from before the service rename are accepted as
// fallbacks and logged so they can be retired.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := envOr("DATABASE_URL", "PORTAL_DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Redis.Port = p
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := envOr("IDP_JWT_SECRET", "SSO_JWT_SECRET"); v != "" {
		cfg.JWT.IdPSecret = v
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORS.AllowOrigins = v
	}
	if v := os.Getenv("CONTENT_MIGRATIONS_DIR"); v != "" {
		cfg.Migrations.Dir = v
	}
}

// envOr reads name, falling back to the legacy name. Use of the legacy name
// is logged so the rename can eventually be completed.
func envOr(name, legacy string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if v := os.Getenv(legacy); v != "" {
		logger.Info("config: using legacy env var %s; rename it to %s", legacy, name)
		return v
	}
	return ""
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "local" || c.Env == "development" || c.Env == "dev"
}

// LogResolved logs the effective configuration, omitting secrets.
func LogResolved(cfg *Config) {
	logger.Info("config: env=%s port=%d db_host=%s redis=%s:%d migrations_dir=%s",
		cfg.Env, cfg.Server.Port, cfg.Database.Host, cfg.Redis.Host, cfg.Redis.Port, cfg.Migrations.Dir)
}
