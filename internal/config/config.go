// Package config loads service configuration from the environment with an
// optional YAML overlay file.
package config

import (
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the scoring server. Salts and the
// admin-hour auth window are process-wide constants loaded once at startup;
// nothing mutates a Config after Load.
type Config struct {
	Port     int    `env:"SCORING_PORT,default=8080"`
	LogLevel string `env:"SCORING_LOG_LEVEL,default=info"`
	LogFile  string `env:"SCORING_LOG_FILE"`

	Salt      string `env:"SCORING_SALT,default=Otus"`
	AdminSalt string `env:"SCORING_ADMIN_SALT,default=42"`

	RedisAddr string `env:"SCORING_REDIS_ADDR"`
	RedisDB   int    `env:"SCORING_REDIS_DB,default=0"`

	RateLimit int `env:"SCORING_RATE_LIMIT,default=100"`
	RateBurst int `env:"SCORING_RATE_BURST,default=200"`

	AuditLogPath string `env:"SCORING_AUDIT_LOG"`
}

// Load reads configuration from the environment, applying defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	return cfg, nil
}

// fileConfig mirrors Config with pointer fields so an overlay file can set
// only the keys it names.
type fileConfig struct {
	Port      *int    `yaml:"port"`
	LogLevel  *string `yaml:"log_level"`
	LogFile   *string `yaml:"log_file"`
	Salt      *string `yaml:"salt"`
	AdminSalt *string `yaml:"admin_salt"`
	RedisAddr *string `yaml:"redis_addr"`
	RedisDB   *int    `yaml:"redis_db"`
	RateLimit *int    `yaml:"rate_limit"`
	RateBurst *int    `yaml:"rate_burst"`
	AuditLog  *string `yaml:"audit_log"`
}

// ApplyFile overlays settings from a YAML file onto the config. Keys absent
// from the file keep their current values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != nil {
		c.Port = *fc.Port
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.LogFile != nil {
		c.LogFile = *fc.LogFile
	}
	if fc.Salt != nil {
		c.Salt = *fc.Salt
	}
	if fc.AdminSalt != nil {
		c.AdminSalt = *fc.AdminSalt
	}
	if fc.RedisAddr != nil {
		c.RedisAddr = *fc.RedisAddr
	}
	if fc.RedisDB != nil {
		c.RedisDB = *fc.RedisDB
	}
	if fc.RateLimit != nil {
		c.RateLimit = *fc.RateLimit
	}
	if fc.RateBurst != nil {
		c.RateBurst = *fc.RateBurst
	}
	if fc.AuditLog != nil {
		c.AuditLogPath = *fc.AuditLog
	}
	return nil
}
