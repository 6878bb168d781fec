package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/restoredcdc/warcserve/apps/warcserve/utils"
)

// EnvConfig is the server configuration, read from WARCSERVE_-prefixed
// environment variables with a .env file honored in development.
type EnvConfig struct {
	Hostname    string `envconfig:"HOSTNAME" default:"127.0.0.1"`
	Port        int    `envconfig:"PORT" default:"7070"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Store  string `envconfig:"STORE" default:"bolt"`
	DBPath string `envconfig:"DB_PATH" default:"data/cdc_database.db"`

	ValkeyAddr     string `envconfig:"VALKEY_ADDR"`
	ValkeyPassword string `envconfig:"VALKEY_PASSWORD"`
	ValkeyDB       int    `envconfig:"VALKEY_DB" default:"0"`

	CacheMB   int    `envconfig:"CACHE_MB" default:"256"`
	RulesFile string `envconfig:"RULES_FILE"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"warcserve-backups"`
	S3Region    string `envconfig:"S3_REGION"`
	S3UseSSL    bool   `envconfig:"S3_USE_SSL" default:"true"`
	BackupKeep  int    `envconfig:"BACKUP_KEEP" default:"5"`
}

// ValidateEnv loads and validates the configuration.
func ValidateEnv() (*EnvConfig, error) {
	if utils.IsDev() {
		godotenv.Load()
	}

	var cfg EnvConfig
	if err := envconfig.Process("warcserve", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var errors []string

	if cfg.Port < 1 || cfg.Port > 65535 {
		errors = append(errors, "  WARCSERVE_PORT must be a valid port number")
	}

	switch cfg.Store {
	case "bolt", "valkey":
	default:
		errors = append(errors, "  WARCSERVE_STORE must be \"bolt\" or \"valkey\"")
	}

	if cfg.Store == "valkey" && cfg.ValkeyAddr == "" {
		errors = append(errors, "  WARCSERVE_VALKEY_ADDR is required when WARCSERVE_STORE=valkey")
	}

	if cfg.CacheMB < 0 {
		errors = append(errors, "  WARCSERVE_CACHE_MB must not be negative")
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("environment validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return &cfg, nil
}

// MaskSecret hides most of a credential when printing configuration.
func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// Print writes the effective configuration through fmtr.
func (c *EnvConfig) Print(fmtr func(string, ...interface{})) {
	fmtr("Configuration:\n")
	fmtr("  Environment: %s\n", c.Environment)
	fmtr("  Listen: %s:%d\n", c.Hostname, c.Port)
	fmtr("  Store: %s\n", c.Store)
	if c.Store == "bolt" {
		fmtr("  Database: %s\n", c.DBPath)
	} else {
		fmtr("  Valkey: %s (db %d)\n", c.ValkeyAddr, c.ValkeyDB)
		fmtr("  Valkey password: %s\n", MaskSecret(c.ValkeyPassword))
	}
	fmtr("  Cache: %d MB\n", c.CacheMB)
	if c.RulesFile != "" {
		fmtr("  Rules file: %s\n", c.RulesFile)
	}
}
