package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultSecret = "default-secret"

var ErrDatabaseURLRequired = errors.New("database_url is required")

type GitHubOauth struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type Config struct {
	Debug                 bool          `yaml:"debug"`
	Dev                   bool          `yaml:"dev"`
	Host                  string        `yaml:"host"`
	Port                  string        `yaml:"port"`
	BaseURL               string        `yaml:"base_url"`
	Secret                string        `yaml:"secret"`
	DatabaseURL           string        `yaml:"database_url"`
	MigrationSource       string        `yaml:"migration_source"`
	RedisURL              string        `yaml:"redis_url"`
	FormCacheTTL          time.Duration `yaml:"form_cache_ttl"`
	OtelCollectorUrl      string        `yaml:"otel_collector_url"`
	AllowOrigins          []string      `yaml:"allow_origins"`
	AccessTokenExpiration time.Duration `yaml:"access_token_expiration"`
	AdminAllowedList      []string      `yaml:"admin_allowed_list"`
	GitHubOauth           GitHubOauth   `yaml:"github_oauth"`
}

type LogBuffer struct {
	entries []logEntry
}

type logEntry struct {
	level  string
	msg    string
	fields []zap.Field
}

func (b *LogBuffer) Info(msg string, fields ...zap.Field) {
	b.entries = append(b.entries, logEntry{level: "info", msg: msg, fields: fields})
}

func (b *LogBuffer) Warn(msg string, fields ...zap.Field) {
	b.entries = append(b.entries, logEntry{level: "warn", msg: msg, fields: fields})
}

// FlushToZap replays the messages collected before the logger existed.
func (b *LogBuffer) FlushToZap(logger *zap.Logger) {
	for _, e := range b.entries {
		switch e.level {
		case "warn":
			logger.Warn(e.msg, e.fields...)
		default:
			logger.Info(e.msg, e.fields...)
		}
	}
	b.entries = nil
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	return nil
}

func Default() Config {
	return Config{
		Host:                  "localhost",
		Port:                  "8080",
		BaseURL:               "http://localhost:8080",
		Secret:                DefaultSecret,
		MigrationSource:       "file://internal/database/migrations",
		FormCacheTTL:          5 * time.Minute,
		AllowOrigins:          []string{"*"},
		AccessTokenExpiration: 24 * time.Hour,
	}
}

// Load builds the configuration from defaults, the optional CONFIG_FILE, a .env
// file and finally the process environment, each layer overriding the last.
func Load() (Config, *LogBuffer) {
	logger := &LogBuffer{}
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		err := FromFile(path, &cfg)
		if err != nil {
			logger.Warn("Failed to load config file, skipping", zap.String("path", path), zap.Error(err))
		} else {
			logger.Info("Loaded config file", zap.String("path", path))
		}
	}

	err := godotenv.Load()
	if err != nil {
		logger.Info("No .env file loaded", zap.String("reason", err.Error()))
	}

	for _, warning := range FromEnv(&cfg, os.LookupEnv) {
		logger.Warn(warning)
	}

	return cfg, logger
}

func FromFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	err = yaml.Unmarshal(raw, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// FromEnv overrides cfg with every key present in the environment and returns
// a warning for each value it could not parse.
func FromEnv(cfg *Config, lookup func(string) (string, bool)) []string {
	var warnings []string

	boolean := func(key string, target *bool) {
		if v, ok := lookup(key); ok {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("ignoring %s=%q: not a boolean", key, v))
				return
			}
			*target = parsed
		}
	}
	text := func(key string, target *string) {
		if v, ok := lookup(key); ok {
			*target = v
		}
	}
	duration := func(key string, target *time.Duration) {
		if v, ok := lookup(key); ok {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("ignoring %s=%q: not a duration", key, v))
				return
			}
			*target = parsed
		}
	}
	list := func(key string, target *[]string) {
		if v, ok := lookup(key); ok {
			*target = splitList(v)
		}
	}

	boolean("DEBUG", &cfg.Debug)
	boolean("DEV", &cfg.Dev)
	text("HOST", &cfg.Host)
	text("PORT", &cfg.Port)
	text("BASE_URL", &cfg.BaseURL)
	text("SECRET", &cfg.Secret)
	text("DATABASE_URL", &cfg.DatabaseURL)
	text("MIGRATION_SOURCE", &cfg.MigrationSource)
	text("REDIS_URL", &cfg.RedisURL)
	duration("FORM_CACHE_TTL", &cfg.FormCacheTTL)
	text("OTEL_COLLECTOR_URL", &cfg.OtelCollectorUrl)
	list("ALLOW_ORIGINS", &cfg.AllowOrigins)
	duration("ACCESS_TOKEN_EXPIRATION", &cfg.AccessTokenExpiration)
	list("ADMIN_ALLOWED_LIST", &cfg.AdminAllowedList)
	text("GITHUB_OAUTH_CLIENT_ID", &cfg.GitHubOauth.ClientID)
	text("GITHUB_OAUTH_CLIENT_SECRET", &cfg.GitHubOauth.ClientSecret)

	return warnings
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
