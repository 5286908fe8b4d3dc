package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	defaultAddr            = ":3333"
	defaultDiagAddr        = ":9999"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultRequestTimeout  = 10 * time.Second
	defaultShutdownTimeout = 15 * time.Second

	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultQueryTimeout    = 5 * time.Second
	defaultPingTimeout     = 5 * time.Second

	defaultLogLevel = "info"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Admin    AdminConfig    `koanf:"admin"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	DiagAddr        string        `koanf:"diag_addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds the PostgreSQL connection string and pool settings.
// URL is read from DATABASE_URL.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	QueryTimeout    time.Duration `koanf:"query_timeout"`
	PingTimeout     time.Duration `koanf:"ping_timeout"`
}

// AdminConfig controls the write gate. With Open unset, every write must
// present Password; an empty Password is then refused by Validate.
type AdminConfig struct {
	Password string `koanf:"password"`
	Open     bool   `koanf:"open"`
}

type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// ConfigurationError reports a missing or unusable setting.
type ConfigurationError struct {
	Key     string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Message)
}

// Load reads .env (if present), then the YAML file at path (if present),
// then the process environment. Later sources win. Environment names map to
// keys by lowercasing and turning the first underscore into a dot, so
// DATABASE_URL sets database.url and SERVER_REQUEST_TIMEOUT sets
// server.request_timeout.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	setDefaults(cfg)

	return cfg, nil
}

// envSections are the top-level keys the environment may set. Anything else
// (PATH, HOME, ...) is skipped.
var envSections = map[string]bool{"server": true, "database": true, "admin": true, "log": true}

func envKey(s string) string {
	key := strings.Replace(strings.ToLower(s), "_", ".", 1)

	section := key
	if i := strings.IndexByte(key, '.'); i >= 0 {
		section = key[:i]
	}
	if !envSections[section] || section == key {
		return ""
	}

	return key
}

func setDefaults(cfg *Config) {
	setServerDefaults(&cfg.Server)
	setDatabaseDefaults(&cfg.Database)

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
}

func setServerDefaults(s *ServerConfig) {
	if s.Addr == "" {
		s.Addr = defaultAddr
	}
	if s.DiagAddr == "" {
		s.DiagAddr = defaultDiagAddr
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = defaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = defaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = defaultIdleTimeout
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = defaultRequestTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownTimeout
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = defaultMaxOpenConns
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = defaultMaxIdleConns
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if db.QueryTimeout == 0 {
		db.QueryTimeout = defaultQueryTimeout
	}
	if db.PingTimeout == 0 {
		db.PingTimeout = defaultPingTimeout
	}
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return &ConfigurationError{Key: "database.url", Message: "is required (set DATABASE_URL)"}
	}
	if !c.Admin.Open && c.Admin.Password == "" {
		return &ConfigurationError{
			Key:     "admin.password",
			Message: "is required unless admin.open is set (set ADMIN_PASSWORD)",
		}
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return &ConfigurationError{Key: "database.max_open_conns", Message: "must not be negative"}
	}
	if c.Server.RequestTimeout < 0 || c.Database.QueryTimeout < 0 {
		return &ConfigurationError{Key: "server.request_timeout", Message: "must not be negative"}
	}

	return nil
}
