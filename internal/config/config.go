// Package config loads runtime settings from defaults, an optional config
// file and LEDGER_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Rate     RateConfig
	Undo     UndoConfig
	Ledger   LedgerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type StoreConfig struct {
	Driver string
	Path   string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr string
	Key  string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUser     string
	AdminPassword string
}

type RateConfig struct {
	PerSecond float64
	Burst     int
}

type UndoConfig struct {
	Capacity int
}

type LedgerConfig struct {
	Timezone string
	location *time.Location
}

// Location returns the time zone calendar days are evaluated in.
func (l LedgerConfig) Location() *time.Location {
	if l.location == nil {
		return time.Local
	}
	return l.location
}

type LogConfig struct {
	Level       string
	Development bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "inventory_ledger.json")
	v.SetDefault("database.url", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.key", "inventory:ledger")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 15*time.Minute)
	v.SetDefault("auth.admin_user", "admin")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("rate.per_second", 1.0)
	v.SetDefault("rate.burst", 3)
	v.SetDefault("undo.capacity", 10)
	v.SetDefault("ledger.timezone", "Local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load builds a Config. file may be empty; otherwise it must exist.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", "LEDGER_DATABASE_URL", "DATABASE_URL")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			AllowedOrigins:  splitList(v.GetStringSlice("server.allowed_origins")),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
			Path:   v.GetString("store.path"),
		},
		Database: DatabaseConfig{URL: v.GetString("database.url")},
		Redis: RedisConfig{
			Addr: v.GetString("redis.addr"),
			Key:  v.GetString("redis.key"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("auth.jwt_secret"),
			TokenTTL:      v.GetDuration("auth.token_ttl"),
			AdminUser:     v.GetString("auth.admin_user"),
			AdminPassword: v.GetString("auth.admin_password"),
		},
		Rate: RateConfig{
			PerSecond: v.GetFloat64("rate.per_second"),
			Burst:     v.GetInt("rate.burst"),
		},
		Undo:   UndoConfig{Capacity: v.GetInt("undo.capacity")},
		Ledger: LedgerConfig{Timezone: v.GetString("ledger.timezone")},
		Log: LogConfig{
			Level:       strings.ToLower(v.GetString("log.level")),
			Development: v.GetBool("log.development"),
		},
	}
}

// splitList accepts both list values and comma separated env strings.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		errs = append(errs, "server timeouts must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdown_timeout must be positive")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, "server.allowed_origins must list at least one origin")
	}

	switch c.Store.Driver {
	case DriverFile:
		if c.Store.Path == "" {
			errs = append(errs, "store.path is required for the file driver")
		}
	case DriverMemory:
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, "database.url is required for the postgres driver")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, "redis.addr is required for the redis driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q must be one of file, memory, postgres, redis", c.Store.Driver))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, "auth.token_ttl must be positive")
	}
	if c.Rate.PerSecond <= 0 || c.Rate.Burst <= 0 {
		errs = append(errs, "rate.per_second and rate.burst must be positive")
	}
	if c.Undo.Capacity <= 0 {
		errs = append(errs, "undo.capacity must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}

	loc, err := time.LoadLocation(c.Ledger.Timezone)
	if err != nil {
		errs = append(errs, fmt.Sprintf("ledger.timezone %q: %v", c.Ledger.Timezone, err))
	} else {
		c.Ledger.location = loc
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
