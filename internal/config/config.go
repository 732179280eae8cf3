// Package config loads surveygen settings from a config file, SURVEYGEN_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SURVEYGEN_SERVER_ADDR
// for server.addr.
const EnvPrefix = "SURVEYGEN"

// Config is the full surveygen configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Render  RenderConfig  `mapstructure:"render"`
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Storage StorageConfig `mapstructure:"storage"`
}

// LoggingConfig controls the slog handler installed by the CLI.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
}

// RenderConfig holds defaults applied to every render.
type RenderConfig struct {
	Renderer string `mapstructure:"renderer"`
	Locale   string `mapstructure:"locale"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Dir is the catalog directory holding survey documents.
	Dir string `mapstructure:"dir"`
	// Watch reloads the catalog when documents change on disk.
	Watch      bool          `mapstructure:"watch"`
	CookieName string        `mapstructure:"cookie_name"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// RedisConfig enables the Redis session store when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// StorageConfig enables the SQLite submission sink when Database is set.
type StorageConfig struct {
	Database string `mapstructure:"database"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Render: RenderConfig{
			Renderer: "html",
			Locale:   "en",
		},
		Server: ServerConfig{
			Addr:       ":8080",
			Dir:        "surveys",
			Watch:      true,
			CookieName: "surveygen_session",
			SessionTTL: 24 * time.Hour,
		},
		Redis: RedisConfig{
			Prefix: "surveygen:session:",
		},
	}
}

// SetDefaults registers default values with v so environment variables can
// override every key.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("render.renderer", defaults.Render.Renderer)
	v.SetDefault("render.locale", defaults.Render.Locale)

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.dir", defaults.Server.Dir)
	v.SetDefault("server.watch", defaults.Server.Watch)
	v.SetDefault("server.cookie_name", defaults.Server.CookieName)
	v.SetDefault("server.session_ttl", defaults.Server.SessionTTL)

	v.SetDefault("redis.addr", defaults.Redis.Addr)
	v.SetDefault("redis.password", defaults.Redis.Password)
	v.SetDefault("redis.db", defaults.Redis.DB)
	v.SetDefault("redis.prefix", defaults.Redis.Prefix)

	v.SetDefault("storage.database", defaults.Storage.Database)
}

// NewViper returns a viper instance with defaults and environment overrides
// registered. When path is non-empty the file is read and must exist;
// otherwise surveygen.yaml is looked up in the working directory and a
// missing file is ignored.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		return v, nil
	}

	v.SetConfigName("surveygen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read surveygen.yaml: %w", err)
		}
	}
	return v, nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}
