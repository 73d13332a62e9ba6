package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutDownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
}

type DataConfig struct {
	Backend         string        `mapstructure:"backend"`
	FilePath        string        `mapstructure:"file_path"`
	PersistInterval time.Duration `mapstructure:"persist_interval"`
	RedisURL        string        `mapstructure:"redis_url"`
	RedisKeyPrefix  string        `mapstructure:"redis_key_prefix"`
}

type UpstreamConfig struct {
	Source          string        `mapstructure:"source"`
	FilePath        string        `mapstructure:"file_path"`
	BaseURL         string        `mapstructure:"base_url"`
	Path            string        `mapstructure:"path"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	RefreshOnStart  bool          `mapstructure:"refresh_on_start"`
}

type LanguageConfig struct {
	Slug string `mapstructure:"slug"`
	Name string `mapstructure:"name"`
}

type LocaleConfig struct {
	Languages []LanguageConfig `mapstructure:"languages"`
}

type MiscConfig struct {
	LogLevel          string `mapstructure:"log_level"`
	GinMode           string `mapstructure:"gin_mode"`
	HoneybadgerAPIKey string `mapstructure:"honeybadger_api_key"`
	Env               string `mapstructure:"env"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Data     DataConfig     `mapstructure:"data"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Locale   LocaleConfig   `mapstructure:"locale"`
	Misc     MiscConfig     `mapstructure:"misc"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8084)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 5*time.Second)
	v.SetDefault("server.cors_allowed_origins", "*")

	v.SetDefault("data.backend", "file")
	v.SetDefault("data.file_path", "./config/data/timezones.json")
	v.SetDefault("data.persist_interval", 5*time.Second)
	v.SetDefault("data.redis_url", "")
	v.SetDefault("data.redis_key_prefix", "tzcache:")

	v.SetDefault("upstream.source", "http")
	v.SetDefault("upstream.file_path", "")
	v.SetDefault("upstream.base_url", "https://public-api.wordpress.com")
	v.SetDefault("upstream.path", "/wpcom/v2/timezones")
	v.SetDefault("upstream.timeout", 10*time.Second)
	v.SetDefault("upstream.refresh_interval", 24*time.Hour)
	v.SetDefault("upstream.refresh_on_start", true)

	v.SetDefault("locale.languages", []map[string]string{
		{"slug": "en", "name": "English"},
		{"slug": "es", "name": "Español"},
		{"slug": "fr", "name": "Français"},
		{"slug": "de", "name": "Deutsch"},
		{"slug": "it", "name": "Italiano"},
		{"slug": "pt-br", "name": "Português do Brasil"},
	})

	v.SetDefault("misc.log_level", "info")
	v.SetDefault("misc.gin_mode", "release")
	v.SetDefault("misc.honeybadger_api_key", "")
	v.SetDefault("misc.env", "production")
}

// LoadConfig reads .env, config.yaml from TZCACHE_CONFIG_PATH (default ./config)
// and TZCACHE_* environment variables, in increasing order of precedence.
// PORT overrides server.port.
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getEnvOrDefault("TZCACHE_CONFIG_PATH", "./config"))

	setDefaults(v)

	// TZCACHE_DATA_FILE_PATH overrides data.file_path and so on
	v.SetEnvPrefix("TZCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	port, err := getEnvOrViperPort(v, "PORT", "server.port")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = port

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 || c.Server.ShutDownTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server request timeout must be positive")
	}

	switch c.Data.Backend {
	case "file", "":
		if c.Data.FilePath == "" {
			return errors.New("data file path is required for the file backend")
		}
	case "redis":
		if c.Data.RedisURL == "" {
			return errors.New("redis url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown data backend: %s", c.Data.Backend)
	}
	if c.Data.PersistInterval <= 0 {
		return errors.New("persist interval must be positive")
	}

	switch c.Upstream.Source {
	case "http", "":
		if c.Upstream.BaseURL == "" {
			return errors.New("upstream base url is required")
		}
	case "file":
		if c.Upstream.FilePath == "" {
			return errors.New("upstream file path is required for the file source")
		}
	default:
		return fmt.Errorf("unknown upstream source: %s", c.Upstream.Source)
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream timeout must be positive")
	}
	if c.Upstream.RefreshInterval <= 0 {
		return errors.New("upstream refresh interval must be positive")
	}

	for _, lang := range c.Locale.Languages {
		if lang.Slug == "" {
			return errors.New("locale language slug is required")
		}
	}
	return nil
}

// getEnvOrDefault returns the env value for key, or def when unset or empty.
func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvOrViperPort prefers envKey over the viper value at viperKey.
func getEnvOrViperPort(v *viper.Viper, envKey, viperKey string) (int, error) {
	if raw := os.Getenv(envKey); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", envKey, err)
		}
		return port, nil
	}
	return v.GetInt(viperKey), nil
}
