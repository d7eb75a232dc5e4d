package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/charlesng35/askai/internal/completion"
	"github.com/charlesng35/askai/internal/database"
)

// Config represents the runtime configuration. It is read once at start-up and handed
// to constructors explicitly.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Completion CompletionConfig `mapstructure:"completion"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DatabaseConfig describes connection options for the query log database.
type DatabaseConfig struct {
	Driver   string       `mapstructure:"driver"`
	Path     string       `mapstructure:"path"`
	DSN      string       `mapstructure:"dsn"`
	Postgres DBAuthConfig `mapstructure:"postgres"`
	MySQL    DBAuthConfig `mapstructure:"mysql"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Host     string            `mapstructure:"host"`
	Port     int               `mapstructure:"port"`
	Database string            `mapstructure:"database"`
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	Options  map[string]string `mapstructure:"options"`
}

// CompletionConfig selects the model provider.
type CompletionConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Ollama   OllamaConfig  `mapstructure:"ollama"`
}

// OllamaConfig points at a local Ollama host.
type OllamaConfig struct {
	Host string `mapstructure:"host"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus    PrometheusConfig `mapstructure:"prometheus"`
	Health        HealthConfig     `mapstructure:"health_check"`
	StatsSchedule string           `mapstructure:"stats_schedule"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// HealthConfig toggles health endpoints.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadDotEnv copies variables from .env files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := gotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("ASKAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("completion.api_key", "ASKAI_COMPLETION_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("config: bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./queries.db")

	v.SetDefault("completion.provider", completion.ProviderGemini)
	v.SetDefault("completion.model", "")
	v.SetDefault("completion.base_url", completion.DefaultGeminiBaseURL)
	v.SetDefault("completion.timeout", "0s")
	v.SetDefault("completion.ollama.host", completion.DefaultOllamaHost)

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
	v.SetDefault("monitoring.health_check.enabled", true)
	v.SetDefault("monitoring.stats_schedule", "@every 1m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// ConnectionConfig converts the database section into database.Config.
func (c DatabaseConfig) ConnectionConfig() database.Config {
	cfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:   strings.TrimSpace(c.Path),
		DSN:    strings.TrimSpace(c.DSN),
	}

	var auth DBAuthConfig
	switch cfg.Driver {
	case "", "sqlite":
		cfg.Driver = "sqlite"
		return cfg
	case "postgres", "postgresql":
		cfg.Driver = "postgres"
		auth = c.Postgres
	case "mysql":
		auth = c.MySQL
	default:
		// Leave driver as-is to surface unsupported driver error during open.
		return cfg
	}

	cfg.Host = strings.TrimSpace(auth.Host)
	cfg.Port = auth.Port
	cfg.Name = strings.TrimSpace(auth.Database)
	cfg.User = strings.TrimSpace(auth.Username)
	cfg.Password = strings.TrimSpace(auth.Password)
	cfg.Options = auth.Options
	return cfg
}

// ClientConfig converts the completion section into completion.Config.
func (c CompletionConfig) ClientConfig() completion.Config {
	return completion.Config{
		Provider:   strings.TrimSpace(c.Provider),
		Model:      strings.TrimSpace(c.Model),
		APIKey:     strings.TrimSpace(c.APIKey),
		BaseURL:    strings.TrimSpace(c.BaseURL),
		Timeout:    c.Timeout,
		OllamaHost: strings.TrimSpace(c.Ollama.Host),
	}
}
