// Package config loads service and CLI settings from a file and NODEGRAPH_*
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log       LogConfig         `mapstructure:"log"`
	Execution ExecutionConfig   `mapstructure:"execution"`
	Server    ServerConfig      `mapstructure:"server"`
	Database  DatabaseConfig    `mapstructure:"database"`
	Tracing   TracingConfig     `mapstructure:"tracing"`
	Host      map[string]string `mapstructure:"host"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ExecutionConfig struct {
	// MaxSteps caps control-flow steps per event. 0 means unlimited.
	MaxSteps int `mapstructure:"max_steps"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	// URL is a PostgreSQL connection string. Empty selects the in-memory store.
	URL string `mapstructure:"url"`
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("execution.max_steps", 1000)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.url", "")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "nodegraph")
	v.SetDefault("tracing.sample_rate", 1.0)
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("log level %q is unknown, using info", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		warnings = append(warnings, fmt.Sprintf("log format %q is unknown, using text", c.Log.Format))
	}
	if c.Execution.MaxSteps < 0 {
		warnings = append(warnings, fmt.Sprintf("execution max_steps %d is negative, treating as unlimited", c.Execution.MaxSteps))
		c.Execution.MaxSteps = 0
	}
	if c.Execution.MaxSteps == 0 {
		warnings = append(warnings, "execution max_steps is 0, control-flow cycles will not terminate")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		warnings = append(warnings, fmt.Sprintf("tracing sample_rate %.2f is outside [0, 1]", c.Tracing.SampleRate))
	}
	return warnings
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("NODEGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	for _, warning := range cfg.Validate() {
		slog.Warn("config", "warning", warning)
	}
	return &cfg, nil
}
