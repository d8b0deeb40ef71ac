// Package config loads service configuration from defaults, an optional YAML
// file and REPORTES_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/lvillar/reportes"
	"github.com/lvillar/reportes/canvas"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "REPORTES"

// DefaultFile is read when REPORTES_CONFIG is not set and the file exists.
const DefaultFile = "reportes.yaml"

// Config represents the complete service configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" split_words:"true" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" split_words:"true" validate:"min=1024"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=json text"`
}

// ReportConfig contains document settings shared by every render
type ReportConfig struct {
	BonusTitle       string `yaml:"bonus_title" split_words:"true" validate:"required"`
	AnniversaryTitle string `yaml:"anniversary_title" split_words:"true" validate:"required"`
	Letterhead       string `yaml:"letterhead" split_words:"true" validate:"omitempty,file"`
	Stamp            string `yaml:"stamp" split_words:"true" validate:"oneof=none qr pdf417 code128"`
	Timezone         string `yaml:"timezone" split_words:"true" validate:"omitempty,timezone"`
}

// RateLimitConfig contains rate limiting configuration for the render endpoints
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true"`
	RPS     float64 `yaml:"rps" split_words:"true" validate:"gt=0"`
	Burst   int     `yaml:"burst" split_words:"true" validate:"min=1"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxUploadBytes:  16 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Report: ReportConfig{
			BonusTitle:       "CONGRESO 2025 - RESUMEN DE BONOS",
			AnniversaryTitle: "ANIVERSARIO DICIEMBRE 2025",
			Stamp:            "none",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     5,
			Burst:   10,
		},
	}
}

// Load loads configuration from the config file, if any, and the environment.
func Load() (*Config, error) {
	cfg := Default()

	path, explicit := os.LookupEnv(EnvPrefix + "_CONFIG")
	if !explicit {
		path = DefaultFile
	}
	if err := loadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	// Hosting platforms set PORT; the prefixed variable still wins.
	if _, ok := os.LookupEnv(EnvPrefix + "_SERVER_PORT"); !ok {
		if v, ok := os.LookupEnv("PORT"); ok {
			port, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("failed to load config from env: PORT: %w", err)
			}
			cfg.Server.Port = port
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Validate checks every field against its validation tags.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Location resolves the configured time zone. An empty zone is the local one.
func (r ReportConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(r.Timezone)
}

// GeneratorOptions converts the report settings into generator options.
func (r ReportConfig) GeneratorOptions(log *slog.Logger) ([]reportes.Option, error) {
	loc, err := r.Location()
	if err != nil {
		return nil, fmt.Errorf("report timezone: %w", err)
	}
	stamp, err := canvas.ParseStamp(r.Stamp)
	if err != nil {
		return nil, fmt.Errorf("report stamp: %w", err)
	}
	opts := []reportes.Option{
		reportes.WithLocation(loc),
		reportes.WithStamp(stamp),
		reportes.WithBonusTitle(r.BonusTitle),
		reportes.WithAnniversaryTitle(r.AnniversaryTitle),
	}
	if r.Letterhead != "" {
		opts = append(opts, reportes.WithLetterhead(r.Letterhead))
	}
	if log != nil {
		opts = append(opts, reportes.WithLogger(log))
	}
	return opts, nil
}
