package config

import (
	"errors"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config is the top-level catalogctl configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api" yaml:"api"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Mock     MockConfig     `mapstructure:"mock" yaml:"mock"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit  float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second, 0 = unlimited
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
}

// DefaultsConfig holds default values for list operations.
type DefaultsConfig struct {
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// UIConfig holds interactive timing settings.
type UIConfig struct {
	AlertDuration time.Duration `mapstructure:"alert_duration" yaml:"alert_duration"`
	RedirectDelay time.Duration `mapstructure:"redirect_delay" yaml:"redirect_delay"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
	File   string `mapstructure:"file" yaml:"file"`     // TUI sessions log here; empty discards
}

// MockConfig configures the development backend.
type MockConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Validate checks the settings Load cannot fix up by itself.
func (c Config) Validate() error {
	return validation.Errors{
		"api":      c.API.Validate(),
		"defaults": c.Defaults.Validate(),
		"log":      c.Log.Validate(),
	}.Filter()
}

func (a APIConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&a.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&a.RateLimit, validation.Min(0.0)),
		validation.Field(&a.RetryDelay, validation.Min(time.Duration(0))),
	)
}

func (d DefaultsConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.PageSize, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("trace", "debug", "info", "warn", "error", "disabled")),
		validation.Field(&l.Format, validation.In("console", "json")),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http or https URL")
	}
	return nil
}
