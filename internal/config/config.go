package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/catalogctl/internal/util"
)

// EnvPrefix prefixes every environment override, e.g. CATALOGCTL_API_BASE_URL.
const EnvPrefix = "CATALOGCTL"

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "catalogctl", "config.yml")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "https://localhost:7115/api/v1",
			Timeout:    30 * time.Second,
			RetryDelay: time.Second,
		},
		Defaults: DefaultsConfig{PageSize: 10},
		UI: UIConfig{
			AlertDuration: 5 * time.Second,
			RedirectDelay: 2 * time.Second,
		},
		Log:  LogConfig{Level: "info", Format: "console"},
		Mock: MockConfig{Addr: "127.0.0.1:7115"},
	}
}

// Load reads the config from .env, CATALOGCTL_CONFIG (or the default path)
// and the environment. A missing file is fine: init creates it.
func Load() (*Config, error) {
	// .env is optional and never overrides variables already set.
	_ = godotenv.Load()

	path := os.Getenv(EnvPrefix + "_CONFIG")
	if path == "" {
		path = DefaultPath()
	}
	return LoadFile(path)
}

// LoadFile reads the config at path layered over defaults and environment.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.Log.File = ExpandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.rate_limit", d.API.RateLimit)
	v.SetDefault("api.retry_delay", d.API.RetryDelay)
	v.SetDefault("defaults.page_size", d.Defaults.PageSize)
	v.SetDefault("ui.alert_duration", d.UI.AlertDuration)
	v.SetDefault("ui.redirect_delay", d.UI.RedirectDelay)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("mock.addr", d.Mock.Addr)
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	return SaveFile(DefaultPath(), cfg)
}

// SaveFile writes cfg as YAML to path, creating parent directories.
func SaveFile(path string, cfg *Config) error {
	if err := util.EnsureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return enc.Close()
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
