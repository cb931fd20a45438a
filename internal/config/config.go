package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/funa-dev/funa/internal/errors"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = "funa"

	// EnvPrefix prefixes environment overrides (FUNA_SERVE_PORT=8080).
	EnvPrefix = "FUNA"

	// DefaultTemplate is the default HTML document.
	DefaultTemplate = "index.html"

	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultLang is the default converter language.
	DefaultLang = "en"
)

// Config represents the funa.yaml configuration.
type Config struct {
	// Template is the HTML document holding the template declarations.
	Template string `mapstructure:"template"`

	// Name selects the template to render. Empty means the first one.
	Name string `mapstructure:"name"`

	// Data is the JSON or YAML file holding the initial data.
	Data string `mapstructure:"data"`

	// Script is the JavaScript file defining the registries.
	Script string `mapstructure:"script"`

	// Lang is the BCP 47 language of the stock converters.
	Lang string `mapstructure:"lang"`

	// BypassTags are extra tags copied verbatim.
	BypassTags []string `mapstructure:"bypassTags"`

	// Serve configures the preview server.
	Serve ServeConfig `mapstructure:"serve"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// S3 configures s3:// sources.
	S3 S3Config `mapstructure:"s3"`

	// Log configures logging.
	Log LogConfig `mapstructure:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServeConfig contains preview server settings.
type ServeConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// Watch lists extra local files whose changes reload the preview.
	// The template, data and script files are always watched.
	Watch []string `mapstructure:"watch"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Enabled serves /metrics from the preview server.
	Enabled bool `mapstructure:"enabled"`
}

// S3Config contains settings for s3:// sources.
type S3Config struct {
	// Region overrides the region of the default AWS configuration.
	Region string `mapstructure:"region"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Template: DefaultTemplate,
		Lang:     DefaultLang,
		Serve: ServeConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{Enabled: true},
		Log:     LogConfig{Level: "info"},
	}
}

// newViper returns a viper instance with defaults and environment
// overrides installed.
func newViper() *viper.Viper {
	v := viper.New()
	def := New()
	v.SetDefault("template", def.Template)
	v.SetDefault("name", "")
	v.SetDefault("data", "")
	v.SetDefault("script", "")
	v.SetDefault("lang", def.Lang)
	v.SetDefault("bypassTags", []string{})
	v.SetDefault("serve.host", def.Serve.Host)
	v.SetDefault("serve.port", def.Serve.Port)
	v.SetDefault("serve.watch", []string{})
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("s3.region", "")
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from dir. A directory without a configuration
// file yields the defaults, with environment overrides applied.
func Load(dir string) (*Config, error) {
	v := newViper()
	v.SetConfigName(ConfigName)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.New("F100").Wrap(err)
		}
	}
	return decode(v, v.ConfigFileUsed())
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.New("F110").Wrap(err)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.New("F100").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid YAML or JSON")
	}
	return decode(v, path)
}

func decode(v *viper.Viper, path string) (*Config, error) {
	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("F100").Wrap(err)
	}
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	cfg.configPath = path
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// Resolve returns p relative to the configuration directory. Absolute
// paths, s3:// URLs and empty strings are returned unchanged, so resolving
// twice is harmless.
func (c *Config) Resolve(p string) string {
	if p == "" || strings.HasPrefix(p, "s3://") || filepath.IsAbs(p) || c.Dir() == "" {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// Language returns the parsed converter language.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Lang)
	if err != nil {
		return language.English
	}
	return tag
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Template == "" {
		return errors.New("F101").WithDetail("template must not be empty")
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New("F101").WithDetail("serve.port must be between 0 and 65535")
	}
	if _, err := language.Parse(c.Lang); err != nil {
		return errors.New("F101").WithDetail("lang is not a valid language tag: " + c.Lang)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("F101").
			WithDetail("log.level must be debug, info, warn or error").
			WithSuggestion("Use log.level: info")
	}
	return nil
}

// Address returns the address string for the preview server.
func (c *Config) Address() string {
	return c.Serve.Host + ":" + strconv.Itoa(c.Serve.Port)
}

// URL returns the preview server URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}
