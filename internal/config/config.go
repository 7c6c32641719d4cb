// Package config loads the unionbind configuration from defaults, an
// optional YAML file and UNIONBIND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"unionbind/internal/gen"
	"unionbind/internal/table"
)

// DefaultFilename is the config file looked up in the working directory
// when no path is given.
const DefaultFilename = ".unionbind.yaml"

// EnvPrefix prefixes environment overrides, e.g. UNIONBIND_LOG_LEVEL.
const EnvPrefix = "UNIONBIND"

// Config is the tool configuration.
type Config struct {
	// Suffix of generated file names.
	Suffix string `mapstructure:"suffix" validate:"required,endswith=.go,excludes=/"`
	// Table is the binding table file name looked up in package directories.
	Table string `mapstructure:"table" validate:"required,excludes=/"`
	// LogLevel is a logrus level name.
	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	// DebugUnformatted writes .go.unformatted sidecars on formatting failures.
	DebugUnformatted bool `mapstructure:"debug_unformatted"`
	// HeaderComment emits a doc comment on every generated function.
	HeaderComment bool `mapstructure:"header_comment"`
}

var validate = newValidator()

// newValidator reports fields by their config key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
	})

	return v
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Suffix:        gen.DefaultSuffix,
		Table:         table.DefaultFilename,
		LogLevel:      "info",
		HeaderComment: true,
	}
}

// Load reads the configuration. An empty path looks for DefaultFilename in
// the working directory and ignores its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("suffix", d.Suffix)
	v.SetDefault("table", d.Table)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("debug_unformatted", d.DebugUnformatted)
	v.SetDefault("header_comment", d.HeaderComment)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFilename, ".yaml"))
		v.AddConfigPath(".")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = formatFieldError(fe)
	}

	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Level returns the parsed log level.
func (c *Config) Level() logrus.Level {
	lv, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}

	return lv
}

// Generator returns the emitter configuration.
func (c *Config) Generator() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		Suffix:           c.Suffix,
		GenerateComments: c.HeaderComment,
		DebugUnformatted: c.DebugUnformatted,
	}
}

// formatFieldError converts a validator.FieldError to a human-readable message.
func formatFieldError(fe validator.FieldError) string {
	key := fe.Field()

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "endswith":
		return fmt.Sprintf("%s must end with %q, got %q", key, fe.Param(), fe.Value())
	case "excludes":
		return fmt.Sprintf("%s must not contain %q, got %q", key, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}
