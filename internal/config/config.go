package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Redis    RedisConfig    `mapstructure:"redis"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Engine   EngineConfig   `mapstructure:"engine"`
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type RedisConfig struct {
	URI string `mapstructure:"uri"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

// DatasetConfig selects where the surah catalog and line table come from.
// Path is the YAML file for "file" and the database file for "sqlite".
type DatasetConfig struct {
	Source string `mapstructure:"source" validate:"oneof=embedded file sqlite"`
	Path   string `mapstructure:"path" validate:"required_unless=Source embedded"`
}

type EngineConfig struct {
	Boundary string `mapstructure:"boundary" validate:"oneof=cyclic terminal"`
}

type AppConfig struct {
	LocalesDir      string `mapstructure:"locales_dir" validate:"required"`
	DefaultLanguage string `mapstructure:"default_language" validate:"oneof=en ar"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// Load loads configuration from a YAML file with environment variable
// overrides. An empty filename reads the environment only.
func Load(filename string) (*Config, error) {
	v := viper.New()

	// Every key needs a default so AutomaticEnv can override it
	v.SetDefault("telegram.token", "")
	v.SetDefault("redis.uri", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "5s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("dataset.source", "embedded")
	v.SetDefault("dataset.path", "")
	v.SetDefault("engine.boundary", "cyclic")
	v.SetDefault("app.locales_dir", "locales")
	v.SetDefault("app.default_language", "en")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// ValidateBot checks the settings only the Telegram bot needs.
func (c *Config) ValidateBot() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("telegram token is required"))
	}
	if c.Redis.URI == "" {
		errs = append(errs, errors.New("redis URI is required"))
	}
	return errors.Join(errs...)
}
