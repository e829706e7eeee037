package config

import (
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

// Configuration is the full service configuration. Values come from an
// optional config file and BBQ_-prefixed environment variables; anything
// unset falls back to the declared defaults.
type Configuration struct {
	Server     Server         `mapstructure:"server"`
	Queue      Queue          `mapstructure:"queue"`
	Auth       Authentication `mapstructure:"auth"`
	DataFolder string         `mapstructure:"dataFolder"`
	LogLevel   string         `mapstructure:"logLevel" default:"info"`
	LogFormat  string         `mapstructure:"logFormat" default:"console"`
}

type Server struct {
	// ServerMode is "prod" or "dev".
	ServerMode string `mapstructure:"mode" default:"dev"`
	HTTPPort   int    `mapstructure:"httpPort" default:"8000"`
}

type Queue struct {
	// Concurrency caps the number of work items per batch.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// Delay is appended after each batch settles.
	Delay time.Duration `mapstructure:"delay" default:"0s"`
	// Interval separates dispatch retries while a batch is in flight.
	Interval time.Duration `mapstructure:"interval" default:"5s"`
}

type Authentication struct {
	Enabled   bool   `mapstructure:"enabled" default:"false"`
	JWTSecret string `mapstructure:"jwtSecret"`
}

// Load reads the configuration from path (optional) and the environment.
func Load(path string) (*Configuration, error) {
	v := viper.New()
	v.SetEnvPrefix("BBQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
