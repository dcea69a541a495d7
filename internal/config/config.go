package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	AdapterHTTP     = "http"
	AdapterTerminal = "terminal"
)

var (
	ErrUnknownAdapter  = errors.New("unknown adapter")
	ErrUnknownLogLevel = errors.New("unknown log level")
	ErrInvalidSessions = errors.New("invalid sessions config")
)

type Config struct {
	LogLevel string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Adapter  string   `yaml:"adapter" env:"ADAPTER" env-default:"http"`
	HTTPPort string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Sessions Sessions `yaml:"sessions" env-prefix:"SESSIONS_"`
}

type Sessions struct {
	MaxActive     int           `yaml:"max-active" env:"MAX_ACTIVE" env-default:"1024"`
	IdleTTL       time.Duration `yaml:"idle-ttl" env:"IDLE_TTL" env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"SWEEP_INTERVAL" env-default:"1m"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads the yaml file at path and overlays the environment. A missing file leaves env and defaults only.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, statErr := os.Stat(path)

	var err error
	switch {
	case statErr == nil:
		err = cleanenv.ReadConfig(path, config)
	case errors.Is(statErr, os.ErrNotExist):
		err = cleanenv.ReadEnv(config)
	default:
		err = statErr
	}

	if err != nil {
		return nil, err
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.Adapter {
	case AdapterHTTP, AdapterTerminal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAdapter, that.Adapter)
	}

	switch that.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, that.LogLevel)
	}

	if that.Sessions.MaxActive <= 0 || that.Sessions.IdleTTL <= 0 || that.Sessions.SweepInterval <= 0 {
		return fmt.Errorf("%w: max-active, idle-ttl and sweep-interval must be positive", ErrInvalidSessions)
	}

	return nil
}
