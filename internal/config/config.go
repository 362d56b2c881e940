package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// durationSeconds accepts "10s", "5m" or a bare number of seconds ("10").
type durationSeconds time.Duration

// SetValue lets cleanenv fill the field from env vars and env-default tags.
func (d *durationSeconds) SetValue(s string) error {
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = durationSeconds(v)
	return nil
}

// UnmarshalText covers config files (yaml, toml, json).
func (d *durationSeconds) UnmarshalText(text []byte) error {
	return d.SetValue(string(text))
}

func (d durationSeconds) Duration() time.Duration { return time.Duration(d) }

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

type Config struct {
	App  AppConfig  `json:"app" yaml:"app" toml:"app"`
	HTTP HTTPConfig `json:"http" yaml:"http" toml:"http"`
	Log  LogConfig  `json:"log" yaml:"log" toml:"log"`
}

type AppConfig struct {
	TodoFile string `json:"todo_file" yaml:"todo_file" toml:"todo_file" env:"TODO_FILE" env-default:"./todo.json"`
}

type HTTPConfig struct {
	BindAddr    string   `json:"bind_addr" yaml:"bind_addr" toml:"bind_addr" env:"TODO_BIND_ADDR" env-default:"127.0.0.1:3000"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" env:"TODO_CORS_ORIGINS" env-default:"*" env-separator:","`

	ReadTimeout     durationSeconds `json:"read_timeout" yaml:"read_timeout" toml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    durationSeconds `json:"write_timeout" yaml:"write_timeout" toml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     durationSeconds `json:"idle_timeout" yaml:"idle_timeout" toml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout durationSeconds `json:"shutdown_timeout" yaml:"shutdown_timeout" toml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level" env:"TODO_LOG_LEVEL" env-default:"info"`
	Format string `json:"format" yaml:"format" toml:"format" env:"TODO_LOG_FORMAT" env-default:"text"`
}

// Load reads the environment, or the file at path overlaid by the
// environment when path is not empty.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}
