package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures everything the client needs to reach the EmoTrack API and
// keep its local state. Every field has a working default so the file is
// optional.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	StateDir string        `yaml:"stateDir"`
	Logging  LoggingConfig `yaml:"logging"`
}

// ServerConfig points at the EmoTrack REST API. The live-update WebSocket
// address is derived from BaseURL, never configured separately.
type ServerConfig struct {
	BaseURL string   `yaml:"baseURL"`
	Timeout Duration `yaml:"timeout"`
}

// Duration accepts Go duration strings ("10s", "1m30s") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("timeout must be a duration string: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DefaultPath returns the conventional config location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "emotrack", "config.yaml")
}

// Load reads the config at path, falling back to defaults when path is empty
// or the file does not exist. An unreadable or invalid file is an error.
func Load(path string) (Config, error) {
	cfg := defaults()
	usedDefaultPath := path == ""
	if usedDefaultPath {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if usedDefaultPath && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	state := ""
	if home, err := os.UserHomeDir(); err == nil {
		state = filepath.Join(home, ".local", "state", "emotrack")
	}
	return Config{
		Server: ServerConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: Duration(10 * time.Second),
		},
		StateDir: state,
		Logging:  LoggingConfig{Level: "info"},
	}
}

func (c Config) validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.baseURL is required")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if c.StateDir == "" {
		return fmt.Errorf("stateDir is required")
	}
	return nil
}
