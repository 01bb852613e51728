// Package config loads fdl's TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/hayeah/fdl/internal/logging"
	"github.com/hayeah/fdl/internal/tree"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "FDL_CONFIG"

// Duration is a time.Duration written as a string such as "100ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// HistoryConfig controls the export history store.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config is the merged configuration.
type Config struct {
	// Exclude lists glob patterns matched against the names of the scan
	// root's immediate children.
	Exclude []string `toml:"exclude"`
	// Gitignore also excludes root-level entries matched by the root .gitignore.
	Gitignore bool `toml:"gitignore"`

	Sort          string   `toml:"sort"`           // name or size
	PollInterval  Duration `toml:"poll_interval"`  // input poll timeout of the browser
	OutputDir     string   `toml:"output_dir"`     // where file exports are written
	Tokenizer     string   `toml:"tokenizer"`      // simple or tiktoken
	TiktokenModel string   `toml:"tiktoken_model"` // model name for the tiktoken encoding

	Log     logging.Config `toml:"log"`
	History HistoryConfig  `toml:"history"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Sort:          "name",
		PollInterval:  Duration{100 * time.Millisecond},
		OutputDir:     ".",
		Tokenizer:     "simple",
		TiktokenModel: "gpt-3.5-turbo",
		Log: logging.Config{
			Level:  "info",
			Format: "json",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
	}
}

// Load reads the config file at path over the defaults. An empty path
// resolves through Locate; a located file that does not exist yields the
// defaults, while an explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = Locate()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Locate returns the config file path from $FDL_CONFIG, then
// $XDG_CONFIG_HOME/fdl/config.toml, then ~/.config/fdl/config.toml. It
// returns "" when no location can be determined.
func Locate() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "fdl", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fdl", "config.toml")
}

func defaultHistoryPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "fdl", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "fdl", "history.db")
}

// Validate checks values that the TOML decoder cannot.
func (c *Config) Validate() error {
	if _, err := tree.ParseCriterion(c.Sort); err != nil {
		return err
	}
	switch c.Tokenizer {
	case "simple", "tiktoken":
	default:
		return fmt.Errorf("unknown tokenizer %q (want simple or tiktoken)", c.Tokenizer)
	}
	if c.PollInterval.Duration <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log level %q (want debug, info, warn or error)", c.Log.Level)
	}
	return nil
}

// SortOrder returns the configured child ordering.
func (c *Config) SortOrder() tree.Criterion {
	order, _ := tree.ParseCriterion(c.Sort)
	return order
}
