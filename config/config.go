package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"minipy/repl"
)

type REPL struct {
	Prompt             string   `yaml:"prompt"`
	ContinuationPrompt string   `yaml:"continuation_prompt"`
	ExitCommands       []string `yaml:"exit_commands"`
	Banner             string   `yaml:"banner"`
	// relative paths are resolved against $HOME
	HistoryFile string `yaml:"history_file"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	REPL REPL `yaml:"repl"`
	Log  Log  `yaml:"log"`
}

func Default() *Config {
	return &Config{
		REPL: REPL{
			Prompt:             repl.PROMPT,
			ContinuationPrompt: repl.CONT_PROMPT,
			ExitCommands:       append([]string(nil), repl.DefaultExitCommands...),
			HistoryFile:        ".minipy_history",
		},
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load decodes the file at path over the defaults. Keys missing from the
// file keep their default value, unknown keys are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.REPL.Prompt == "" {
		return errors.New("repl.prompt must not be empty")
	}
	if c.REPL.ContinuationPrompt == "" {
		return errors.New("repl.continuation_prompt must not be empty")
	}
	if len(c.REPL.ExitCommands) == 0 {
		return errors.New("repl.exit_commands must name at least one command")
	}
	for _, cmd := range c.REPL.ExitCommands {
		if strings.TrimSpace(cmd) == "" {
			return errors.New("repl.exit_commands must not contain blank commands")
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
}

// NewLogger builds the logger described by the log section, writing to w
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// HistoryPath returns the absolute history file, or "" when history is off
// or the home directory is unknown.
func (c *Config) HistoryPath() string {
	path := c.REPL.HistoryFile
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, path)
}

// REPLOptions converts the repl section for repl.Start
func (c *Config) REPLOptions(logger *slog.Logger) repl.Options {
	return repl.Options{
		Prompt:             c.REPL.Prompt,
		ContinuationPrompt: c.REPL.ContinuationPrompt,
		ExitCommands:       c.REPL.ExitCommands,
		Banner:             c.REPL.Banner,
		Logger:             logger,
	}
}
