package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings chatlog reads from its config file.
type Config struct {
	Endpoint        string
	PollInterval    time.Duration // zero disables periodic reloads
	RequestTimeout  time.Duration
	LogFile         string
	LogLevel        string
	LogFormat       string
	IncludeSpeakers []string
	ExcludeSpeakers []string
}

const (
	defaultConfigPath     = "~/.config/chatlog/config.toml"
	defaultLogFile        = "~/.local/state/chatlog/chatlog.log"
	defaultEndpoint       = "127.0.0.1:8080"
	defaultPollInterval   = 5 * time.Second
	defaultRequestTimeout = 5 * time.Second
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Endpoint:       defaultEndpoint,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Endpoint        string   `toml:"endpoint"`
		PollInterval    *int     `toml:"poll_interval"`
		RequestTimeout  int      `toml:"request_timeout"`
		LogFile         string   `toml:"log_file"`
		LogLevel        string   `toml:"log_level"`
		LogFormat       string   `toml:"log_format"`
		IncludeSpeakers []string `toml:"include_speakers"`
		ExcludeSpeakers []string `toml:"exclude_speakers"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if endpoint := strings.TrimSpace(raw.Endpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if raw.PollInterval != nil {
		if *raw.PollInterval < 0 {
			return Config{}, fmt.Errorf("parse config: poll_interval must not be negative")
		}
		cfg.PollInterval = time.Duration(*raw.PollInterval) * time.Second
	}
	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		cfg.LogLevel = level
	}
	if format := strings.ToLower(strings.TrimSpace(raw.LogFormat)); format != "" {
		cfg.LogFormat = format
	}
	cfg.IncludeSpeakers = trimAll(raw.IncludeSpeakers)
	cfg.ExcludeSpeakers = trimAll(raw.ExcludeSpeakers)

	return cfg, nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
