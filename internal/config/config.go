package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the runtime settings of dinemenu.
type Config struct {
	APIBase       string
	PollInterval  time.Duration
	ButtonTimeout time.Duration
	SpawnTimeout  time.Duration
	Timezone      string
	EntriesPath   string
	ListenAddr    string
	NATSURL       string
	LogLevel      string
}

const (
	DefaultConfigPath = "~/.config/dinemenu/config.toml"

	defaultAPIBase       = "https://apiv4.dineoncampus.com"
	defaultPollInterval  = 5 * time.Minute
	defaultButtonTimeout = 30 * time.Second
	defaultSpawnTimeout  = time.Minute
	defaultEntriesPath   = "~/.config/dinemenu/entries.toml"
	defaultListenAddr    = "127.0.0.1:8787"
	defaultLogLevel      = "info"

	envPrefix = "DINEMENU_"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		APIBase:       defaultAPIBase,
		PollInterval:  defaultPollInterval,
		ButtonTimeout: defaultButtonTimeout,
		SpawnTimeout:  defaultSpawnTimeout,
		EntriesPath:   mustExpand(defaultEntriesPath),
		ListenAddr:    defaultListenAddr,
		LogLevel:      defaultLogLevel,
	}
}

type fileConfig struct {
	APIBase       string `toml:"api_base"`
	PollInterval  string `toml:"poll_interval"`
	ButtonTimeout string `toml:"button_timeout"`
	SpawnTimeout  string `toml:"spawn_timeout"`
	Timezone      string `toml:"timezone"`
	EntriesPath   string `toml:"entries_path"`
	ListenAddr    string `toml:"listen_addr"`
	NATSURL       string `toml:"nats_url"`
	LogLevel      string `toml:"log_level"`
}

// Load parses the config file at path (the default location when empty),
// then applies .env and DINEMENU_* environment overrides. A missing config
// file or .env yields the defaults; a malformed .env is an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&raw)

	cfg := Default()
	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if cfg.PollInterval, err = durationOr(raw.PollInterval, cfg.PollInterval, "poll_interval"); err != nil {
		return Config{}, err
	}
	if cfg.ButtonTimeout, err = durationOr(raw.ButtonTimeout, cfg.ButtonTimeout, "button_timeout"); err != nil {
		return Config{}, err
	}
	if cfg.SpawnTimeout, err = durationOr(raw.SpawnTimeout, cfg.SpawnTimeout, "spawn_timeout"); err != nil {
		return Config{}, err
	}
	cfg.Timezone = strings.TrimSpace(raw.Timezone)
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	if v := strings.TrimSpace(raw.EntriesPath); v != "" {
		expanded, err := ExpandPath(v)
		if err != nil {
			return Config{}, fmt.Errorf("entries_path: %w", err)
		}
		cfg.EntriesPath = expanded
	}
	if v := strings.TrimSpace(raw.ListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	cfg.NATSURL = strings.TrimSpace(raw.NATSURL)
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var raw fileConfig

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func applyEnv(raw *fileConfig) {
	overrides := []struct {
		name string
		dst  *string
	}{
		{"API_BASE", &raw.APIBase},
		{"POLL_INTERVAL", &raw.PollInterval},
		{"BUTTON_TIMEOUT", &raw.ButtonTimeout},
		{"SPAWN_TIMEOUT", &raw.SpawnTimeout},
		{"TIMEZONE", &raw.Timezone},
		{"ENTRIES_PATH", &raw.EntriesPath},
		{"LISTEN_ADDR", &raw.ListenAddr},
		{"NATS_URL", &raw.NATSURL},
		{"LOG_LEVEL", &raw.LogLevel},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(envPrefix + o.name); ok {
			*o.dst = v
		}
	}
}

func durationOr(raw string, fallback time.Duration, field string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", field)
	}
	return d, nil
}

// Location returns the time zone that defines the host calendar day. An
// empty timezone means the system zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	return loc, nil
}

// Logger builds a text logger on w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log_level %q", raw)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(DefaultConfigPath)
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

// ExpandPath resolves a leading "~" and returns an absolute path.
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
