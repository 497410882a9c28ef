package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/chatlog/internal/chatlog"
	"github.com/five82/chatlog/internal/config"
	"github.com/five82/chatlog/internal/logging"
	"github.com/five82/chatlog/internal/prefs"
	"github.com/five82/chatlog/internal/state"
	"github.com/five82/chatlog/internal/ui"
)

// Version is reported by the CLI and sent in the User-Agent header.
const Version = "0.1.0"

// Options configure the chatlog viewer.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/chatlog/prefs.toml
	Endpoint   string // overrides the configured endpoint
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the chatlog viewer until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts.ConfigPath, opts.Endpoint)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("prefs unreadable, using defaults")
	}
	prefsPath, _ := prefs.ResolvePath(opts.PrefsPath)

	source, err := newSource(cfg)
	if err != nil {
		return fmt.Errorf("init chatlog source: %w", err)
	}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	logger.Info().
		Str("endpoint", source.Endpoint()).
		Dur("poll", interval).
		Int("lines", userPrefs.Limit()).
		Str("prefs", prefsPath).
		Msg("starting chatlog viewer")

	store := &state.Store{}
	loader := state.NewLoader(source, store, filterOptions(cfg), logging.Component(logger, "loader"), userPrefs.Limit())

	StartPoller(ctx, loader, interval)

	prefsUpdates := make(chan prefs.Prefs, 1)
	watchPrefs(ctx, opts.PrefsPath, prefsUpdates, logger)

	uiOpts := ui.Options{
		Context:      ctx,
		Loader:       loader,
		Endpoint:     source.Endpoint(),
		Prefs:        userPrefs,
		PrefsPath:    opts.PrefsPath,
		PrefsUpdates: prefsUpdates,
		Logger:       logging.Component(logger, "ui"),
	}
	if err := ui.Run(uiOpts); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info().Msg("chatlog viewer stopped")
	return nil
}

// ExportOptions configure Export.
type ExportOptions struct {
	ConfigPath string
	PrefsPath  string
	Endpoint   string
	Format     string
	Output     string // empty or "-" writes to stdout
	Lines      int    // zero uses the stored line-count preference
}

// Export fetches the chatlog once and writes it in the requested format.
func Export(ctx context.Context, opts ExportOptions, stdout io.Writer) error {
	cfg, err := loadConfig(opts.ConfigPath, opts.Endpoint)
	if err != nil {
		return err
	}
	source, err := newSource(cfg)
	if err != nil {
		return fmt.Errorf("init chatlog source: %w", err)
	}

	lines := opts.Lines
	if lines <= 0 {
		p, _ := prefs.Load(opts.PrefsPath)
		lines = p.Limit()
	}

	entries, err := source.Fetch(ctx, lines)
	if err != nil {
		return err
	}
	entries = chatlog.Trim(chatlog.Filter(entries, filterOptions(cfg)), lines)

	out := stdout
	if path := strings.TrimSpace(opts.Output); path != "" && path != "-" {
		resolved, err := config.ExpandPath(path)
		if err != nil {
			return fmt.Errorf("resolve output: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		f, err := os.Create(resolved)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	return chatlog.Export(out, entries, opts.Format)
}

func loadConfig(path, endpoint string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	for _, patterns := range [][]string{cfg.IncludeSpeakers, cfg.ExcludeSpeakers} {
		if err := chatlog.ValidatePatterns(patterns); err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
	}
	return cfg, nil
}

func newSource(cfg config.Config) (chatlog.Source, error) {
	return chatlog.NewSource(cfg.Endpoint,
		chatlog.WithTimeout(cfg.RequestTimeout),
		chatlog.WithUserAgent("chatlog/"+Version),
	)
}

func filterOptions(cfg config.Config) chatlog.FilterOptions {
	return chatlog.FilterOptions{
		IncludeSpeakers: cfg.IncludeSpeakers,
		ExcludeSpeakers: cfg.ExcludeSpeakers,
	}
}

// watchPrefs forwards external prefs edits to the UI, keeping only the latest.
func watchPrefs(ctx context.Context, path string, updates chan prefs.Prefs, logger zerolog.Logger) {
	err := prefs.Watch(ctx, path, func(p prefs.Prefs) {
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- p:
		default:
		}
	})
	if err != nil {
		logger.Warn().Err(err).Msg("prefs watcher unavailable")
	}
}
