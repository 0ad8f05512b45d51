package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/five82/dinemenu/internal/config"
	"github.com/five82/dinemenu/internal/dining"
	"github.com/five82/dinemenu/internal/entry"
	"github.com/five82/dinemenu/internal/publish"
	"github.com/five82/dinemenu/internal/sensor"
	"github.com/five82/dinemenu/internal/server"
	"github.com/five82/dinemenu/internal/state"
)

// Options configure the dinemenu application.
type Options struct {
	ConfigPath string    // empty uses ~/.config/dinemenu/config.toml
	LogOutput  io.Writer // nil uses stderr
}

// Env is everything loaded from configuration before entities are built.
type Env struct {
	Config  config.Config
	Logger  *slog.Logger
	Client  *dining.Client
	Entries *entry.Store
}

// Load reads the configuration and opens the API client and entries store.
func Load(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := cfg.Logger(out)

	client, err := dining.NewClient(cfg.APIBase, logger)
	if err != nil {
		return nil, fmt.Errorf("init dining client: %w", err)
	}

	entries, err := entry.NewStore(cfg.EntriesPath)
	if err != nil {
		return nil, fmt.Errorf("open entries: %w", err)
	}

	return &Env{Config: cfg, Logger: logger, Client: client, Entries: entries}, nil
}

// Runtime builds an empty runtime over the environment's API client.
func (env *Env) Runtime(store *state.Store, pub publish.Publisher) (*Runtime, error) {
	loc, err := env.Config.Location()
	if err != nil {
		return nil, err
	}
	return NewRuntime(RuntimeOptions{
		Deps: sensor.Deps{
			Periods:  env.Client,
			Menus:    env.Client,
			Location: loc,
			Logger:   env.Logger,
		},
		Store:         store,
		Publisher:     pub,
		Logger:        env.Logger,
		PollInterval:  env.Config.PollInterval,
		SpawnTimeout:  env.Config.SpawnTimeout,
		ButtonTimeout: env.Config.ButtonTimeout,
	}), nil
}

// Run polls every configured entry and serves their state until the
// context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Load(opts)
	if err != nil {
		return err
	}
	logger := env.Logger

	entries, err := env.Entries.List()
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	if len(entries) == 0 {
		logger.Warn("no entries configured; run `dinemenu setup` to add one", "path", env.Entries.Path())
	}

	var pub publish.Publisher = publish.Nop{}
	if env.Config.NATSURL != "" {
		nats, err := publish.NewNATSPublisher(env.Config.NATSURL)
		if err != nil {
			return fmt.Errorf("init nats publisher: %w", err)
		}
		defer nats.Close()
		pub = nats
		logger.Info("publishing entity state", "nats_url", env.Config.NATSURL, "subject", publish.SubjectPrefix+"*")
	}

	rt, err := env.Runtime(&state.Store{}, pub)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	rt.Start(ctx, entries)
	defer func() {
		cancel()
		rt.Wait()
	}()

	srv := server.New(env.Config.ListenAddr, rt, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
