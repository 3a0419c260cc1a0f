package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/config"
	"github.com/five82/cirrus/internal/events"
	"github.com/five82/cirrus/internal/fetch"
	"github.com/five82/cirrus/internal/logging"
	"github.com/five82/cirrus/internal/metrics"
	"github.com/five82/cirrus/internal/prefs"
	"github.com/five82/cirrus/internal/state"
	"github.com/five82/cirrus/internal/ui"
)

// Options configure the console and the CLI commands.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/cirrus/prefs.toml
	LogLevel   string // overrides the config file when set
	// Console sends log output to a terminal instead of the log file.
	Console io.Writer
}

// Env is the wired set of components shared by the console and CLI commands.
type Env struct {
	Config     config.Config
	Prefs      prefs.Prefs
	PrefsPath  string
	Log        zerolog.Logger
	Metrics    *metrics.Metrics
	Client     *api.Client
	Store      *state.Store
	Fetcher    *fetch.Fetcher
	Feed       *events.Feed
	Dispatcher *events.Dispatcher
	Poller     *Poller

	closeLog func() error
}

// NewEnv loads configuration and preferences and builds every component.
func NewEnv(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}

	logCfg := logging.Config{Level: cfg.LogLevel, File: cfg.LogFile}
	if opts.Console != nil {
		logCfg = logging.Config{Level: cfg.LogLevel, Console: opts.Console}
	}
	log, closeLog, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := api.NewClient(api.Options{
		BaseURL:        cfg.APIURL,
		Token:          cfg.Token,
		Timeout:        cfg.RequestTimeout,
		RequestsPerSec: cfg.RateLimit,
		Burst:          cfg.Burst,
	})
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	m := metrics.New()
	store := state.New()
	fetcher := fetch.New(client, store, fetch.Options{
		PageSize: cfg.PageSize,
		Logger:   log.With().Str("component", "fetch").Logger(),
		Metrics:  m,
	})
	feed := events.NewFeed(time.Now())
	dispatcher := events.NewDispatcher(
		events.DefaultRegistry(fetcher),
		log.With().Str("component", "events").Logger(),
		m,
	)
	poller := NewPoller(PollerOptions{
		Client:     client,
		Store:      store,
		Feed:       feed,
		Dispatcher: dispatcher,
		Logger:     log.With().Str("component", "poller").Logger(),
		Metrics:    m,
		Interval:   cfg.PollInterval,
		Fast:       cfg.InProgressPollInterval,
	})

	return &Env{
		Config:     cfg,
		Prefs:      userPrefs,
		PrefsPath:  opts.PrefsPath,
		Log:        log,
		Metrics:    m,
		Client:     client,
		Store:      store,
		Fetcher:    fetcher,
		Feed:       feed,
		Dispatcher: dispatcher,
		Poller:     poller,
		closeLog:   closeLog,
	}, nil
}

// Close flushes and closes the log file.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// Run boots the console until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	env, err := NewEnv(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	env.Log.Info().Str("api_url", env.Config.APIURL).Msg("console starting")

	if env.Config.MetricsAddr != "" {
		go serveMetrics(ctx, env.Config.MetricsAddr, env.Metrics, env.Log)
	}

	// Populate the cache in the background; the UI renders loading states.
	go func() {
		if err := env.Fetcher.LoadAll(ctx); err != nil {
			env.Log.Warn().Err(err).Msg("initial load incomplete")
		}
	}()

	if err := env.Poller.Prime(ctx); err != nil {
		env.Log.Warn().Err(err).Msg("initial events request failed")
	}
	go env.Poller.Run(ctx)

	return ui.Run(ui.Options{
		Context:   ctx,
		Fetcher:   env.Fetcher,
		Feed:      env.Feed,
		Poller:    env.Poller,
		Prefs:     env.Prefs,
		PrefsPath: env.PrefsPath,
		LogFile:   env.Config.LogFile,
		Logger:    env.Log.With().Str("component", "ui").Logger(),
	})
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics listener started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
	}
}
