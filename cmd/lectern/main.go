// Command lectern is the main entry point for the Lectern skill server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/audiora/lectern/internal/config"
	"github.com/audiora/lectern/internal/content"
	"github.com/audiora/lectern/internal/dialog"
	"github.com/audiora/lectern/internal/health"
	"github.com/audiora/lectern/internal/observe"
	"github.com/audiora/lectern/internal/resilience"
	"github.com/audiora/lectern/internal/skill"
	"github.com/audiora/lectern/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// A local .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "lectern: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "lectern: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("lectern starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "lectern",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Session store ─────────────────────────────────────────────────────────
	st, storeCheck, storeClose, err := buildStore(ctx, cfg.Store)
	if err != nil {
		slog.Error("failed to initialise session store", "err", err)
		return 1
	}
	defer storeClose()
	slog.Info("session store ready", "driver", cfg.Store.Driver)

	// ── Content provider ──────────────────────────────────────────────────────
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name: "content-api",
	})
	provider, err := content.NewClient(cfg.Content.BaseURL,
		content.WithHTTPClient(&http.Client{Timeout: cfg.Content.Timeout}),
		content.WithBreaker(breaker),
		content.WithMetrics(metrics),
	)
	if err != nil {
		slog.Error("failed to create content client", "err", err)
		return 1
	}

	// ── Dialog wiring ─────────────────────────────────────────────────────────
	tracker := dialog.NewTracker(provider)
	controller := dialog.NewController(provider, tracker)
	handler := skill.NewHandler(controller, st, metrics, cfg.Skill.ApplicationIDs)

	checkers := []health.Checker{
		{Name: "store", Check: storeCheck},
		{Name: "content", Check: func(context.Context) error {
			if s := breaker.State(); s == resilience.StateOpen {
				return fmt.Errorf("circuit breaker %s", s)
			}
			return nil
		}},
	}
	healthHandler := health.New(checkers...)

	// ── Routers ───────────────────────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(observe.Middleware(metrics))
	handler.Register(r)

	var ops chi.Router
	if cfg.Server.MetricsAddr != "" && cfg.Server.MetricsAddr != cfg.Server.ListenAddr {
		ops = chi.NewRouter()
	} else {
		ops = r
	}
	healthHandler.Register(ops)
	ops.Handle("/metrics", promhttp.Handler())

	// ── Servers ───────────────────────────────────────────────────────────────
	servers := []*http.Server{{
		Addr:              cfg.Server.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if ops != r {
		servers = append(servers, &http.Server{
			Addr:              cfg.Server.MetricsAddr,
			Handler:           ops,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			slog.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, stopping…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	slog.Info("server ready — press Ctrl+C to shut down")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// buildStore constructs the configured session store and returns it together
// with its readiness check and a close function.
func buildStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func(context.Context) error, func(), error) {
	switch cfg.Driver {
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		st := store.NewPostgres(pool)
		if err := st.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return st, pool.Ping, pool.Close, nil

	case config.StoreSQLite:
		st, err := store.NewSQLite(cfg.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := st.Close(); err != nil {
				slog.Warn("sqlite close error", "err", err)
			}
		}
		return st, st.Ping, closeFn, nil

	case config.StoreMemory:
		st := store.NewMemStore()
		check := func(context.Context) error { return nil }
		return st, check, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
