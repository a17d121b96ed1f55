package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/server"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// Application aggregates shared infrastructure (DB, router, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	db     *gorm.DB
	router *chi.Mux
	http   *http.Server
}

// New bootstraps the logger, Postgres, metrics and the HTTP stack.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, logging.Options{
		Level:         cfg.Log.Level,
		File:          cfg.Log.File,
		FileMaxSizeMB: cfg.Log.FileMaxSizeMB,
		FileBackups:   cfg.Log.FileBackups,
		FileMaxAge:    cfg.Log.FileMaxAge,
	})
	logger.Info().Msg("starting application bootstrap")

	gdb, err := db.Open(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Postgres.AutoMigrate {
		sqlDB, err := gdb.DB()
		if err != nil {
			_ = db.Close(gdb)
			return nil, fmt.Errorf("postgres handle: %w", err)
		}
		if err := db.Migrate(ctx, sqlDB, db.MigrateUp); err != nil {
			_ = db.Close(gdb)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Msg("database migrations applied")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	svc := trivia.NewService(
		repository.NewCategoryRepository(gdb),
		repository.NewQuestionRepository(gdb),
		trivia.ServiceOptions{
			QuestionsPerPage: cfg.Trivia.QuestionsPerPage,
			Metrics:          m,
		},
		logger,
	)

	router := server.NewRouter(server.RouterConfig{
		CORS:     cfg.CORS,
		Logger:   logger,
		Trivia:   trivia.NewHTTPHandler(svc, logger),
		Metrics:  m,
		Gatherer: reg,
		Ready: func(ctx context.Context) error {
			return db.Ping(ctx, gdb)
		},
	})

	return &Application{
		cfg:    cfg,
		logger: logger,
		db:     gdb,
		router: router,
		http:   server.NewHTTPServer(cfg, router),
	}, nil
}

// Router exposes the fully wired mux for alternative front ends such as the
// Lambda adapter.
func (a *Application) Router() *chi.Mux {
	return a.router
}

// Logger returns the application logger.
func (a *Application) Logger() zerolog.Logger {
	return a.logger
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	if err := a.Close(); err != nil {
		a.logger.Error().Err(err).Msg("postgres shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

// Close releases the database pool.
func (a *Application) Close() error {
	return db.Close(a.db)
}
