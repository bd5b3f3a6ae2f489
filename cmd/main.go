package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/rankvote/internal/adapters/http/api"
	"github.com/okian/rankvote/internal/adapters/http/swagger"
	app "github.com/okian/rankvote/internal/app"
	"github.com/okian/rankvote/internal/config"
	"github.com/okian/rankvote/internal/domain/tally"
	"github.com/okian/rankvote/pkg/logger"
	"github.com/okian/rankvote/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	os.Exit(serve())
}

// serve runs the server until a signal arrives and returns the exit code.
func serve() int {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString(err.Error() + "\n")
		}
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if err := setupLogging(cfg); err != nil {
		os.Stderr.WriteString("failed to configure logging: " + err.Error() + "\n")
		return 1
	}

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "server failed", logger.Error(err))
		return 1
	}
	return 0
}

// setupLogging re-initializes the global logger with the configured format
// and level.
func setupLogging(cfg *config.Config) error {
	if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
		return err
	}
	return logger.SetLevelString(cfg.LogLevel)
}

// newService builds the tally service from configuration.
func newService(cfg *config.Config) (*app.Service, error) {
	methods, err := tally.ParseMethods(cfg.Methods)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithStrictRankings(cfg.StrictRankings),
		app.WithTallyWorkers(cfg.TallyWorkers),
		app.WithDefaultMethods(methods),
		app.WithLimits(cfg.MaxCandidates, cfg.MaxBallots),
	), nil
}

// newMux registers the API docs and the API routes for svc.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater refreshes the system gauges until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
