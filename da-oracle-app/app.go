package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/compose-network/da-oracle/da-oracle-app/config"
	apisrv "github.com/compose-network/da-oracle/server/api"
	apimw "github.com/compose-network/da-oracle/server/api/middleware"
	"github.com/compose-network/da-oracle/x/da"
	dahttp "github.com/compose-network/da-oracle/x/da/http"
)

// App represents the DA gas oracle service
type App struct {
	cfg    *config.Config
	oracle da.Oracle
	log    zerolog.Logger

	// API server (HTTP)
	apiServer     *apisrv.Server
	metricsServer *apisrv.Server

	// Shutdown management
	servers     sync.WaitGroup
	shutdownFns []func() error

	cancel context.CancelFunc
}

// NewApp creates a new application instance
func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	app := &App{
		cfg:         cfg,
		log:         log.With().Str("component", "app").Logger(),
		shutdownFns: make([]func() error, 0),
	}

	if err := app.initialize(ctx); err != nil {
		app.runShutdownFns()
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	return app, nil
}

// initialize sets up the application components
func (a *App) initialize(ctx context.Context) error {
	if err := a.initializeOracle(ctx); err != nil {
		return err
	}

	a.initializeAPIServer()
	a.initializeMetricsServer()

	return nil
}

// initializeOracle connects to the chain and builds the instrumented oracle.
func (a *App) initializeOracle(ctx context.Context) error {
	oracle, closeFn, err := buildOracle(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	a.shutdownFns = append(a.shutdownFns, func() error {
		closeFn()
		return nil
	})

	var m *da.Metrics
	if a.cfg.Metrics.Enabled {
		m = da.NewMetrics()
	}
	a.oracle = da.Instrument(oracle, string(a.cfg.Oracle.Type), a.log, m)
	return nil
}

// initializeAPIServer sets up the HTTP API server.
func (a *App) initializeAPIServer() {
	s := apisrv.NewServer(a.cfg.API, a.log)
	s.Use(apimw.Recover(a.log))
	s.Use(apimw.RequestID())
	s.Use(apimw.Logger(a.log, "/healthz", a.cfg.Metrics.Path))
	s.EnableCORS(a.cfg.API.CORSOrigins)

	s.Router.HandleFunc("/stats", a.handleStats).Methods(http.MethodGet)

	// Metrics share the API listener unless a dedicated port is configured.
	if a.cfg.Metrics.Enabled && a.cfg.Metrics.Port == 0 {
		s.Router.Handle(a.cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	// DA API
	daHandler := dahttp.NewHandler(
		a.oracle,
		a.cfg.Oracle.Type,
		a.cfg.Oracle.ResolvedAddress(),
		a.cfg.Estimate,
		a.log,
	)
	daHandler.RegisterMux(s.Router)

	a.apiServer = s
}

// initializeMetricsServer sets up the dedicated metrics listener, if any.
func (a *App) initializeMetricsServer() {
	if !a.cfg.Metrics.Enabled || a.cfg.Metrics.Port == 0 {
		return
	}

	cfg := a.cfg.API
	cfg.ListenAddr = ":" + strconv.Itoa(a.cfg.Metrics.Port)
	s := apisrv.NewServer(cfg, a.log.With().Str("server", "metrics").Logger())
	s.Router.Handle(a.cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)

	a.metricsServer = s
}

// Run starts the application and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	errCh := make(chan error, 2)

	a.startServer(runCtx, "API", a.apiServer, errCh)
	a.startServer(runCtx, "Metrics", a.metricsServer, errCh)

	return a.runWithGracefulShutdown(runCtx, errCh)
}

func (a *App) startServer(ctx context.Context, name string, s *apisrv.Server, errCh chan<- error) {
	if s == nil {
		return
	}
	a.servers.Add(1)
	go func() {
		defer a.servers.Done()
		if err := s.Start(ctx); err != nil {
			a.log.Error().Err(err).Msgf("%s server error", name)
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}()
}

// runWithGracefulShutdown handles shutdown signals.
func (a *App) runWithGracefulShutdown(ctx context.Context, errCh <-chan error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	a.log.Info().Msg("DA gas oracle started successfully")

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info().Msg("Context canceled, initiating shutdown")
	case sig := <-sigCh:
		a.log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case runErr = <-errCh:
	}

	if a.cancel != nil {
		a.cancel()
	}

	if err := a.shutdown(); err != nil {
		return err
	}
	return runErr
}

// shutdown waits for the HTTP servers to drain (they stop on context
// cancellation) and then executes the registered shutdown functions.
func (a *App) shutdown() error {
	a.log.Info().Msg("Initiating graceful shutdown")

	drained := make(chan struct{})
	go func() {
		a.servers.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-time.After(30 * time.Second):
		err = fmt.Errorf("timed out waiting for HTTP servers to stop")
		a.log.Error().Err(err).Msg("Server shutdown error")
	}

	// The chain client is closed only after in-flight estimates are done.
	a.runShutdownFns()

	a.log.Info().Msg("Graceful shutdown complete")
	return err
}

func (a *App) runShutdownFns() {
	for _, fn := range a.shutdownFns {
		if err := fn(); err != nil {
			a.log.Error().Err(err).Msg("Shutdown function error")
		}
	}
	a.shutdownFns = nil
}

// handleStats responds with build and oracle information.
func (a *App) handleStats(w http.ResponseWriter, _ *http.Request) {
	apisrv.WriteJSON(w, http.StatusOK, map[string]any{
		"app_version":    Version,
		"app_build_time": BuildTime,
		"app_git_commit": GitCommit,
		"oracle_type":    a.cfg.Oracle.Type,
		"oracle_address": a.cfg.Oracle.ResolvedAddress().Hex(),
	})
}
