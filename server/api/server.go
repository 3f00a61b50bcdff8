package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg Config
	log zerolog.Logger

	Router *mux.Router
	http   *http.Server
	chain  []func(http.Handler) http.Handler

	mtx      sync.Mutex
	listener net.Listener
}

func NewServer(cfg Config, log zerolog.Logger) *Server {
	r := mux.NewRouter()
	s := &Server{
		cfg:    cfg,
		log:    log.With().Str("component", "http-api").Logger(),
		Router: r,
		chain:  make([]func(http.Handler) http.Handler, 0),
	}

	s.http = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet).Name("healthz")

	return s
}

// Use appends middleware to the chain and rebuilds the handler
func (s *Server) Use(mw func(http.Handler) http.Handler) {
	s.chain = append(s.chain, mw)
	s.http.Handler = s.buildHandler()
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// buildHandler constructs the middleware chain
func (s *Server) buildHandler() http.Handler {
	h := http.Handler(s.Router)
	for i := len(s.chain) - 1; i >= 0; i-- {
		h = s.chain[i](h)
	}
	return h
}

// Addr returns the bound address once Start has begun listening.
func (s *Server) Addr() net.Addr {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start runs the HTTP server with a dedicated listener and graceful shutdown
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	s.listener = ln
	s.mtx.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("HTTP API server starting")
	err = s.http.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("HTTP API server stopped")
	return nil
}

// EnableCORS allows the given origins. Use "*" sparingly in prod.
func (s *Server) EnableCORS(origins []string) {
	if len(origins) == 0 {
		return
	}
	s.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		)(next)
	})
}
