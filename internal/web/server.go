// Package web wires the verification engine behind an HTTP server.
package web

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/gnaf-verify/internal/config"
	"github.com/gnaf-verify/internal/engine"
	"github.com/gnaf-verify/internal/web/handlers"
	"github.com/gnaf-verify/internal/web/middleware"
)

// Server is the HTTP front end. The engine is shared across requests;
// it is safe for concurrent use once built.
type Server struct {
	cfg        *config.Config
	engine     *engine.Engine
	httpServer *http.Server
	handler    http.Handler
}

// NewServer builds the server around an already-loaded engine.
func NewServer(cfg *config.Config, eng *engine.Engine) *Server {
	s := &Server{cfg: cfg, engine: eng}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	router := mux.NewRouter()

	verify := &handlers.VerifyHandler{Engine: s.engine}

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/verify", verify.Verify).Methods("POST")
	api.HandleFunc("/verify/batch", verify.VerifyBatch).Methods("POST")

	router.HandleFunc("/healthz", verify.Health).Methods("GET")

	// Wrapped outside the router so CORS preflights reach the
	// middleware even on method-matched routes.
	s.handler = middleware.CORS()(middleware.RequestLogging()(router))
}

// Handler exposes the full middleware chain for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully
// within the configured timeout.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
