package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/winkeep/winkeep/internal/config"
)

type Server struct {
	handler *Handler
	server  *http.Server
	logger  *slog.Logger
}

// NewServer binds h to the configured web address. A positive customPort
// overrides cfg.Web.Port.
func NewServer(cfg *config.Config, h *Handler, customPort int) *Server {
	mux := http.NewServeMux()
	h.SetupRoutes(mux)

	port := cfg.Web.Port
	if customPort > 0 {
		port = customPort
	}

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		handler: h,
		server:  httpServer,
		logger:  h.logger,
	}
}

// Start blocks serving requests until Shutdown. It returns
// http.ErrServerClosed after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting web server", "addr", "http://"+s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down web server")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}

// Handler exposes the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
