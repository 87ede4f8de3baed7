package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

const (
	HealthPath  = "/api/health"
	WebhookPath = "/webhooks/walver"
	MetricsPath = "/metrics"
)

type ServerConfig struct {
	Host           string `json:"host" mapstructure:"host"`
	Port           int    `json:"port" mapstructure:"port"`
	UseTls         bool   `json:"use_tls,omitempty" mapstructure:"use_tls"`
	TlsPrivKeyPath string `json:"tls_priv_key_path,omitempty" mapstructure:"tls_priv_key_path"`
	TlsCertPath    string `json:"tls_cert_path,omitempty" mapstructure:"tls_cert_path"`
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type Server struct {
	server  *http.Server
	config  ServerConfig
	handler *Handler
	logger  *slog.Logger
}

func NewServer(handler *Handler, metrics *Metrics, config ServerConfig) *Server {
	logger := handler.logger
	logger.Info("Creating new webhook server", "host", config.Host, "port", config.Port, "tls", config.UseTls)

	router := mux.NewRouter()
	router.HandleFunc(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Health check request received")
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true}, logger)
	})
	router.Handle(WebhookPath, handler)
	if metrics != nil {
		router.Handle(MetricsPath, metrics.HTTPHandler()).Methods(http.MethodGet)
	}

	return &Server{
		server: &http.Server{
			Addr:              config.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		config:  config,
		handler: handler,
		logger:  logger,
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) ListenAndServe() error {
	if s.config.UseTls {
		s.logger.Info("Starting server with TLS", "host", s.config.Host, "port", s.config.Port, "cert", s.config.TlsCertPath, "key", s.config.TlsPrivKeyPath)
		return s.server.ListenAndServeTLS(s.config.TlsCertPath, s.config.TlsPrivKeyPath)
	}
	s.logger.Info("Starting server without TLS", "host", s.config.Host, "port", s.config.Port)
	return s.server.ListenAndServe()
}

// Serve accepts connections on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	if s.config.UseTls {
		return s.server.ServeTLS(listener, s.config.TlsCertPath, s.config.TlsPrivKeyPath)
	}
	return s.server.Serve(listener)
}

func (s *Server) Stop() error {
	s.logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("Error during server shutdown", "error", err)
		return fmt.Errorf("failed to shut down webhook server: %w", err)
	}
	s.logger.Info("Server shut down successfully")
	return nil
}
