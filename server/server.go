package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/twitter-connect/auth"
	"github.com/jrsteele09/twitter-connect/internal/config"
	"github.com/jrsteele09/twitter-connect/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SessionBinder hands out the session store for one request.
type SessionBinder interface {
	Bind(w http.ResponseWriter, r *http.Request) sessions.Store
}

var _ SessionBinder = (*sessions.CookieStore)(nil)

type Server struct {
	env         string // Environment (DEV or PRODUCTION)
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	connections *auth.ConnectionService
	sessions    SessionBinder
	logger      zerolog.Logger
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithLogger sets the root logger request loggers are derived from.
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(config config.Config, connections *auth.ConnectionService, binder SessionBinder, options ...ServerOption) (*Server, error) {
	if config == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if connections == nil {
		return nil, errors.New("[Server New] connection service is required")
	}
	if binder == nil {
		return nil, errors.New("[Server New] session store is required")
	}

	s := &Server{
		env:         config.GetEnv(),
		mux:         http.NewServeMux(),
		config:      config,
		connections: connections,
		sessions:    binder,
		logger:      log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes returns the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	s.logger.Info().Msgf("[%s] %s", colourMethod(method), path)
}
