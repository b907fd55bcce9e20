package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/danharrold/lessons-api/pkg/api"
	"github.com/danharrold/lessons-api/pkg/config"
	"github.com/danharrold/lessons-api/pkg/domain"
)

const welcomeMessage = "Welcome to the lessons API. Select a collection, e.g. /collections/lessons"

// Server wires the router, middleware chain and HTTP listener together.
type Server struct {
	router     *mux.Router
	settings   *config.Settings
	httpServer *http.Server
}

// NewServer creates a new instance of Server.
func NewServer(settings *config.Settings, store domain.Store) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		settings: settings,
	}

	// Global middlewares --
	s.router.Use(recoveryMiddleware)
	s.router.Use(hlog.NewHandler(log.Logger))
	s.router.Use(hlog.RemoteAddrHandler("ip"))
	s.router.Use(hlog.RequestIDHandler("req_id", ""))

	c := cors.New(cors.Options{
		AllowedOrigins: settings.Origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
	})
	s.router.Use(c.Handler)

	// Access logger, called after each request
	s.router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("")
	}))

	s.router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, welcomeMessage)
	}).Methods("GET")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	handler := api.NewHandler(store)
	handler.RegisterRoutes(s.router)

	// Unmatched requests fall back to the static directory; anything not
	// found there gets the plain-text 404.
	s.router.NotFoundHandler = staticFallback(settings.StaticDir)

	s.httpServer = &http.Server{
		Addr:    settings.ListenAddress(),
		Handler: s.router,
	}

	return s
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("address", s.httpServer.Addr).Msg("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains outstanding requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
