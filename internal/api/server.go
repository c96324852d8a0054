// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
page handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/portal are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/facegate/internal/auth"
	"github.com/taibuivan/facegate/internal/platform/config"
	"github.com/taibuivan/facegate/internal/platform/constants"
	"github.com/taibuivan/facegate/internal/platform/middleware"
	"github.com/taibuivan/facegate/internal/platform/view"
	"github.com/taibuivan/facegate/internal/session"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// RouteRegistrar is implemented by every page handler set.
type RouteRegistrar interface {
	RegisterRoutes(router chi.Router, guards auth.Guards)
}

// Handlers groups all HTTP handler sets.
//
// # Usage
//
// New page groups add a field here and to [Handlers.registrars].
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Pages serves the home page, contact form, and dashboard.
	Pages RouteRegistrar

	// Accounts handles login, signup, and logout.
	Accounts RouteRegistrar

	// People manages the registered people.
	People RouteRegistrar

	// Recognition serves the scan page and auto-capture frames.
	Recognition RouteRegistrar
}

func (h Handlers) registrars() []RouteRegistrar {
	return []RouteRegistrar{h.Pages, h.Accounts, h.People, h.Recognition}
}

// Session groups the per-browser state shared by every page.
type Session struct {
	Cookies *session.Cookies
	Backend session.Backend
	Store   *session.Store
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, renderer *view.Renderer, sess Session, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst).Handler)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/static/*", http.StripPrefix("/static/", view.Static()))

	// # Pages
	// Everything else runs with browser storage and the auth context.
	r.Group(func(pages chi.Router) {
		pages.Use(session.Attach(sess.Cookies, sess.Backend))
		pages.Use(auth.Provide(sess.Store, constants.SessionRestoreBudget))

		guards := auth.Guards{Pending: renderer.Loading()}
		for _, registrar := range h.registrars() {
			if registrar != nil {
				registrar.RegisterRoutes(pages, guards)
			}
		}

		pages.NotFound(renderer.NotFound().ServeHTTP)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler { return s.router }

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
