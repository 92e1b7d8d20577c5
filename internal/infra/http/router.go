// Package http wires the chi router, middleware chain, and handlers.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alignhq/api/internal/infra/http/handler"
	"github.com/alignhq/api/internal/infra/http/middleware"
)

// RouterDeps carries everything route registration needs.
type RouterDeps struct {
	Auth        func(http.Handler) http.Handler
	RouteGuard  func(http.Handler) http.Handler
	Initiatives *handler.InitiativeHandler
	Authz       *handler.AuthzHandler
	Audit       *handler.AuditHandler
	Health      *handler.HealthHandler
}

// RegisterRoutes mounts all routes on the router. The route guard sits
// directly after authentication so the protection table applies before
// any handler logic.
func RegisterRoutes(r chi.Router, deps RouterDeps) {
	r.Get("/health", deps.Health.Live)
	r.Get("/ready", deps.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.Auth)
		r.Use(deps.RouteGuard)
		r.Use(middleware.Metrics())

		r.Route("/initiatives", func(r chi.Router) {
			r.Get("/", deps.Initiatives.List)
			r.Post("/", deps.Initiatives.Create)
			r.Get("/{id}", deps.Initiatives.Get)
			r.Patch("/{id}", deps.Initiatives.Update)
			r.Put("/{id}/progress", deps.Initiatives.UpdateProgress)
		})

		r.Route("/authz", func(r chi.Router) {
			r.Post("/check", deps.Authz.Check)
			r.Get("/suite", deps.Authz.Suite)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/audit/isolation", deps.Audit.Run)
			r.Post("/audit/isolation/enqueue", deps.Audit.Enqueue)
		})
	})
}
