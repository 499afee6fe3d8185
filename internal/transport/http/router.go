// Package httptransport assembles the HTTP surface: middleware chain, public
// login route, and the authenticated moderation API.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"modqueue/internal/platform/middleware"
)

// Registrar is anything that mounts routes on a chi router.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries the router's collaborators.
type Deps struct {
	Logger    *slog.Logger
	Validator middleware.JWTValidator
	// RateLimit is optional; nil skips the limiter.
	RateLimit func(http.Handler) http.Handler

	Auth     Registrar
	Listings Registrar
	Audit    Registrar
}

// NewRouter wires all endpoints. Login and health stay public; the
// moderation API requires a bearer token.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.ContentTypeJSON)
	if d.RateLimit != nil {
		r.Use(d.RateLimit)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	d.Auth.Register(r)

	r.Group(func(api chi.Router) {
		api.Use(middleware.RequireAuth(d.Validator, d.Logger))
		d.Listings.Register(api)
		d.Audit.Register(api)
	})

	return r
}
