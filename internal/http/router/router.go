package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sendit/internal/http/handlers"
)

const defaultTimeout = 5 * time.Second

// Params carries what the router mounts. Nil middlewares and a nil Metrics handler are skipped.
type Params struct {
	APIVersion string
	Timeout    time.Duration

	Base    *handlers.Handlers
	Auth    *handlers.AuthHandler
	Parcels *handlers.ParcelHandler

	RequireToken  func(http.Handler) http.Handler
	RateLimit     func(http.Handler) http.Handler
	Observability func(http.Handler) http.Handler
	Metrics       http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(p Params) http.Handler {
	if p.Timeout <= 0 {
		p.Timeout = defaultTimeout
	}
	version := strings.Trim(p.APIVersion, "/")
	if version == "" {
		version = "v1"
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if p.Observability != nil {
		r.Use(p.Observability)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(p.Timeout))

	r.Get("/ping", p.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(p.Base.HealthcheckHead))
	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics)
	}

	r.Route("/api/"+version, func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			if p.RateLimit != nil {
				ar.Use(p.RateLimit)
			}
			ar.Post("/signup", p.Auth.Signup)
			ar.Post("/login", p.Auth.Login)
		})

		api.Group(func(pr chi.Router) {
			pr.Use(p.RequireToken)

			pr.Get("/users/{userId}/parcels", p.Parcels.ListForUser)

			pr.Route("/parcels", func(rr chi.Router) {
				rr.Get("/", p.Parcels.List)
				rr.Post("/", p.Parcels.Create)
				rr.Get("/{parcelId}", p.Parcels.Get)
				rr.Patch("/{parcelId}/cancel", p.Parcels.Cancel)
				rr.Patch("/{parcelId}/destination", p.Parcels.ChangeDestination)
				rr.Patch("/{parcelId}/status", p.Parcels.ChangeStatus)
				rr.Patch("/{parcelId}/currentlocation", p.Parcels.ChangeLocation)
			})
		})
	})

	r.NotFound(p.Base.NotFound)
	r.MethodNotAllowed(p.Base.MethodNotAllowed)

	return r
}
