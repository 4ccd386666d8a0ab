package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/caramelohq/grooming-platform/internal/catalog"
	"github.com/caramelohq/grooming-platform/internal/clients"
	"github.com/caramelohq/grooming-platform/internal/dashboard"
	httpmiddleware "github.com/caramelohq/grooming-platform/internal/http/middleware"
	"github.com/caramelohq/grooming-platform/internal/organizations"
	"github.com/caramelohq/grooming-platform/internal/pets"
	"github.com/caramelohq/grooming-platform/internal/scheduling"
	"github.com/caramelohq/grooming-platform/internal/staff"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger       *logging.Logger
	Appointments *scheduling.Handler
	Dashboard    *dashboard.Handler
	Clients      *clients.Handler
	Pets         *pets.Handler
	Services     *catalog.Handler
	Staff        *staff.Handler
	Organization *organizations.Handler

	// SessionSecret signs session tokens; SessionResolver maps identities
	// to memberships.
	SessionSecret   string
	SessionResolver httpmiddleware.MembershipResolver

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Authenticated API
	r.Group(func(api chi.Router) {
		api.Use(httpmiddleware.SessionAuth(cfg.SessionSecret, cfg.SessionResolver, cfg.Logger))

		if cfg.Appointments != nil {
			api.Route("/appointments", func(r chi.Router) {
				r.Post("/", cfg.Appointments.Create)
				r.Get("/", cfg.Appointments.List)
				r.Get("/history", cfg.Appointments.History)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.Appointments.Get)
					r.Patch("/", cfg.Appointments.Update)
					r.Delete("/", cfg.Appointments.Cancel)
					r.Post("/complete", cfg.Appointments.Complete)
					r.Post("/pay", cfg.Appointments.Pay)
				})
			})
		}

		if cfg.Dashboard != nil {
			api.Get("/dashboard", cfg.Dashboard.Get)
		}

		if cfg.Clients != nil {
			api.Route("/clients", func(r chi.Router) {
				r.Post("/", cfg.Clients.Create)
				r.Get("/", cfg.Clients.List)
				r.Get("/{id}", cfg.Clients.Get)
				r.Put("/{id}", cfg.Clients.Update)
				r.Delete("/{id}", cfg.Clients.Delete)
			})
		}

		if cfg.Pets != nil {
			api.Route("/pets", func(r chi.Router) {
				r.Post("/", cfg.Pets.Create)
				r.Get("/", cfg.Pets.List)
				r.Get("/{id}", cfg.Pets.Get)
				r.Put("/{id}", cfg.Pets.Update)
				r.Delete("/{id}", cfg.Pets.Delete)
			})
		}

		if cfg.Services != nil {
			api.Route("/services", func(r chi.Router) {
				r.Post("/", cfg.Services.Create)
				r.Get("/", cfg.Services.List)
				r.Get("/{id}", cfg.Services.Get)
				r.Put("/{id}", cfg.Services.Update)
				r.Delete("/{id}", cfg.Services.Deactivate)
			})
		}

		if cfg.Staff != nil {
			api.Route("/staff", func(r chi.Router) {
				r.Post("/", cfg.Staff.Create)
				r.Get("/", cfg.Staff.List)
				r.Put("/{id}", cfg.Staff.Update)
				r.Delete("/{id}", cfg.Staff.Deactivate)
			})
		}

		if cfg.Organization != nil {
			api.Route("/organization", func(r chi.Router) {
				r.Get("/", cfg.Organization.Get)
				r.Put("/", cfg.Organization.Update)
			})
		}
	})

	return r
}
