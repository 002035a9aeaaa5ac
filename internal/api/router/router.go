package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/impyreal/realty-ai-platform/internal/auth"
	"github.com/impyreal/realty-ai-platform/internal/blog"
	"github.com/impyreal/realty-ai-platform/internal/http/handlers"
	httpmiddleware "github.com/impyreal/realty-ai-platform/internal/http/middleware"
	"github.com/impyreal/realty-ai-platform/internal/leads"
	"github.com/impyreal/realty-ai-platform/internal/live"
	"github.com/impyreal/realty-ai-platform/internal/projects"
	"github.com/impyreal/realty-ai-platform/internal/testimonials"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	LeadsHandler        *leads.Handler
	AdminLeadsHandler   *leads.AdminHandler
	ProjectsHandler     *projects.Handler
	BlogHandler         *blog.Handler
	TestimonialsHandler *testimonials.Handler
	AuthHandler         *auth.Handler
	Dashboard           *handlers.Dashboard
	LiveHub             *live.Hub
	IntakeLimiter       *httpmiddleware.RateLimiter
	AdminAuthSecret     string
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
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

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		if cfg.LeadsHandler != nil {
			public.Route("/leads", func(r chi.Router) {
				if cfg.IntakeLimiter != nil {
					r.Use(cfg.IntakeLimiter.Middleware)
				}
				r.Post("/web", cfg.LeadsHandler.CreateWebLead)
			})
		}

		if cfg.ProjectsHandler != nil {
			public.Route("/projects", func(r chi.Router) {
				r.Get("/", cfg.ProjectsHandler.List)
				r.Get("/{slug}", cfg.ProjectsHandler.GetBySlug)
			})
		}
		if cfg.BlogHandler != nil {
			public.Route("/blog", func(r chi.Router) {
				r.Get("/", cfg.BlogHandler.List)
				r.Get("/{slug}", cfg.BlogHandler.GetBySlug)
			})
		}
		if cfg.TestimonialsHandler != nil {
			public.Get("/testimonials", cfg.TestimonialsHandler.List)
		}
		public.Post("/emi", handlers.CalculateEMI)

		if cfg.AuthHandler != nil {
			public.Post("/admin/login", cfg.AuthHandler.Login)
		}
		// Token rides the query string; the hub validates it itself.
		if cfg.LiveHub != nil {
			public.Get("/admin/live", cfg.LiveHub.HandleFeed)
		}
	})

	// Admin routes (protected by JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))

			if cfg.AdminLeadsHandler != nil {
				admin.Route("/leads", func(r chi.Router) {
					r.Get("/", cfg.AdminLeadsHandler.ListLeads)
					r.Patch("/{id}/status", cfg.AdminLeadsHandler.UpdateStatus)
					r.Post("/{id}/interactions", cfg.AdminLeadsHandler.AddInteraction)
					r.Delete("/{id}", cfg.AdminLeadsHandler.DeleteLead)
				})
			}
			if cfg.ProjectsHandler != nil {
				admin.Route("/projects", func(r chi.Router) {
					r.Post("/", cfg.ProjectsHandler.Save)
					r.Delete("/{id}", cfg.ProjectsHandler.Delete)
				})
			}
			if cfg.BlogHandler != nil {
				admin.Route("/blog", func(r chi.Router) {
					r.Post("/", cfg.BlogHandler.Save)
					r.Delete("/{id}", cfg.BlogHandler.Delete)
				})
			}
			if cfg.TestimonialsHandler != nil {
				admin.Route("/testimonials", func(r chi.Router) {
					r.Post("/", cfg.TestimonialsHandler.Save)
					r.Delete("/{id}", cfg.TestimonialsHandler.Delete)
				})
			}
			if cfg.Dashboard != nil {
				admin.Get("/dashboard", cfg.Dashboard.Summary)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
