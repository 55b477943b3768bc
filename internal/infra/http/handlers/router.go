package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

// RouterConfig wires the view server.
type RouterConfig struct {
	Auth           *AuthHandler
	CRM            *CRMHandler
	Health         *HealthHandler
	Sessions       *middleware.Sessions
	LoginLimiter   *middleware.RateLimiter
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(cfg.Sessions.Load)

		r.Get("/login", cfg.Auth.LoginPage)
		r.With(middleware.Limit(cfg.LoginLimiter)).Post("/login", cfg.Auth.Login)
		r.Get("/logout", cfg.Auth.Logout)
		r.Post("/logout", cfg.Auth.Logout)

		r.Route("/api", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   cfg.AllowedOrigins,
				AllowedMethods:   []string{"GET", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
			r.Use(middleware.RequireSessionJSON)
			r.Get("/statistics", cfg.CRM.StatisticsJSON)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession("/login"))

			r.Get("/", cfg.CRM.Dashboard)
			r.Get("/reports/statistics.pdf", cfg.CRM.StatisticsPDF)

			r.Get("/leads", cfg.CRM.ListLeads)
			r.Post("/leads", cfg.CRM.CreateLead)
			r.Post("/leads/{id}", cfg.CRM.UpdateLead)
			r.Post("/leads/{id}/delete", cfg.CRM.DeleteLead)
			r.Get("/leads/{id}/convert", cfg.CRM.ConvertLeadPage)
			r.Post("/leads/{id}/convert", cfg.CRM.ConvertLead)

			r.Get("/contacts", cfg.CRM.ListContacts)
			r.Post("/contacts/{id}/convert-to-patient", cfg.CRM.ConvertContactToPatient)

			r.Get("/opportunities", cfg.CRM.ListOpportunities)
			r.Post("/opportunities", cfg.CRM.CreateOpportunity)
			r.Post("/opportunities/{id}", cfg.CRM.UpdateOpportunity)
			r.Post("/opportunities/{id}/delete", cfg.CRM.DeleteOpportunity)

			r.Get("/followups", cfg.CRM.ListFollowUps)
			r.Post("/followups", cfg.CRM.CreateFollowUp)
			r.Post("/followups/{id}/complete", cfg.CRM.CompleteFollowUp)
			r.Post("/followups/{id}/delete", cfg.CRM.DeleteFollowUp)
		})
	})

	return r
}
