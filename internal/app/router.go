// Package app wires middleware, routes and cross-cutting concerns into the
// HTTP handler the server runs.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/fairyhunter13/ai-career-coach/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-career-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-coach/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
// Every /v1 route requires a bearer token; generation endpoints are further
// rate limited per IP.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	// Worst case is two sequential provider calls on one request.
	r.Use(httpserver.TimeoutMiddleware(2*cfg.ProviderTimeout + 10*time.Second))
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(httpserver.RequireAuth(cfg.AuthJWTSecret))

		v1.Get("/onboarding/status", srv.OnboardingStatusHandler())
		v1.Get("/insights", srv.InsightsHandler())

		// Generation endpoints burn provider quota; rate limit them per IP.
		v1.Group(func(gen chi.Router) {
			gen.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
			gen.Post("/onboarding", srv.OnboardingHandler())
			gen.Post("/resume", srv.ResumeHandler())
			gen.Post("/cover-letter", srv.CoverLetterHandler())
			gen.Post("/interview-prep", srv.InterviewQuestionsHandler())
			gen.Post("/interview/mock", srv.MockInterviewHandler())
			gen.Post("/career-path", srv.CareerPathHandler())
		})
	})

	r.Get("/healthz", srv.HealthzHandler())
	r.Get("/readyz", srv.ReadyzHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })

	return httpserver.SecurityHeaders(r)
}
