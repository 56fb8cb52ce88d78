// Package router sets up all HTTP routes and middleware chains for the
// PostPilot blog API.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"postpilot/internal/handlers"
	"postpilot/internal/metrics"
	"postpilot/internal/middleware"
)

// requestTimeout bounds the handling time of API requests.
const requestTimeout = 15 * time.Second

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. m and limiter may be nil.
func New(blog *handlers.Blog, m *metrics.Metrics, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check and metrics are not rate limited.
	r.Get("/health", blog.Health)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/sitemap.xml", blog.Sitemap)

	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Use(chimw.Timeout(requestTimeout))

		r.Get("/posts", blog.ListPosts)
		r.Get("/posts/{category}/{slug}", blog.GetPost)
		r.Get("/categories", blog.Categories)
		r.Post("/preview", blog.Preview)
	})

	return r
}
