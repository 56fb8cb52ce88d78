// Package main is the entry point for the PostPilot blog server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postpilot/internal/blog"
	"postpilot/internal/cache"
	"postpilot/internal/catalog"
	"postpilot/internal/config"
	"postpilot/internal/database"
	"postpilot/internal/handlers"
	"postpilot/internal/markdown"
	"postpilot/internal/metrics"
	"postpilot/internal/middleware"
	"postpilot/internal/router"
	"postpilot/internal/source"
	"postpilot/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if !cfg.IsDev() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"source", cfg.ContentSource,
	)

	categories, err := catalog.Load(cfg.CategoriesFile)
	if err != nil {
		slog.Error("failed to load categories", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pick the content source.
	var repo blog.Repository
	var dir *source.Dir
	switch cfg.ContentSource {
	case config.SourceFiles:
		dir = source.NewDir(cfg.ContentDir)
		repo = dir
	default:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		// Seed development data (no-op if data already exists).
		if cfg.IsDev() {
			if err := database.Seed(db); err != nil {
				slog.Error("failed to seed database", "error", err)
				os.Exit(1)
			}
		}
		repo = store.NewPostStore(db)
	}

	m := metrics.New()
	svcOpts := []blog.Option{
		blog.WithRenderer(markdown.New(markdown.WithSiteHost(cfg.SiteHost))),
		blog.WithPageSize(cfg.PageSize),
		blog.WithMetrics(m),
	}
	if !cfg.SanitizeHTML {
		svcOpts = append(svcOpts, blog.WithoutSanitizer())
	}

	// Valkey is optional; without it every request renders.
	if cfg.CacheEnabled() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		fragments := cache.NewFragmentCache(valkeyClient, cfg.RenderCacheTTL)
		// Rendered HTML depends on the site host; drop fragments made with another.
		if err := fragments.Reconcile(ctx, "site-host="+cfg.SiteHost); err != nil {
			slog.Warn("fragment cache version check failed", "error", err)
		}
		svcOpts = append(svcOpts, blog.WithFragmentCache(fragments))
	} else {
		slog.Warn("valkey not configured, fragment cache disabled")
	}

	svc := blog.New(repo, categories, svcOpts...)
	if err := svc.Refresh(ctx); err != nil {
		slog.Error("failed to load posts", "error", err)
		os.Exit(1)
	}

	// Keep the snapshot current: watch files, or poll the database.
	if dir != nil {
		go func() {
			err := dir.Watch(ctx, func() {
				if err := svc.Refresh(ctx); err != nil {
					slog.Error("refresh after content change failed", "error", err)
				}
			})
			if err != nil {
				slog.Error("content watcher stopped", "error", err)
			}
		}()
	} else {
		go refreshLoop(ctx, svc, cfg.RefreshInterval)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	r := router.New(handlers.NewBlog(svc, cfg.SiteURL), m, limiter)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// refreshLoop reloads the snapshot every interval until ctx is done.
func refreshLoop(ctx context.Context, svc *blog.Service, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.Refresh(ctx); err != nil {
				slog.Error("periodic refresh failed", "error", err)
			}
		}
	}
}
