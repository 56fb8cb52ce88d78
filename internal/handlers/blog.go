// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"postpilot/internal/blog"
	"postpilot/internal/models"
	"postpilot/internal/sitemap"
)

// Blog groups the read-only JSON API over the blog service.
type Blog struct {
	service *blog.Service
	siteURL string
}

// NewBlog creates a new Blog handler group. siteURL is the public base
// used for sitemap locations.
func NewBlog(service *blog.Service, siteURL string) *Blog {
	return &Blog{service: service, siteURL: siteURL}
}

// ListPosts serves one page of posts filtered by the q, category and tag
// query parameters.
func (b *Blog) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := parsePage(q.Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := q.Get("q")
	if msg := validateQuery(query); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := b.service.List(r.Context(), blog.ListQuery{
		Query:    query,
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Page:     page,
	})
	if err != nil {
		b.serviceError(w, r, err)
		return
	}
	// Items shares its array with the service snapshot.
	items := make([]models.Post, len(result.Items))
	copy(items, result.Items)
	for i := range items {
		items[i].Body = ""
	}
	result.Items = items
	writeJSON(w, http.StatusOK, result)
}

// GetPost serves a single rendered post.
func (b *Blog) GetPost(w http.ResponseWriter, r *http.Request) {
	article, err := b.service.Post(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "slug"))
	if err != nil {
		b.serviceError(w, r, err)
		return
	}
	for i := range article.Related {
		article.Related[i].Body = ""
	}
	writeJSON(w, http.StatusOK, article)
}

// Categories serves the category catalogue with post counts.
func (b *Blog) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.service.Categories())
}

// previewRequest is the JSON form of a preview request.
type previewRequest struct {
	Body string `json:"body"`
}

// Preview renders unsaved markup. The body is either raw text or, with a
// JSON content type, {"body": "..."}.
func (b *Blog) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyLen+1024)

	var src string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body.")
			return
		}
		src = req.Body
	} else {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "Body is too large.")
			return
		}
		src = string(data)
	}

	if msg := validatePreview(src); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": b.service.Preview(src)})
}

// Health reports liveness and when the post snapshot was last loaded. It
// answers 503 until the first refresh has completed.
func (b *Blog) Health(w http.ResponseWriter, r *http.Request) {
	at := b.service.RefreshedAt()
	if at.IsZero() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":       "ok",
		"refreshed_at": at.UTC().Format(time.RFC3339),
	})
}

// Sitemap serves sitemap.xml for all published posts.
func (b *Blog) Sitemap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if err := sitemap.Write(w, b.service.Sitemap(b.siteURL)); err != nil {
		slog.Error("write sitemap failed", "error", err)
	}
}

// serviceError maps blog service errors to HTTP responses.
func (b *Blog) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, blog.ErrNotFound):
		writeError(w, http.StatusNotFound, "Post not found.")
	case errors.Is(err, blog.ErrUnknownCategory):
		writeError(w, http.StatusNotFound, "Category not found.")
	default:
		slog.Error("blog request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
