// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog serves rendered posts, listings and search over a snapshot
// of published content. The snapshot is loaded from a Repository by
// Refresh and replaced atomically, so readers never observe a partially
// rebuilt search index.
package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"postpilot/internal/cache"
	"postpilot/internal/markdown"
	"postpilot/internal/metrics"
	"postpilot/internal/models"
	"postpilot/internal/paginate"
	"postpilot/internal/search"
	"postpilot/internal/sitemap"
)

var (
	// ErrNotFound is returned when no published post matches a lookup.
	ErrNotFound = errors.New("post not found")
	// ErrUnknownCategory is returned when a category key is not in the catalogue.
	ErrUnknownCategory = errors.New("unknown category")
)

// RelatedCount is the number of related posts attached to an Article.
const RelatedCount = 3

// Repository supplies raw post records. Both the PostgreSQL store and the
// file source implement it. FindPost returns (nil, nil) when nothing matches.
type Repository interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	FindPost(ctx context.Context, category, slug string) (*models.Post, error)
}

// Service is the read side of the blog.
type Service struct {
	repo       Repository
	categories models.Categories
	renderer   *markdown.Renderer
	fragments  *cache.FragmentCache
	policy     *bluemonday.Policy
	metrics    *metrics.Metrics
	pageSize   int

	refreshMu sync.Mutex // serialises Refresh so an older load never wins
	mu        sync.RWMutex
	posts     []models.Post // published, known category, newest first
	index     search.Index
	counts    map[string]int
	refreshed time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the markup renderer. The default uses markdown.New().
func WithRenderer(r *markdown.Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

// WithFragmentCache caches rendered post bodies in Valkey.
func WithFragmentCache(fc *cache.FragmentCache) Option {
	return func(s *Service) { s.fragments = fc }
}

// WithMetrics records render and search metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPageSize sets the listing page size.
func WithPageSize(n int) Option {
	return func(s *Service) { s.pageSize = n }
}

// WithoutSanitizer disables sanitising of preview output.
func WithoutSanitizer() Option {
	return func(s *Service) { s.policy = nil }
}

// New creates a Service. Call Refresh before serving.
func New(repo Repository, categories models.Categories, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		categories: categories,
		renderer:   markdown.New(),
		policy:     PreviewPolicy(),
		pageSize:   paginate.DefaultPageSize,
		index:      search.Index{},
		counts:     map[string]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh reloads every post from the repository and swaps in a new
// snapshot. Drafts are dropped, as are posts in categories missing from
// the catalogue (logged). On error the previous snapshot is kept.
// Concurrent calls run one at a time.
func (s *Service) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	all, err := s.repo.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("refresh posts: %w", err)
	}

	posts := make([]models.Post, 0, len(all))
	counts := make(map[string]int)
	for _, p := range all {
		if !p.IsPublished() {
			continue
		}
		if !s.categories.Has(p.Category) {
			slog.Warn("skipping post in unknown category",
				"id", p.ID, "title", p.Title, "category", p.Category)
			continue
		}
		posts = append(posts, p)
		counts[p.Category]++
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishDate.After(posts[j].PublishDate)
	})
	index := search.BuildIndex(posts)

	s.mu.Lock()
	s.posts = posts
	s.index = index
	s.counts = counts
	s.refreshed = time.Now()
	s.mu.Unlock()

	s.metrics.Indexed(len(posts))
	slog.Info("blog snapshot refreshed", "posts", len(posts), "skipped", len(all)-len(posts))
	return nil
}

// RefreshedAt returns when the snapshot was last replaced.
func (s *Service) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshed
}

func (s *Service) snapshot() ([]models.Post, search.Index) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts, s.index
}

// ListQuery selects a page of posts. Empty fields do not filter.
type ListQuery struct {
	Query    string
	Category string
	Tag      string
	Page     int
}

// List filters the snapshot by category and tag, ranks it against the
// query when one is given, and returns the requested page.
func (s *Service) List(ctx context.Context, q ListQuery) (paginate.Page[models.Post], error) {
	if err := ctx.Err(); err != nil {
		return paginate.Page[models.Post]{}, err
	}
	if q.Category != "" && !s.categories.Has(q.Category) {
		return paginate.Page[models.Post]{}, fmt.Errorf("%w: %s", ErrUnknownCategory, q.Category)
	}

	posts, index := s.snapshot()
	if q.Category != "" || q.Tag != "" {
		filtered := make([]models.Post, 0, len(posts))
		for i := range posts {
			p := &posts[i]
			if q.Category != "" && p.Category != q.Category {
				continue
			}
			if q.Tag != "" && !p.HasTag(q.Tag) {
				continue
			}
			filtered = append(filtered, *p)
		}
		posts = filtered
	}

	if strings.TrimSpace(q.Query) != "" {
		posts = search.Search(q.Query, posts, index)
		s.metrics.Search(len(posts))
	}

	return paginate.Paginate(posts, q.Page, s.pageSize), nil
}

// Article is a post prepared for display.
type Article struct {
	Post     models.Post        `json:"post"`
	HTML     string             `json:"html"`
	TOC      []markdown.Heading `json:"toc"`
	ReadTime int                `json:"read_time"`
	Related  []models.Post      `json:"related"`
}

// Post renders the published post with the given category and slug. Posts
// published since the last Refresh are looked up in the repository.
func (s *Service) Post(ctx context.Context, category, slug string) (*Article, error) {
	if !s.categories.Has(category) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	p := s.find(category, slug)
	if p == nil {
		found, err := s.repo.FindPost(ctx, category, slug)
		if err != nil {
			return nil, fmt.Errorf("find post: %w", err)
		}
		if found == nil || !found.IsPublished() {
			return nil, ErrNotFound
		}
		p = found
	}

	toc := markdown.TableOfContents(p.Body)
	if toc == nil {
		toc = []markdown.Heading{}
	}
	return &Article{
		Post:     *p,
		HTML:     s.render(ctx, p),
		TOC:      toc,
		ReadTime: p.Minutes(),
		Related:  s.Related(p, RelatedCount),
	}, nil
}

func (s *Service) find(category, slug string) *models.Post {
	posts, _ := s.snapshot()
	for i := range posts {
		if posts[i].Category == category && posts[i].URLSlug() == slug {
			p := posts[i]
			return &p
		}
	}
	return nil
}

// render returns the post body as HTML, through the fragment cache when
// one is configured.
func (s *Service) render(ctx context.Context, p *models.Post) string {
	if s.fragments == nil {
		s.metrics.Render(metrics.CacheNone)
		return s.renderer.Render(p.Body)
	}

	key := cache.Key(p.ID, p.Modified())
	if html, ok := s.fragments.Get(ctx, key); ok {
		s.metrics.Render(metrics.CacheHit)
		return html
	}
	html := s.renderer.Render(p.Body)
	s.fragments.Set(ctx, key, html)
	s.metrics.Render(metrics.CacheMiss)
	return html
}

// Preview renders unsaved markup. The output is sanitised unless the
// service was built WithoutSanitizer.
func (s *Service) Preview(src string) string {
	html := s.renderer.Render(src)
	if s.policy == nil {
		return html
	}
	return s.policy.Sanitize(html)
}

// Related returns up to n other published posts in the same category,
// ordered by the number of shared tags and then by recency.
func (s *Service) Related(p *models.Post, n int) []models.Post {
	if n <= 0 {
		return []models.Post{}
	}
	posts, _ := s.snapshot()

	type candidate struct {
		post   models.Post
		shared int
	}
	var candidates []candidate
	for _, other := range posts {
		if other.Category != p.Category || other.ID == p.ID {
			continue
		}
		shared := 0
		for _, tag := range other.Tags {
			if p.HasTag(tag) {
				shared++
			}
		}
		candidates = append(candidates, candidate{post: other, shared: shared})
	}

	// posts is newest first, so a stable sort keeps recency among ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].shared > candidates[j].shared
	})

	out := make([]models.Post, 0, min(n, len(candidates)))
	for _, c := range candidates[:min(n, len(candidates))] {
		out = append(out, c.post)
	}
	return out
}

// Categories returns the catalogue in order with post counts filled in.
func (s *Service) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.categories.List()
	for i := range list {
		list[i].PostCount = s.counts[list[i].Key]
	}
	return list
}

// Sitemap lists the blog index, every category and every published post
// under baseURL.
func (s *Service) Sitemap(baseURL string) []sitemap.URL {
	base := strings.TrimRight(baseURL, "/") + "/blog"
	posts, _ := s.snapshot()

	urls := make([]sitemap.URL, 0, 1+s.categories.Len()+len(posts))
	index := sitemap.URL{Loc: base, ChangeFreq: "daily", Priority: 1.0}
	if len(posts) > 0 {
		index.LastMod = posts[0].PublishDate
	}
	urls = append(urls, index)

	for _, c := range s.categories.List() {
		urls = append(urls, sitemap.URL{Loc: base + "/" + c.Key, ChangeFreq: "weekly", Priority: 0.6})
	}
	for i := range posts {
		p := &posts[i]
		priority := 0.7
		if p.Featured {
			priority = 0.9
		}
		urls = append(urls, sitemap.URL{
			Loc:        base + "/" + p.Category + "/" + p.URLSlug(),
			LastMod:    p.Modified(),
			ChangeFreq: "monthly",
			Priority:   priority,
		})
	}
	return urls
}
