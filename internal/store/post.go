// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"postpilot/internal/models"
)

const postColumns = `id, slug, title, excerpt, body, category, tags, author,
	cover_image, status, featured, read_time, publish_date, last_modified`

// postRow is the scan target for the posts table. The tags column is a
// TEXT[] and needs pq's array type to scan.
type postRow struct {
	models.Post
	Tags pq.StringArray `db:"tags"`
}

func (r postRow) post() models.Post {
	p := r.Post
	p.Tags = []string(r.Tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sqlx.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

// ListPosts returns every post regardless of status, newest first.
func (s *PostStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	var rows []postRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+postColumns+" FROM posts ORDER BY publish_date DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.post())
	}
	return posts, nil
}

// FindPost retrieves a published post by category and slug. Returns nil if
// not found.
func (s *PostStore) FindPost(ctx context.Context, category, slug string) (*models.Post, error) {
	var r postRow
	err := s.db.GetContext(ctx, &r, `
		SELECT `+postColumns+` FROM posts
		WHERE category = $1 AND slug = $2 AND status = 'published'
	`, category, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post %s/%s: %w", category, slug, err)
	}
	p := r.post()
	return &p, nil
}

// Save inserts a post, or updates the existing one with the same category
// and slug. The slug is derived from the title when empty and the stored
// row, including its generated ID, is returned.
func (s *PostStore) Save(ctx context.Context, p *models.Post) (*models.Post, error) {
	in := postRow{Post: *p, Tags: pq.StringArray(p.Tags)}
	in.Slug = p.URLSlug()
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	if in.Status == "" {
		in.Status = models.PostStatusDraft
	}
	if in.PublishDate.IsZero() {
		in.PublishDate = time.Now().UTC()
	}
	if in.Tags == nil {
		in.Tags = pq.StringArray{}
	}

	query, args, err := s.db.BindNamed(`
		INSERT INTO posts (`+postColumns+`)
		VALUES (:id, :slug, :title, :excerpt, :body, :category, :tags, :author,
		        :cover_image, :status, :featured, :read_time, :publish_date, :last_modified)
		ON CONFLICT (category, slug) DO UPDATE SET
			title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt,
			body = EXCLUDED.body,
			tags = EXCLUDED.tags,
			author = EXCLUDED.author,
			cover_image = EXCLUDED.cover_image,
			status = EXCLUDED.status,
			featured = EXCLUDED.featured,
			read_time = EXCLUDED.read_time,
			publish_date = EXCLUDED.publish_date,
			last_modified = NOW()
		RETURNING `+postColumns, in)
	if err != nil {
		return nil, fmt.Errorf("bind save post: %w", err)
	}

	var out postRow
	if err := s.db.GetContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	saved := out.post()
	return &saved, nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
