package database

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// welcomeBody is the markup of the post created by Seed.
const welcomeBody = `## Getting started

Posts are written in a small markup language. **Bold**, *italic* and ` + "`code`" + ` work inline.

- Lists
- Tables
- [Links](https://example.com)

## Code

` + "```js" + `
const answer = 42; // the answer
` + "```" + `
`

// Seed populates the database with initial development data.
// It creates a welcome post if the posts table is empty.
func Seed(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM posts"); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO posts (slug, title, excerpt, body, category, tags, author, status, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'published', TRUE)
		ON CONFLICT (category, slug) DO NOTHING
	`, "welcome-to-postpilot", "Welcome to PostPilot",
		"A short tour of what a post can contain.",
		welcomeBody, "product-updates", pq.Array([]string{"welcome", "markup"}), "PostPilot Team")
	if err != nil {
		return fmt.Errorf("seed insert welcome post: %w", err)
	}

	slog.Info("database seeded with welcome post", "slug", "welcome-to-postpilot")
	return nil
}
