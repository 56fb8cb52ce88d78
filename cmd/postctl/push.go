package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"postpilot/internal/blog"
	"postpilot/internal/cache"
	"postpilot/internal/catalog"
	"postpilot/internal/config"
	"postpilot/internal/database"
	"postpilot/internal/models"
	"postpilot/internal/source"
	"postpilot/internal/store"
)

// postWriter is the part of store.PostStore that push needs.
type postWriter interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	Save(ctx context.Context, p *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pushStats struct {
	Saved     int
	Unchanged int
	Deleted   int
}

func newPushCmd(opts *options) *cobra.Command {
	var prune bool
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Copy the content directory into PostgreSQL",
		Long: `push validates the posts in the content directory and upserts
them into the database configured through the POSTGRES_* variables. Posts
are matched by category and slug; unchanged ones are skipped. With --prune,
database posts that no longer exist as files are deleted. Cached fragments
of every changed post are dropped when VALKEY_HOST is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cats, err := catalog.Load(opts.categories)
			if err != nil {
				return err
			}
			posts, err := source.NewDir(opts.dir).ListPosts(ctx)
			if err != nil {
				return err
			}
			if err := errors.Join(
				blog.ValidateCategories(posts, cats),
				blog.ValidateSlugs(posts),
			); err != nil {
				return fmt.Errorf("refusing to push invalid content:\n%w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db); err != nil {
				return err
			}

			var changed func(uuid.UUID)
			if cfg.CacheEnabled() {
				client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
				if err != nil {
					return err
				}
				defer client.Close()
				fc := cache.NewFragmentCache(client, cfg.RenderCacheTTL)
				changed = func(id uuid.UUID) { fc.Invalidate(ctx, id) }
			}

			stats, err := push(ctx, posts, store.NewPostStore(db), prune, changed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d saved, %d unchanged, %d deleted\n",
				stats.Saved, stats.Unchanged, stats.Deleted)
			return nil
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "delete database posts missing from the directory")
	return cmd
}

// push upserts posts into w. changed, when set, is called with the ID of
// every stored post that was updated or deleted.
func push(ctx context.Context, posts []models.Post, w postWriter, prune bool, changed func(uuid.UUID)) (pushStats, error) {
	var stats pushStats

	existing, err := w.ListPosts(ctx)
	if err != nil {
		return stats, err
	}
	stored := make(map[string]models.Post, len(existing))
	for _, p := range existing {
		stored[postKey(&p)] = p
	}

	seen := make(map[string]bool, len(posts))
	for i := range posts {
		p := &posts[i]
		key := postKey(p)
		seen[key] = true

		old, ok := stored[key]
		if ok && samePost(&old, p) {
			stats.Unchanged++
			continue
		}
		if _, err := w.Save(ctx, p); err != nil {
			return stats, err
		}
		stats.Saved++
		slog.Debug("post pushed", "post", key)
		if ok && changed != nil {
			changed(old.ID)
		}
	}

	if !prune {
		return stats, nil
	}
	for key, old := range stored {
		if seen[key] {
			continue
		}
		if err := w.Delete(ctx, old.ID); err != nil {
			return stats, err
		}
		stats.Deleted++
		slog.Debug("post pruned", "post", key)
		if changed != nil {
			changed(old.ID)
		}
	}
	return stats, nil
}

func postKey(p *models.Post) string {
	return p.Category + "/" + p.URLSlug()
}

// samePost compares the stored fields. Times are compared at database
// precision.
func samePost(a, b *models.Post) bool {
	return a.Title == b.Title &&
		a.Excerpt == b.Excerpt &&
		a.Body == b.Body &&
		a.Author == b.Author &&
		a.CoverImage == b.CoverImage &&
		a.Status == b.Status &&
		a.Featured == b.Featured &&
		slices.Equal(a.Tags, b.Tags) &&
		equalInt(a.ReadTime, b.ReadTime) &&
		a.PublishDate.Truncate(time.Microsecond).Equal(b.PublishDate.Truncate(time.Microsecond))
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
