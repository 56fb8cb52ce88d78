// Package source reads blog posts from a directory of markup files with
// YAML front matter. It is the file-backed alternative to the PostgreSQL
// post store and satisfies the same repository contract.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"postpilot/internal/models"
)

// Ext is the file extension of post files.
const Ext = ".md"

// namespace seeds the name-based post IDs, so a file keeps its ID across
// restarts for as long as its category and slug stay the same.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://postpilot.io/posts"))

// dateLayouts are tried in order when parsing front matter dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

type frontMatter struct {
	Title      string   `yaml:"title"`
	Slug       string   `yaml:"slug"`
	Excerpt    string   `yaml:"excerpt"`
	Category   string   `yaml:"category"`
	Tags       []string `yaml:"tags"`
	Author     string   `yaml:"author"`
	CoverImage string   `yaml:"cover_image"`
	Status     string   `yaml:"status"`
	Draft      bool     `yaml:"draft"`
	Featured   bool     `yaml:"featured"`
	ReadTime   *int     `yaml:"read_time"`
	Date       string   `yaml:"date"`
	Updated    string   `yaml:"updated"`
}

// Dir is a post repository backed by a directory tree. Posts without a
// category in their front matter take the name of their parent directory.
type Dir struct {
	root string

	// Debounce is how long Watch waits after the last change before
	// notifying. Zero means 500ms.
	Debounce time.Duration
}

// NewDir returns a repository rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory the repository reads from.
func (d *Dir) Root() string {
	return d.root
}

// ListPosts reads every post file under the root. Files that fail to parse
// are logged and skipped.
func (d *Dir) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := filepath.WalkDir(d.root, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() {
			if path != d.root && strings.HasPrefix(e.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != Ext {
			return nil
		}

		p, err := d.readFile(path)
		if err != nil {
			slog.Warn("skipping post file", "path", path, "error", err)
			return nil
		}
		posts = append(posts, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", d.root, err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishDate.After(posts[j].PublishDate)
	})
	return posts, nil
}

// FindPost returns the published post with the given category and slug.
// Returns nil if not found.
func (d *Dir) FindPost(ctx context.Context, category, slug string) (*models.Post, error) {
	posts, err := d.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		p := &posts[i]
		if p.Category == category && p.URLSlug() == slug && p.IsPublished() {
			return p, nil
		}
	}
	return nil, nil
}

func (d *Dir) readFile(path string) (models.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Post{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return models.Post{}, err
	}

	p, err := Parse(filepath.Base(path), data)
	if err != nil {
		return models.Post{}, err
	}

	if p.Category == "" {
		if rel, err := filepath.Rel(d.root, filepath.Dir(path)); err == nil && rel != "." {
			p.Category = filepath.ToSlash(rel)
		}
	}
	if p.PublishDate.IsZero() {
		p.PublishDate = info.ModTime().UTC()
	}
	if p.Category == "" {
		return models.Post{}, errors.New("no category in front matter or directory")
	}
	p.ID = uuid.NewSHA1(namespace, []byte(p.Category+"/"+p.Slug))
	return p, nil
}

// Parse decodes one post file. The name supplies the slug, and the title
// when the front matter has none. Category, PublishDate and ID are left
// unset when the front matter does not provide them.
func Parse(name string, data []byte) (models.Post, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return models.Post{}, fmt.Errorf("front matter: %w", err)
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	p := models.Post{
		Slug:       fm.Slug,
		Title:      fm.Title,
		Excerpt:    fm.Excerpt,
		Body:       string(body),
		Category:   fm.Category,
		Tags:       fm.Tags,
		Author:     fm.Author,
		CoverImage: fm.CoverImage,
		Status:     models.PostStatusPublished,
		Featured:   fm.Featured,
		ReadTime:   fm.ReadTime,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if fm.Draft || strings.EqualFold(fm.Status, string(models.PostStatusDraft)) {
		p.Status = models.PostStatusDraft
	}
	if p.Title == "" {
		p.Title = cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(base))
	}
	if p.Slug == "" {
		p.Slug = base
	}

	if fm.Date != "" {
		t, err := parseDate(fm.Date)
		if err != nil {
			return models.Post{}, fmt.Errorf("date: %w", err)
		}
		p.PublishDate = t
	}
	if fm.Updated != "" {
		t, err := parseDate(fm.Updated)
		if err != nil {
			return models.Post{}, fmt.Errorf("updated: %w", err)
		}
		p.LastModified = &t
	}
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
