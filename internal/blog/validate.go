package blog

import (
	"errors"
	"fmt"

	"postpilot/internal/models"
)

// ValidateCategories reports every post whose category is not in the
// catalogue. The errors are joined; nil means all posts are valid.
func ValidateCategories(posts []models.Post, categories models.Categories) error {
	var errs []error
	for i := range posts {
		p := &posts[i]
		if !categories.Has(p.Category) {
			errs = append(errs, fmt.Errorf("post %q: %w %q", p.Title, ErrUnknownCategory, p.Category))
		}
	}
	return errors.Join(errs...)
}

// ValidateSlugs reports slugs used by more than one post in a category.
func ValidateSlugs(posts []models.Post) error {
	seen := make(map[string]string, len(posts))
	var errs []error
	for i := range posts {
		p := &posts[i]
		key := p.Category + "/" + p.URLSlug()
		if first, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("slug %s: used by %q and %q", key, first, p.Title))
			continue
		}
		seen[key] = p.Title
	}
	return errors.Join(errs...)
}
