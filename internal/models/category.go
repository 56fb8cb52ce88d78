// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category describes one blog category. The set of categories is static
// configuration: it is loaded once at startup and never mutated.
type Category struct {
	Key         string `json:"key" yaml:"key"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
	Color       string `json:"color,omitempty" yaml:"color"`
	Icon        string `json:"icon,omitempty" yaml:"icon"`

	// Virtual field populated by the blog service.
	PostCount int `json:"post_count" yaml:"-"`
}

// Categories is an ordered, read-only catalogue of categories.
type Categories struct {
	order []string
	byKey map[string]Category
}

// NewCategories builds a catalogue preserving the given order. Later
// entries with a duplicate key replace earlier ones in place.
func NewCategories(list []Category) Categories {
	c := Categories{byKey: make(map[string]Category, len(list))}
	for _, cat := range list {
		if _, exists := c.byKey[cat.Key]; !exists {
			c.order = append(c.order, cat.Key)
		}
		c.byKey[cat.Key] = cat
	}
	return c
}

// Lookup returns the category for key.
func (c Categories) Lookup(key string) (Category, bool) {
	cat, ok := c.byKey[key]
	return cat, ok
}

// Has reports whether key is a known category.
func (c Categories) Has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// List returns a copy of all categories in catalogue order.
func (c Categories) List() []Category {
	out := make([]Category, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.byKey[k])
	}
	return out
}

// Len returns the number of categories.
func (c Categories) Len() int {
	return len(c.order)
}
