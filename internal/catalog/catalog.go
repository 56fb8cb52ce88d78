// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog loads the static category metadata. The catalogue is read
// once at startup; the built-in default ships embedded in the binary and a
// YAML file may replace it.
package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"postpilot/internal/models"
)

//go:embed categories.yaml
var defaultCategories []byte

// Default returns the built-in category catalogue.
func Default() (models.Categories, error) {
	return Parse(defaultCategories)
}

// Load reads a catalogue from path. An empty path yields the default.
func Load(path string) (models.Categories, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Categories{}, fmt.Errorf("read categories file: %w", err)
	}
	cats, err := Parse(data)
	if err != nil {
		return models.Categories{}, err
	}
	slog.Info("categories loaded", "path", path, "count", cats.Len())
	return cats, nil
}

// Parse decodes a YAML list of categories. Keys are required and must be
// unique; a missing label defaults to the title-cased key.
func Parse(data []byte) (models.Categories, error) {
	var list []models.Category
	if err := yaml.Unmarshal(data, &list); err != nil {
		return models.Categories{}, fmt.Errorf("parse categories: %w", err)
	}

	title := cases.Title(language.English)
	seen := make(map[string]bool, len(list))
	for i := range list {
		c := &list[i]
		c.Key = strings.TrimSpace(c.Key)
		if c.Key == "" {
			return models.Categories{}, fmt.Errorf("parse categories: entry %d has no key", i)
		}
		if seen[c.Key] {
			return models.Categories{}, fmt.Errorf("parse categories: duplicate key %q", c.Key)
		}
		seen[c.Key] = true
		if c.Label == "" {
			c.Label = title.String(strings.ReplaceAll(c.Key, "-", " "))
		}
	}
	return models.NewCategories(list), nil
}
