// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders the blog's lightweight markup into HTML.
//
// The renderer is hand-written and deliberately small: headings, paragraphs,
// flat lists, blockquotes, fenced code, tables and horizontal rules, plus a
// handful of inline constructs. It never fails; malformed syntax falls
// through to literal, escaped text. Every function in the package is pure
// and safe for concurrent use.
package markdown

import "strings"

// DefaultSiteHost is the host treated as internal when classifying links.
const DefaultSiteHost = "postpilot.io"

// Renderer converts raw post bodies into HTML fragments. The zero value is
// not usable; create one with New.
type Renderer struct {
	siteHost string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSiteHost sets the host used to tell internal links from external
// ones. An absolute link whose host contains siteHost is internal.
func WithSiteHost(siteHost string) Option {
	return func(r *Renderer) {
		if siteHost != "" {
			r.siteHost = strings.ToLower(siteHost)
		}
	}
}

// New creates a Renderer with the given options.
func New(opts ...Option) *Renderer {
	r := &Renderer{siteHost: DefaultSiteHost}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SiteHost returns the host the renderer considers internal.
func (r *Renderer) SiteHost() string {
	return r.siteHost
}

var defaultRenderer = New()

// Render converts src into HTML using the default site host.
func Render(src string) string {
	return defaultRenderer.Render(src)
}

// Inline formats a single line using the default site host.
func Inline(line string) string {
	return defaultRenderer.Inline(line)
}
