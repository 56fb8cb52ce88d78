package sitemap

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []URL{
		{Loc: "https://postpilot.io/blog", ChangeFreq: "daily", Priority: 1},
		{Loc: "https://postpilot.io/blog/guides/a&b", LastMod: time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	wants := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`,
		`<loc>https://postpilot.io/blog</loc>`,
		`<changefreq>daily</changefreq>`,
		`<priority>1.0</priority>`,
		`<loc>https://postpilot.io/blog/guides/a&amp;b</loc>`,
		`<lastmod>2024-03-01</lastmod>`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "<url>") != 2 {
		t.Errorf("expected 2 <url> entries:\n%s", out)
	}
	if strings.Count(out, "<priority>") != 1 || strings.Count(out, "<lastmod>") != 1 {
		t.Errorf("zero optional fields should be omitted:\n%s", out)
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Contains(buf.String(), "<url>") {
		t.Errorf("unexpected entries: %s", buf.String())
	}
}
