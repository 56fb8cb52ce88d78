package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// run executes postctl with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func contentDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "guides", "scheduling.md"), `---
title: Scheduling Posts
date: 2024-03-01
tags: [planning]
---
## Why schedule

Plan the week ahead.
`)
	writeFile(t, filepath.Join(dir, "engineering", "queues.md"), `---
title: Queue Internals
date: 2024-04-01
featured: true
---
How the scheduler drains its queues.
`)
	writeFile(t, filepath.Join(dir, "guides", "unfinished.md"), `---
title: Unfinished Scheduling Notes
draft: true
date: 2024-05-01
---
Not yet.
`)
	return dir
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intro.md")
	writeFile(t, path, "---\ntitle: Intro\n---\n## Getting Started\n\nHello **there**.\n")

	out, err := run(t, "render", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`<h2 id="getting-started">Getting Started</h2>`, "<strong>there</strong>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "title:") {
		t.Errorf("front matter leaked into output:\n%s", out)
	}
}

func TestRender_TOC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	writeFile(t, path, "## Setup\n\n### Install\n\n## Usage\n")

	out, err := run(t, "render", "--toc", path)
	if err != nil {
		t.Fatalf("render --toc: %v", err)
	}
	want := "- Setup (#setup)\n  - Install (#install)\n- Usage (#usage)\n"
	if out != want {
		t.Errorf("toc = %q, want %q", out, want)
	}
}

func TestRender_MissingFile(t *testing.T) {
	if _, err := run(t, "render", filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSearch(t *testing.T) {
	dir := contentDir(t)

	out, err := run(t, "search", "--dir", dir, "scheduling")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "guides/scheduling\t2024-03-01\tScheduling Posts") {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "page 1 of 1 (1 post)" {
		t.Errorf("summary = %q", lines[1])
	}
}

func TestSearch_ListsNewestFirst(t *testing.T) {
	dir := contentDir(t)

	out, err := run(t, "search", "--dir", dir)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "engineering/queues") {
		t.Errorf("first line = %q, want the newest published post", lines[0])
	}
	if lines[2] != "page 1 of 1 (2 posts)" {
		t.Errorf("summary = %q", lines[2])
	}
}

func TestSearch_NoMatches(t *testing.T) {
	out, err := run(t, "search", "--dir", contentDir(t), "kubernetes")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if strings.TrimSpace(out) != "no posts found" {
		t.Errorf("output = %q", out)
	}
}

func TestSearch_UnknownCategory(t *testing.T) {
	if _, err := run(t, "search", "--dir", contentDir(t), "--category", "recipes"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestSitemap(t *testing.T) {
	out, err := run(t, "sitemap", "--dir", contentDir(t), "--base", "https://example.com/")
	if err != nil {
		t.Fatalf("sitemap: %v", err)
	}
	for _, want := range []string{
		"<loc>https://example.com/blog</loc>",
		"<loc>https://example.com/blog/guides/scheduling</loc>",
		"<loc>https://example.com/blog/engineering/queues</loc>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
	if strings.Contains(out, "unfinished") {
		t.Error("sitemap lists a draft")
	}
}

func TestSitemap_Output(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitemap.xml")
	if _, err := run(t, "sitemap", "--dir", contentDir(t), "-o", path); err != nil {
		t.Fatalf("sitemap: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<?xml") {
		t.Errorf("file does not start with an XML header: %.40q", data)
	}
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "--dir", contentDir(t))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if strings.TrimSpace(out) != "3 posts ok" {
		t.Errorf("output = %q", out)
	}
}

func TestCheck_Problems(t *testing.T) {
	dir := contentDir(t)
	writeFile(t, filepath.Join(dir, "recipes", "bread.md"), "---\ntitle: Bread\n---\nFlour.\n")
	writeFile(t, filepath.Join(dir, "guides", "again.md"), "---\ntitle: Again\nslug: scheduling\n---\nDuplicate.\n")

	_, err := run(t, "check", "--dir", dir)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{`"recipes"`, "guides/scheduling"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}
