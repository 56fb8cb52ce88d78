package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"postpilot/internal/models"
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

func TestParse(t *testing.T) {
	src := `---
title: Scheduling Posts
slug: scheduling
category: guides
tags: [planning, tips]
read_time: 4
date: 2024-03-01
updated: 2024-03-05T10:00:00Z
featured: true
---
## Intro

Hello.
`
	p, err := Parse("whatever.md", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Title != "Scheduling Posts" || p.Slug != "scheduling" || p.Category != "guides" {
		t.Errorf("header fields = %q %q %q", p.Title, p.Slug, p.Category)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "planning" {
		t.Errorf("Tags = %v", p.Tags)
	}
	if p.ReadTime == nil || *p.ReadTime != 4 {
		t.Errorf("ReadTime = %v", p.ReadTime)
	}
	if !p.PublishDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishDate = %v", p.PublishDate)
	}
	if p.LastModified == nil || p.LastModified.Day() != 5 {
		t.Errorf("LastModified = %v", p.LastModified)
	}
	if !p.Featured || !p.IsPublished() {
		t.Errorf("Featured = %v, Status = %q", p.Featured, p.Status)
	}
	if strings.TrimSpace(p.Body) != "## Intro\n\nHello." {
		t.Errorf("Body = %q", p.Body)
	}
}

func TestParse_Defaults(t *testing.T) {
	p, err := Parse("my-first_post.md", []byte("Just a body.\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Title != "My First Post" {
		t.Errorf("Title = %q, want %q", p.Title, "My First Post")
	}
	if p.Slug != "my-first_post" {
		t.Errorf("Slug = %q", p.Slug)
	}
	if p.Tags == nil {
		t.Error("Tags should be empty, not nil")
	}
}

func TestParse_Draft(t *testing.T) {
	for _, fm := range []string{"draft: true", "status: draft"} {
		p, err := Parse("x.md", []byte("---\n"+fm+"\n---\nbody\n"))
		if err != nil {
			t.Fatalf("Parse(%q): %v", fm, err)
		}
		if p.Status != models.PostStatusDraft {
			t.Errorf("%q: Status = %q, want draft", fm, p.Status)
		}
	}
}

func TestParse_BadDate(t *testing.T) {
	if _, err := Parse("x.md", []byte("---\ndate: yesterday\n---\n")); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestDir_ListPosts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "guides", "a.md"), "---\ntitle: A\ndate: 2024-01-01\n---\nbody a\n")
	writeFile(t, filepath.Join(root, "b.md"), "---\ntitle: B\ncategory: engineering\ndate: 2024-02-01\n---\nbody b\n")
	writeFile(t, filepath.Join(root, "orphan.md"), "no category anywhere\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, ".git", "c.md"), "---\ncategory: guides\n---\nhidden\n")

	d := NewDir(root)
	posts, err := d.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2: %+v", len(posts), posts)
	}
	if posts[0].Title != "B" || posts[1].Title != "A" {
		t.Errorf("order = %q, %q; want newest first", posts[0].Title, posts[1].Title)
	}
	if posts[1].Category != "guides" {
		t.Errorf("directory category = %q, want guides", posts[1].Category)
	}

	again, _ := d.ListPosts(context.Background())
	if again[0].ID != posts[0].ID {
		t.Error("IDs must be stable across reads")
	}
	if posts[0].ID == posts[1].ID {
		t.Error("IDs must differ between posts")
	}
}

func TestDir_FindPost(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "guides", "hello.md"), "---\ntitle: Hello\n---\nbody\n")
	writeFile(t, filepath.Join(root, "guides", "wip.md"), "---\ndraft: true\n---\nbody\n")

	d := NewDir(root)
	ctx := context.Background()

	p, err := d.FindPost(ctx, "guides", "hello")
	if err != nil || p == nil {
		t.Fatalf("FindPost = %v, %v", p, err)
	}
	if p.Title != "Hello" {
		t.Errorf("Title = %q", p.Title)
	}

	for _, tc := range [][2]string{{"guides", "wip"}, {"guides", "nope"}, {"other", "hello"}} {
		p, err := d.FindPost(ctx, tc[0], tc[1])
		if err != nil || p != nil {
			t.Errorf("FindPost(%q, %q) = %v, %v; want nil, nil", tc[0], tc[1], p, err)
		}
	}
}

func TestDir_Watch(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root)
	d.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- d.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register the root.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(root, "new.md"), "---\ncategory: guides\n---\nbody\n")

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange not called after writing a file")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestDir_Watch_CallsDoNotOverlap(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root)
	d.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var running, maxRunning, calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- d.Watch(ctx, func() {
			n := running.Add(1)
			for {
				m := maxRunning.Load()
				if n <= m || maxRunning.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(300 * time.Millisecond)
			running.Add(-1)
			calls.Add(1)
		})
	}()

	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(root, "a.md"), "a\n")
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(root, "b.md"), "b\n")

	// Both writes must be seen: the second one lands during the first call.
	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if got := calls.Load(); got < 2 {
		t.Fatalf("onChange called %d times, want at least 2", got)
	}
	if got := maxRunning.Load(); got != 1 {
		t.Errorf("max concurrent onChange calls = %d, want 1", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	if got := running.Load(); got != 0 {
		t.Errorf("Watch returned with %d onChange calls still running", got)
	}
}
