// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search ranks blog posts against a free-text query.
//
// Scoring is substring containment per query term across four weighted
// fields. There is no tokenizing, stemming or fuzzy matching: a term must
// appear verbatim, after lowercasing, inside a field to count.
package search

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"postpilot/internal/markdown"
	"postpilot/internal/models"
)

// Field weights. A term found in several fields scores in each of them.
const (
	TitleWeight   = 6
	ExcerptWeight = 4
	TagsWeight    = 3
	BodyWeight    = 1
)

// Index maps a post ID to its lowercased plain-text body. It lets callers
// strip markup once instead of on every query. The caller owns the index
// and must rebuild an entry whenever that post's body changes.
type Index map[uuid.UUID]string

// BuildIndex computes the index entry for every post.
func BuildIndex(posts []models.Post) Index {
	idx := make(Index, len(posts))
	for i := range posts {
		idx[posts[i].ID] = IndexBody(posts[i].Body)
	}
	return idx
}

// IndexBody returns the index entry for a single body.
func IndexBody(body string) string {
	return strings.ToLower(markdown.PlainText(body))
}

// Result is a post with its relevance score.
type Result struct {
	Post  models.Post
	Score int
}

// Terms normalises a query into lowercase terms split on whitespace.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(query)))
}

// Score sums the weighted matches of every term against p. body is the
// lowercased plain-text body.
func Score(p *models.Post, terms []string, body string) int {
	title := strings.ToLower(p.Title)
	excerpt := strings.ToLower(p.Excerpt)
	tags := strings.ToLower(strings.Join(p.Tags, " "))

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += TitleWeight
		}
		if strings.Contains(excerpt, term) {
			score += ExcerptWeight
		}
		if strings.Contains(tags, term) {
			score += TagsWeight
		}
		if strings.Contains(body, term) {
			score += BodyWeight
		}
	}
	return score
}

// Rank scores published posts against query and returns the matches,
// highest score first and newest first among equal scores. Posts scoring
// zero are dropped. idx may be nil, in which case bodies are stripped on
// the fly. An empty query returns nil; use Search to get the candidates
// back unchanged.
func Rank(query string, posts []models.Post, idx Index) []Result {
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}

	var results []Result
	for i := range posts {
		p := &posts[i]
		if !p.IsPublished() {
			continue
		}
		body, ok := idx[p.ID]
		if !ok {
			body = IndexBody(p.Body)
		}
		if s := Score(p, terms, body); s > 0 {
			results = append(results, Result{Post: *p, Score: s})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Post.PublishDate.After(results[j].Post.PublishDate)
	})
	return results
}

// Search returns the posts matching query in relevance order. An empty or
// whitespace-only query returns posts unchanged.
func Search(query string, posts []models.Post, idx Index) []models.Post {
	if len(Terms(query)) == 0 {
		return posts
	}
	results := Rank(query, posts, idx)
	out := make([]models.Post, len(results))
	for i, r := range results {
		out[i] = r.Post
	}
	return out
}
