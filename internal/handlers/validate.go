package handlers

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validation limits for API inputs.
const (
	maxBodyLen  = 100_000
	maxQueryLen = 200
	maxPage     = 10_000
)

var errInvalidPage = errors.New("page must be an integer")

// validatePreview checks a preview body and returns the first error found.
func validatePreview(body string) string {
	if strings.TrimSpace(body) == "" {
		return "Body is required."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	return ""
}

// validateQuery checks a search query.
func validateQuery(q string) string {
	if utf8.RuneCountInString(q) > maxQueryLen {
		return "Search query is too long (max 200 characters)."
	}
	return ""
}

// parsePage reads the page query parameter. Empty means the first page.
// Numbers are clamped into [1, maxPage]; pages past the end are clamped
// again by the paginator. Only non-numeric input is an error.
func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errInvalidPage
	}
	return max(1, min(n, maxPage)), nil
}
