package handlers

import (
	"strings"
	"testing"
)

func TestValidatePreview(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"valid", "## Hello", ""},
		{"empty", "", "Body is required."},
		{"whitespace only", "  \n\t", "Body is required."},
		{"too long", strings.Repeat("a", maxBodyLen+1), "Body is too long (max 100,000 characters)."},
		{"at limit", strings.Repeat("a", maxBodyLen), ""},
		{"multibyte at limit", strings.Repeat("é", maxBodyLen), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validatePreview(tt.body); got != tt.want {
				t.Errorf("validatePreview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	if got := validateQuery("scheduling tips"); got != "" {
		t.Errorf("short query rejected: %q", got)
	}
	if got := validateQuery(strings.Repeat("q", maxQueryLen+1)); got == "" {
		t.Error("long query accepted")
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"1", 1, false},
		{"42", 42, false},
		{"999999", maxPage, false},
		{"0", 1, false},
		{"-3", 1, false},
		{"two", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePage(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePage(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePage(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
