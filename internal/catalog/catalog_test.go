package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cats, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if cats.Len() == 0 {
		t.Fatal("default catalogue is empty")
	}
	guides, ok := cats.Lookup("guides")
	if !ok {
		t.Fatal("guides category missing")
	}
	if guides.Label != "Guides" {
		t.Errorf("guides label = %q, want derived %q", guides.Label, "Guides")
	}
	if first := cats.List()[0]; first.Key != "social-media-tips" {
		t.Errorf("first category = %q, order not preserved", first.Key)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		wantLen int
	}{
		{name: "valid", yaml: "- key: news\n  label: News\n- key: how-to\n", wantLen: 2},
		{name: "missing key", yaml: "- label: Orphan\n", wantErr: true},
		{name: "duplicate key", yaml: "- key: a\n- key: a\n", wantErr: true},
		{name: "not a list", yaml: "key: a\n", wantErr: true},
		{name: "empty", yaml: "", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats, err := Parse([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cats.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", cats.Len(), tt.wantLen)
			}
		})
	}
}

func TestParse_DerivedLabel(t *testing.T) {
	cats, err := Parse([]byte("- key: case-studies\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c, _ := cats.Lookup("case-studies")
	if c.Label != "Case Studies" {
		t.Errorf("label = %q, want %q", c.Label, "Case Studies")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cats.yaml")
	if err := os.WriteFile(path, []byte("- key: only\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cats, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cats.Len() != 1 || !cats.Has("only") {
		t.Errorf("Load returned %+v", cats.List())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) should fail")
	}
	if cats, err := Load(""); err != nil || cats.Len() == 0 {
		t.Errorf("Load(\"\") = %d categories, %v", cats.Len(), err)
	}
}
