package templates

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestNewDefaultManager(t *testing.T) {
	m, err := NewDefaultManager()
	if err != nil {
		t.Fatalf("NewDefaultManager: %v", err)
	}

	for _, name := range []string{"welcome.tmpl", "help.tmpl", "summary.tmpl"} {
		if !m.TemplateExists(name) {
			t.Errorf("template %s missing", name)
		}
	}

	out, err := m.ExecuteTemplate("welcome.tmpl", map[string]string{"Symbol": "ACME"})
	if err != nil {
		t.Fatalf("ExecuteTemplate: %v", err)
	}
	if !strings.Contains(out, "ACME") {
		t.Errorf("welcome should mention symbol: %q", out)
	}
}

func TestNewManager_RequiredMissing(t *testing.T) {
	fsys := fstest.MapFS{"a.tmpl": {Data: []byte("hi")}}

	if _, err := NewManager(fsys, "b.tmpl"); err == nil {
		t.Error("expected error for missing required template")
	}
}

func TestFuncMap(t *testing.T) {
	fsys := fstest.MapFS{
		"f.tmpl": {Data: []byte(`{{money .P}} {{fixed 1 .R}} {{date .D}}`)},
	}
	m, err := NewManager(fsys, "f.tmpl")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	out, err := m.ExecuteTemplate("f.tmpl", map[string]any{
		"P": 12.5,
		"R": 55.55,
		"D": time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ExecuteTemplate: %v", err)
	}
	if out != "$12.50 55.6 2024-06-01" {
		t.Errorf("got %q", out)
	}

	if _, err := m.ExecuteTemplate("nope.tmpl", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}
