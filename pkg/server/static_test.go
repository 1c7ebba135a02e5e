package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newStaticDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"app.css":          "body{}",
		"app.a1b2c3d4.css": "body{}",
		"panels/main.html": `<section data-layer="main"></section>`,
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestStaticServesFiles(t *testing.T) {
	h := NewStatic(newStaticDir(t), CacheNone)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/panels/main.html", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store, no-cache, must-revalidate" {
		t.Errorf("cache-control = %q", got)
	}
}

func TestStaticRejectsNonReadMethods(t *testing.T) {
	h := NewStatic(newStaticDir(t), CacheNone)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/app.css", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestStaticProductionCacheHeaders(t *testing.T) {
	h := NewStatic(newStaticDir(t), CacheProduction)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/app.a1b2c3d4.css", nil))
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=31536000, immutable" {
		t.Errorf("fingerprinted cache-control = %q", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/app.css", nil))
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600, must-revalidate" {
		t.Errorf("plain cache-control = %q", got)
	}
}

func TestStaticRelPathRejectsTraversal(t *testing.T) {
	bad := []string{
		"/",
		"/../etc/passwd",
		"/a/../../etc/passwd",
		"/./app.css",
		"//etc/passwd",
		"/a\\b",
		"/a/b\x00c",
		"/..",
	}
	for _, p := range bad {
		if rel, ok := staticRelPath(p); ok {
			t.Errorf("staticRelPath(%q) = %q, want rejection", p, rel)
		}
	}

	good := map[string]string{
		"/app.css":          "app.css",
		"/panels/main.html": "panels/main.html",
	}
	for p, want := range good {
		rel, ok := staticRelPath(p)
		if !ok || rel != want {
			t.Errorf("staticRelPath(%q) = %q %v, want %q", p, rel, ok, want)
		}
	}
}

func TestIsFingerprinted(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"app.a1b2c3d4.css", true},
		{"js/client.DEADBEEF.js", true},
		{"app.css", false},
		{"app.v2.css", false},
		{"app.notahash.css", false},
	}
	for _, tt := range tests {
		if got := isFingerprinted(tt.path); got != tt.want {
			t.Errorf("isFingerprinted(%q) = %v", tt.path, got)
		}
	}
}
