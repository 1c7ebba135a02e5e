package server

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// CacheMode selects the Cache-Control strategy for static responses.
type CacheMode int

const (
	// CacheNone disables caching. Useful during development.
	CacheNone CacheMode = iota

	// CacheProduction caches fingerprinted files as immutable for a year
	// and everything else for an hour with revalidation.
	CacheProduction
)

// Static serves files from the host's static directory: stylesheets, the
// thin client script, and for the default http fragment source the
// pre-rendered fragments themselves. Path traversal and absolute-path
// tricks are rejected before the filesystem is touched.
type Static struct {
	fs    http.FileSystem
	cache CacheMode
}

// NewStatic creates a static handler over dir.
func NewStatic(dir string, cache CacheMode) *Static {
	return &Static{fs: http.Dir(dir), cache: cache}
}

// ServeHTTP implements http.Handler.
func (s *Static) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rel, ok := staticRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := s.fs.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	s.applyCacheHeaders(w, rel)
	http.ServeContent(w, r, rel, info.ModTime(), f)
}

// staticRelPath returns a sanitized relative path for a static file request.
// It rejects traversal and absolute-path tricks so serving cannot escape the
// configured directory.
func staticRelPath(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" {
		return "", false
	}

	// Reject NUL early (can appear via %00).
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}

	// Reject platform-dependent separators.
	if strings.Contains(rel, "\\") {
		return "", false
	}

	// A second leading "/" indicates an absolute-path attempt
	// (e.g. "//etc/passwd").
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Reject dot-segments before cleaning so a traversal attempt is never
	// "cleaned away" into a different, allowed path.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == "" || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	// Reject OS-absolute/volume paths after slash conversion.
	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

// applyCacheHeaders sets Cache-Control based on the configured mode.
func (s *Static) applyCacheHeaders(w http.ResponseWriter, filePath string) {
	switch s.cache {
	case CacheNone:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	case CacheProduction:
		if isFingerprinted(filePath) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// isFingerprinted reports whether a file name carries a content hash, e.g.
// "app.a1b2c3d4.css". Hashes are 8+ hex characters before the extension.
func isFingerprinted(filePath string) bool {
	parts := strings.Split(path.Base(filePath), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
