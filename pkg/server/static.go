package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// staticFallback serves files from dir for unmatched GET requests. Lookups
// are confined to dir by cleaning the path before joining. Misses keep the
// stock plain-text 404.
func staticFallback(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && dir != "" {
			name := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
			if info, err := os.Stat(name); err == nil && !info.IsDir() {
				http.ServeFile(w, r, name)
				return
			}
		}
		http.NotFound(w, r)
	})
}
