package handlers

import (
	"net/http"
	"path"
	"strings"
)

// NewStaticHandler serves files from dir. Scripts and JSON are never cached
// so a browser source picks up edits and state changes immediately; other
// assets must revalidate.
func NewStaticHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheControlFor(r.URL.Path))
		files.ServeHTTP(w, r)
	})
}

func cacheControlFor(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".js", ".json":
		return "no-store, must-revalidate"
	default:
		return "no-cache"
	}
}
