package server

import (
	"io/fs"
	"net/http"
	"strings"
)

// uiFS is the embedded web shell. Set via SetUI before the server is built;
// when nil, only the /api routes are served.
var uiFS fs.FS

// SetUI installs the embedded filesystem for the web shell.
func SetUI(fsys fs.FS) {
	uiFS = fsys
}

// spaHandler serves the web shell with single-page-app fallback: any path
// that does not name a real file gets index.html so client-side routing
// works on reload.
func spaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uiFS == nil {
			http.Error(w, "web shell not embedded in this binary", http.StatusNotFound)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		f, err := uiFS.Open(path)
		if err != nil {
			path = "index.html"
		} else {
			f.Close()
		}

		http.ServeFileFS(w, r, uiFS, path)
	}
}
