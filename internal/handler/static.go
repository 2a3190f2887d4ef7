package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// SPAHandler serves a static single-page bundle, falling back to index.html
// for client-side routes.
type SPAHandler struct {
	staticDir string
	indexFile string
}

func NewSPAHandler(staticDir string) *SPAHandler {
	return &SPAHandler{
		staticDir: staticDir,
		indexFile: "index.html",
	}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" {
		path = "/"
	}

	if strings.HasPrefix(path, "api/") {
		http.NotFound(w, r)
		return
	}

	filePath := filepath.Join(h.staticDir, path)

	info, err := os.Stat(filePath)
	if err == nil && !info.IsDir() {
		http.ServeFile(w, r, filePath)
		return
	}

	indexPath := filepath.Join(h.staticDir, h.indexFile)
	if _, err := os.Stat(indexPath); err != nil {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, indexPath)
}

// ServeLogin serves the login page directly; it is the one admin page that
// stays outside the session guard.
func (h *SPAHandler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	loginPath := filepath.Join(h.staticDir, "login.html")
	if _, err := os.Stat(loginPath); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, loginPath)
}
