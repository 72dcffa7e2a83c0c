package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// download serves one generated document. Only bare filenames inside the
// output directory are reachable; anything path-like is rejected.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeError(w, r, "invalid filename", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	path := filepath.Join(h.filesDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeError(w, r, "file not found", "NOT_FOUND", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, r, path)
}
