package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"dokumen-agent/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc      app.ApplicationService
	filesDir string
}

// NewHandler creates and wires the chi router with all routes. filesDir is
// the directory generated documents are served from.
func NewHandler(svc app.ApplicationService, filesDir, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc, filesDir: filesDir}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/healthz", h.health)

	// Generated documents.
	r.Get("/download/{filename}", h.download)

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Post("/api/chat", h.chat)

		r.Get("/api/documents", h.listDocuments)

		r.Get("/api/history", h.listHistories)
		r.Get("/api/history/{id}", h.getHistory)
		r.Put("/api/history/{id}", h.renameHistory)
		r.Delete("/api/history/{id}", h.deleteHistory)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and writes the appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the
// limit set by RequestBodyLimit; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// historyID extracts the {id} URL parameter.
func historyID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
