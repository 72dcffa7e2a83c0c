package web

import (
	"net/http"
	"strconv"
	"strings"

	"dokumen-agent/internal/app"
	"dokumen-agent/internal/history"

	"github.com/google/uuid"
)

// chat runs one conversational turn. The session is identified by the
// X-Session-ID header; a missing or unusable header gets a fresh ID, echoed
// back so the client can carry it forward.
func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
		// Older clients send "message".
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	text := req.Text
	if strings.TrimSpace(text) == "" {
		text = req.Message
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, r, "text must not be empty", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	sessionID := strings.TrimSpace(r.Header.Get("X-Session-ID"))
	if sessionID == "" || len(sessionID) > 64 {
		sessionID = uuid.NewString()
	}
	w.Header().Set("X-Session-ID", sessionID)

	res, err := h.svc.SubmitMessage(r.Context(), sessionID, text)
	if err != nil {
		writeError(w, r, "gagal memproses pesan: "+err.Error(), "CHAT_FAILED", http.StatusInternalServerError)
		return
	}
	res.SessionID = sessionID
	writeJSON(w, res)
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
		filtered := docs[:0]
		for _, d := range docs {
			if strings.Contains(strings.ToLower(d.Filename), q) {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}
	if docs == nil {
		docs = []app.DocumentInfo{}
	}
	type response struct {
		Documents []app.DocumentInfo `json:"documents"`
	}
	writeJSON(w, response{Documents: docs})
}

func (h *Handler) listHistories(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	items, err := h.svc.ListHistories(r.Context(), limit, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []history.Summary{}
	}
	type response struct {
		Histories []history.Summary `json:"histories"`
	}
	writeJSON(w, response{Histories: items})
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseHistoryID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.GetHistory(r.Context(), id)
	if err != nil {
		writeHistoryError(w, r, err)
		return
	}
	writeJSON(w, detail)
}

func (h *Handler) renameHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseHistoryID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, r, "title must not be empty", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.RenameHistory(r.Context(), id, req.Title); err != nil {
		writeHistoryError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) deleteHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseHistoryID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteHistory(r.Context(), id); err != nil {
		writeHistoryError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func parseHistoryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(historyID(r), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid history id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeHistoryError(w http.ResponseWriter, r *http.Request, err error) {
	if isNotFound(err) {
		writeError(w, r, "history not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
}
