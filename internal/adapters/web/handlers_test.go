package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dokumen-agent/internal/adapters/web"
	"dokumen-agent/internal/app"
	"dokumen-agent/internal/history"
)

// stubService is a canned ApplicationService for handler tests.
type stubService struct {
	lastSessionID string
	lastMessage   string
	chatResult    *app.ChatResult
	renamed       map[int64]string
	deleted       []int64
}

func (s *stubService) SubmitMessage(_ context.Context, sessionID, text string) (*app.ChatResult, error) {
	s.lastSessionID = sessionID
	s.lastMessage = text
	if s.chatResult != nil {
		return s.chatResult, nil
	}
	return &app.ChatResult{Reply: "ok"}, nil
}

func (s *stubService) ListHistories(_ context.Context, _ int, _ string) ([]history.Summary, error) {
	return []history.Summary{{ID: 7, Title: "Invoice PT X", TaskType: "invoice"}}, nil
}

func (s *stubService) GetHistory(_ context.Context, id int64) (*history.Detail, error) {
	if id != 7 {
		return nil, history.ErrNotFound
	}
	d := &history.Detail{}
	d.ID = 7
	d.Title = "Invoice PT X"
	return d, nil
}

func (s *stubService) RenameHistory(_ context.Context, id int64, title string) error {
	if id != 7 {
		return history.ErrNotFound
	}
	if s.renamed == nil {
		s.renamed = map[int64]string{}
	}
	s.renamed[id] = title
	return nil
}

func (s *stubService) DeleteHistory(_ context.Context, id int64) error {
	if id != 7 {
		return history.ErrNotFound
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubService) ListDocuments(_ context.Context) ([]app.DocumentInfo, error) {
	return nil, nil
}

func newTestServer(t *testing.T, svc app.ApplicationService, filesDir string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(web.NewHandler(svc, filesDir, ""))
	t.Cleanup(ts.Close)
	return ts
}

func TestChatGeneratesSessionID(t *testing.T) {
	svc := &stubService{}
	ts := newTestServer(t, svc, t.TempDir())

	res, err := http.Post(ts.URL+"/api/chat", "application/json",
		strings.NewReader(`{"text":"buat invoice"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if res.Header.Get("X-Session-ID") == "" {
		t.Error("missing X-Session-ID response header")
	}
	if svc.lastMessage != "buat invoice" {
		t.Errorf("message = %q", svc.lastMessage)
	}

	var out app.ChatResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Reply != "ok" {
		t.Errorf("reply = %q", out.Reply)
	}
	if out.SessionID == "" {
		t.Error("missing session_id in response body")
	}
}

func TestChatKeepsClientSessionID(t *testing.T) {
	svc := &stubService{}
	ts := newTestServer(t, svc, t.TempDir())

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/chat",
		strings.NewReader(`{"text":"halo"}`))
	req.Header.Set("X-Session-ID", "sess-abc")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if svc.lastSessionID != "sess-abc" {
		t.Errorf("session id = %q", svc.lastSessionID)
	}
	if got := res.Header.Get("X-Session-ID"); got != "sess-abc" {
		t.Errorf("echoed session id = %q", got)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	ts := newTestServer(t, &stubService{}, t.TempDir())

	res, err := http.Post(ts.URL+"/api/chat", "application/json",
		strings.NewReader(`{"text":"  "}`))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}

func TestHistoryRoutes(t *testing.T) {
	svc := &stubService{}
	ts := newTestServer(t, svc, t.TempDir())

	res, err := http.Get(ts.URL + "/api/history")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var list struct {
		Histories []history.Summary `json:"histories"`
	}
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list.Histories) != 1 || list.Histories[0].ID != 7 {
		t.Errorf("histories = %+v", list.Histories)
	}

	res, err = http.Get(ts.URL + "/api/history/99")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("missing history status = %d, want 404", res.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/history/7",
		strings.NewReader(`{"title":"Invoice PT Y"}`))
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK || svc.renamed[7] != "Invoice PT Y" {
		t.Errorf("rename: status=%d renamed=%v", res.StatusCode, svc.renamed)
	}

	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/history/7", nil)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK || len(svc.deleted) != 1 {
		t.Errorf("delete: status=%d deleted=%v", res.StatusCode, svc.deleted)
	}
}

func TestRequestIDAndCORSHeaders(t *testing.T) {
	ts := httptest.NewServer(web.NewHandler(&stubService{}, t.TempDir(), "https://chat.example.com"))
	t.Cleanup(ts.Close)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set("Origin", "https://chat.example.com")
	req.Header.Set("X-Request-ID", "not a valid id!!")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if rid := res.Header.Get("X-Request-ID"); rid == "" || strings.Contains(rid, " ") {
		t.Errorf("request id = %q, want a generated replacement", rid)
	}
	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "https://chat.example.com" {
		t.Errorf("allow origin = %q", got)
	}

	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted origin got allow origin %q", got)
	}
}

func TestChatRejectsOversizedBody(t *testing.T) {
	ts := newTestServer(t, &stubService{}, t.TempDir())

	big := `{"text":"` + strings.Repeat("a", 2<<20) + `"}`
	res, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(big))
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", res.StatusCode)
	}
}

func TestDownloadServesOnlyBareFilenames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Invoice - A.pdf"), []byte("pdf-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, &stubService{}, dir)

	res, err := http.Get(ts.URL + "/download/Invoice%20-%20A.pdf")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if cd := res.Header.Get("Content-Disposition"); !strings.Contains(cd, "Invoice - A.pdf") {
		t.Errorf("content disposition = %q", cd)
	}

	res, err = http.Get(ts.URL + "/download/missing.pdf")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("missing file status = %d, want 404", res.StatusCode)
	}

	// Encoded traversal must never reach the filesystem.
	res, err = http.Get(ts.URL + "/download/..%2F..%2Fetc%2Fpasswd")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		t.Error("traversal path must not be served")
	}
}
