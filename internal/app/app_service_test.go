package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dokumen-agent/internal/app"
	"dokumen-agent/internal/core"
	"dokumen-agent/internal/history"
)

// fakeFlow is a two-step flow: the trigger message asks one question, the
// next message finishes and renders one file.
type fakeFlow struct {
	err error
}

const fakeStep core.Step = "fake_question"

func (f *fakeFlow) Type() core.DocumentType { return core.DocumentInvoice }

func (f *fakeFlow) Matches(text string) bool {
	return strings.Contains(strings.ToLower(text), "invoice")
}

func (f *fakeFlow) Handle(_ context.Context, s *core.Session, text string) (*core.TurnResult, error) {
	if s.Step == core.StepIdle {
		s.Type = f.Type()
		s.Step = fakeStep
		s.Invoice = core.NewInvoiceRecord("2808001", time.Now())
		return &core.TurnResult{Text: "Nama perusahaan?"}, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	s.Invoice.BillTo.Name = text
	files := []core.GeneratedFile{{Type: "xlsx", Filename: "Invoice - X.xlsx", URL: "/download/Invoice - X.xlsx"}}
	s.Reset()
	return &core.TurnResult{Text: "Invoice selesai.", Files: files, Done: true, Title: "Invoice " + text}, nil
}

// memRecorder is an in-memory HistoryRecorder that can be forced to fail.
type memRecorder struct {
	failAll bool

	nextID    int64
	inserts   []string
	appends   []string
	states    int
	finalized struct {
		id    int64
		title string
		data  map[string]any
		files []core.GeneratedFile
	}
}

var errRecorder = errors.New("db down")

func (m *memRecorder) Insert(_ context.Context, title, taskType string, _ map[string]any, _ []core.GeneratedFile) (int64, error) {
	if m.failAll {
		return 0, errRecorder
	}
	m.nextID++
	m.inserts = append(m.inserts, taskType+":"+title)
	return m.nextID, nil
}

func (m *memRecorder) AppendMessage(_ context.Context, _ int64, sender, text string, _ []core.GeneratedFile) error {
	if m.failAll {
		return errRecorder
	}
	m.appends = append(m.appends, sender+":"+text)
	return nil
}

func (m *memRecorder) UpdateState(_ context.Context, _ int64, _ *core.Session) error {
	if m.failAll {
		return errRecorder
	}
	m.states++
	return nil
}

func (m *memRecorder) Finalize(_ context.Context, id int64, title string, data map[string]any, files []core.GeneratedFile) error {
	if m.failAll {
		return errRecorder
	}
	m.finalized.id = id
	m.finalized.title = title
	m.finalized.data = data
	m.finalized.files = files
	return nil
}

func (m *memRecorder) List(_ context.Context, _ int, _ string) ([]history.Summary, error) {
	return nil, nil
}

func (m *memRecorder) GetDetail(_ context.Context, _ int64) (*history.Detail, error) {
	return nil, history.ErrNotFound
}

func (m *memRecorder) Rename(_ context.Context, _ int64, _ string) error { return nil }
func (m *memRecorder) Delete(_ context.Context, _ int64) error           { return nil }

func newTestService(t *testing.T, flow core.Flow, rec app.HistoryRecorder) (*app.Service, *core.SessionStore) {
	t.Helper()
	sessions := core.NewSessionStore(0)
	svc := app.NewService(sessions, []core.Flow{flow}, rec, nil, t.TempDir())
	return svc, sessions
}

func TestSubmitMessageStartsFlowAndPersists(t *testing.T) {
	rec := &memRecorder{}
	svc, sessions := newTestService(t, &fakeFlow{}, rec)

	res, err := svc.SubmitMessage(context.Background(), "s1", "tolong buat invoice")
	if err != nil {
		t.Fatalf("SubmitMessage: %v", err)
	}
	if res.Reply != "Nama perusahaan?" {
		t.Errorf("reply = %q", res.Reply)
	}
	if res.HistoryID != 1 {
		t.Errorf("history id = %d, want 1", res.HistoryID)
	}
	if len(rec.inserts) != 1 || rec.inserts[0] != "invoice:Invoice baru" {
		t.Errorf("inserts = %v", rec.inserts)
	}
	if len(rec.appends) != 2 {
		t.Fatalf("appends = %v", rec.appends)
	}
	if rec.appends[0] != "user:tolong buat invoice" || !strings.HasPrefix(rec.appends[1], "bot:") {
		t.Errorf("appends = %v", rec.appends)
	}
	if rec.states != 1 {
		t.Errorf("state updates = %d, want 1", rec.states)
	}

	s := sessions.Snapshot("s1")
	if !s.Active() || s.HistoryID != 1 {
		t.Errorf("session = %+v, want active with history 1", s)
	}
}

func TestSubmitMessageCompletesFlowAndFinalizes(t *testing.T) {
	rec := &memRecorder{}
	svc, sessions := newTestService(t, &fakeFlow{}, rec)
	ctx := context.Background()

	if _, err := svc.SubmitMessage(ctx, "s1", "buat invoice"); err != nil {
		t.Fatal(err)
	}
	res, err := svc.SubmitMessage(ctx, "s1", "PT Maju Jaya")
	if err != nil {
		t.Fatalf("SubmitMessage: %v", err)
	}
	if !res.Done || len(res.Files) != 1 {
		t.Fatalf("result = %+v, want done with one file", res)
	}
	if rec.finalized.id != 1 || rec.finalized.title != "Invoice PT Maju Jaya" {
		t.Errorf("finalized = %+v", rec.finalized)
	}
	if rec.finalized.data == nil || rec.finalized.data["invoice"] == nil {
		t.Errorf("finalized data missing invoice record: %v", rec.finalized.data)
	}
	if len(rec.finalized.files) != 1 {
		t.Errorf("finalized files = %v", rec.finalized.files)
	}
	if s := sessions.Snapshot("s1"); s.Active() {
		t.Errorf("session still active after completion: %+v", s)
	}
}

func TestSubmitMessagePersistenceFailureDoesNotBlockTurn(t *testing.T) {
	rec := &memRecorder{failAll: true}
	svc, sessions := newTestService(t, &fakeFlow{}, rec)
	ctx := context.Background()

	res, err := svc.SubmitMessage(ctx, "s1", "buat invoice")
	if err != nil {
		t.Fatalf("SubmitMessage: %v", err)
	}
	if res.HistoryID != 0 {
		t.Errorf("history id = %d, want 0 when insert fails", res.HistoryID)
	}
	// The flow still advanced in memory.
	if s := sessions.Snapshot("s1"); !s.Active() {
		t.Error("session should be active despite persistence failure")
	}
	res, err = svc.SubmitMessage(ctx, "s1", "PT Maju Jaya")
	if err != nil || !res.Done {
		t.Fatalf("completion turn: res=%+v err=%v", res, err)
	}
}

func TestSubmitMessageCancelResetsSession(t *testing.T) {
	rec := &memRecorder{}
	svc, sessions := newTestService(t, &fakeFlow{}, rec)
	ctx := context.Background()

	if _, err := svc.SubmitMessage(ctx, "s1", "buat invoice"); err != nil {
		t.Fatal(err)
	}
	res, err := svc.SubmitMessage(ctx, "s1", "batal")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Reply, "dibatalkan") {
		t.Errorf("reply = %q", res.Reply)
	}
	if s := sessions.Snapshot("s1"); s.Active() {
		t.Errorf("session still active after cancel: %+v", s)
	}

	res, err = svc.SubmitMessage(ctx, "s1", "batal")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Reply, "Tidak ada proses") {
		t.Errorf("idle cancel reply = %q", res.Reply)
	}
}

func TestSubmitMessageFallbackWithoutAI(t *testing.T) {
	svc, _ := newTestService(t, &fakeFlow{}, &memRecorder{})

	res, err := svc.SubmitMessage(context.Background(), "s1", "halo apa kabar")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Reply, "invoice") {
		t.Errorf("fallback reply = %q", res.Reply)
	}
}

func TestSubmitMessageFlowErrorKeepsSession(t *testing.T) {
	flow := &fakeFlow{err: errors.New("render failed")}
	svc, sessions := newTestService(t, flow, &memRecorder{})
	ctx := context.Background()

	if _, err := svc.SubmitMessage(ctx, "s1", "buat invoice"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitMessage(ctx, "s1", "PT Maju Jaya"); err == nil {
		t.Fatal("expected error from failing flow")
	}
	if s := sessions.Snapshot("s1"); !s.Active() {
		t.Error("session must stay active so the user can retry")
	}
}

func TestListDocumentsFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Invoice - A.xlsx", "Invoice - A.pdf", "notes.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	svc := app.NewService(core.NewSessionStore(0), nil, nil, nil, dir)

	docs, err := svc.ListDocuments(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %v, want 2 entries", docs)
	}
	for _, d := range docs {
		if !strings.HasPrefix(d.URL, "/download/") {
			t.Errorf("url = %q", d.URL)
		}
	}
}
