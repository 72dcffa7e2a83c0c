package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dokumen-agent/internal/core"
	"dokumen-agent/internal/history"
)

// HistoryRecorder is the persistence surface the service needs. It is
// implemented by history.Store; tests substitute an in-memory recorder.
type HistoryRecorder interface {
	Insert(ctx context.Context, title, taskType string, data map[string]any, files []core.GeneratedFile) (int64, error)
	AppendMessage(ctx context.Context, historyID int64, sender, text string, files []core.GeneratedFile) error
	UpdateState(ctx context.Context, historyID int64, state *core.Session) error
	Finalize(ctx context.Context, historyID int64, title string, data map[string]any, files []core.GeneratedFile) error
	List(ctx context.Context, limit int, query string) ([]history.Summary, error)
	GetDetail(ctx context.Context, historyID int64) (*history.Detail, error)
	Rename(ctx context.Context, historyID int64, title string) error
	Delete(ctx context.Context, historyID int64) error
}

// SmallTalker answers messages that match no document flow.
type SmallTalker interface {
	SmallTalk(ctx context.Context, text string) (string, error)
}

// Service implements ApplicationService. Histories and chat may be nil:
// without a database the assistant still builds documents, and without an
// AI backend off-topic messages get a canned reply.
type Service struct {
	sessions  *core.SessionStore
	flows     []core.Flow
	histories HistoryRecorder
	chat      SmallTalker
	filesDir  string
}

func NewService(sessions *core.SessionStore, flows []core.Flow, histories HistoryRecorder, chat SmallTalker, filesDir string) *Service {
	return &Service{
		sessions:  sessions,
		flows:     flows,
		histories: histories,
		chat:      chat,
		filesDir:  filesDir,
	}
}

const (
	senderUser = "user"
	senderBot  = "bot"

	cancelReply   = "Baik, proses pembuatan dokumen dibatalkan. Ada yang bisa saya bantu lagi?"
	noActiveReply = "Tidak ada proses yang sedang berjalan."
	fallbackReply = "Halo! Saya asisten pembuatan dokumen. Saya bisa membuatkan invoice, MoU, " +
		"atau surat penawaran — sebutkan saja dokumen yang Anda butuhkan."
)

// SubmitMessage runs one conversational turn. The session lock is held for
// the whole turn, so two messages for the same session never interleave.
// Persistence failures are logged and never fail the turn: the in-memory
// session is the source of truth.
func (svc *Service) SubmitMessage(ctx context.Context, sessionID, text string) (*ChatResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &ChatResult{Reply: "Silakan ketik pesan Anda."}, nil
	}

	var result *ChatResult
	err := svc.sessions.WithSession(sessionID, func(s *core.Session) error {
		res, err := svc.runTurn(ctx, s, text)
		result = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (svc *Service) runTurn(ctx context.Context, s *core.Session, text string) (*ChatResult, error) {
	if core.IsCancelCommand(text) {
		if !s.Active() {
			return &ChatResult{Reply: noActiveReply}, nil
		}
		historyID := s.HistoryID
		s.Reset()
		svc.recordTurn(ctx, historyID, text, cancelReply, nil)
		svc.persistState(ctx, historyID, s)
		return &ChatResult{Reply: cancelReply, HistoryID: historyID}, nil
	}

	if s.Active() {
		flow := svc.flowFor(s.Type)
		if flow == nil {
			// Session points at a flow that no longer exists; drop it.
			s.Reset()
			return &ChatResult{Reply: fallbackReply}, nil
		}
		return svc.runFlowTurn(ctx, flow, s, text)
	}

	for _, flow := range svc.flows {
		if flow.Matches(text) {
			return svc.startFlow(ctx, flow, s, text)
		}
	}

	return svc.smallTalk(ctx, text)
}

func (svc *Service) startFlow(ctx context.Context, flow core.Flow, s *core.Session, text string) (*ChatResult, error) {
	res, err := flow.Handle(ctx, s, text)
	if err != nil {
		return nil, fmt.Errorf("start %s flow: %w", flow.Type(), err)
	}

	if svc.histories != nil {
		id, err := svc.histories.Insert(ctx, provisionalTitle(flow.Type()), string(flow.Type()), nil, nil)
		if err != nil {
			log.Printf("history insert failed: %v", err)
		} else {
			s.HistoryID = id
		}
	}
	svc.recordTurn(ctx, s.HistoryID, text, res.Text, res.Files)
	svc.persistState(ctx, s.HistoryID, s)

	return &ChatResult{Reply: res.Text, Files: res.Files, Done: res.Done, HistoryID: s.HistoryID}, nil
}

func (svc *Service) runFlowTurn(ctx context.Context, flow core.Flow, s *core.Session, text string) (*ChatResult, error) {
	// The flow resets the session on its terminal transition, so remember
	// what we need for persistence before handing over.
	historyID := s.HistoryID
	before := *s

	res, err := flow.Handle(ctx, s, text)
	if err != nil {
		// The session is unchanged (documents render before the reset), so
		// the user can simply resend the last answer.
		return nil, fmt.Errorf("%s flow turn: %w", flow.Type(), err)
	}

	svc.recordTurn(ctx, historyID, text, res.Text, res.Files)
	if res.Done {
		svc.finalize(ctx, historyID, res.Title, recordData(&before), res.Files)
	} else {
		svc.persistState(ctx, historyID, s)
	}

	return &ChatResult{Reply: res.Text, Files: res.Files, Done: res.Done, HistoryID: historyID}, nil
}

func (svc *Service) smallTalk(ctx context.Context, text string) (*ChatResult, error) {
	if svc.chat == nil {
		return &ChatResult{Reply: fallbackReply}, nil
	}
	reply, err := svc.chat.SmallTalk(ctx, text)
	if err != nil {
		log.Printf("small talk failed: %v", err)
		return &ChatResult{Reply: fallbackReply}, nil
	}
	return &ChatResult{Reply: reply}, nil
}

func (svc *Service) flowFor(t core.DocumentType) core.Flow {
	for _, f := range svc.flows {
		if f.Type() == t {
			return f
		}
	}
	return nil
}

// recordTurn appends the user and assistant messages, best effort.
func (svc *Service) recordTurn(ctx context.Context, historyID int64, userText, botText string, files []core.GeneratedFile) {
	if svc.histories == nil || historyID == 0 {
		return
	}
	if err := svc.histories.AppendMessage(ctx, historyID, senderUser, userText, nil); err != nil {
		log.Printf("history append (user) failed: %v", err)
	}
	if err := svc.histories.AppendMessage(ctx, historyID, senderBot, botText, files); err != nil {
		log.Printf("history append (bot) failed: %v", err)
	}
}

func (svc *Service) persistState(ctx context.Context, historyID int64, s *core.Session) {
	if svc.histories == nil || historyID == 0 {
		return
	}
	if err := svc.histories.UpdateState(ctx, historyID, s); err != nil {
		log.Printf("history state update failed: %v", err)
	}
}

func (svc *Service) finalize(ctx context.Context, historyID int64, title string, data map[string]any, files []core.GeneratedFile) {
	if svc.histories == nil || historyID == 0 {
		return
	}
	if err := svc.histories.Finalize(ctx, historyID, title, data, files); err != nil {
		log.Printf("history finalize failed: %v", err)
	}
}

// recordData snapshots the completed document for the history record. The
// pre-turn session still points at the record after the flow's reset.
func recordData(before *core.Session) map[string]any {
	switch {
	case before.Invoice != nil:
		return map[string]any{"invoice": before.Invoice}
	case before.Mou != nil:
		return map[string]any{"mou": before.Mou}
	case before.Quotation != nil:
		return map[string]any{"penawaran": before.Quotation}
	}
	return nil
}

func provisionalTitle(t core.DocumentType) string {
	switch t {
	case core.DocumentInvoice:
		return "Invoice baru"
	case core.DocumentMoU:
		return "MoU baru"
	case core.DocumentQuotation:
		return "Penawaran baru"
	}
	return "Percakapan baru"
}

func (svc *Service) ListHistories(ctx context.Context, limit int, query string) ([]history.Summary, error) {
	if svc.histories == nil {
		return nil, nil
	}
	return svc.histories.List(ctx, limit, query)
}

func (svc *Service) GetHistory(ctx context.Context, id int64) (*history.Detail, error) {
	if svc.histories == nil {
		return nil, history.ErrNotFound
	}
	return svc.histories.GetDetail(ctx, id)
}

func (svc *Service) RenameHistory(ctx context.Context, id int64, title string) error {
	if svc.histories == nil {
		return history.ErrNotFound
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}
	return svc.histories.Rename(ctx, id, title)
}

func (svc *Service) DeleteHistory(ctx context.Context, id int64) error {
	if svc.histories == nil {
		return history.ErrNotFound
	}
	return svc.histories.Delete(ctx, id)
}

// ListDocuments scans the output directory, newest first.
func (svc *Service) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	entries, err := os.ReadDir(svc.filesDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read files dir: %w", err)
	}

	var docs []DocumentInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".xlsx", ".pdf", ".docx":
		default:
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		docs = append(docs, DocumentInfo{
			Filename:   e.Name(),
			URL:        "/download/" + e.Name(),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ModifiedAt.After(docs[j].ModifiedAt) })
	return docs, nil
}
