package app

import (
	"context"
	"time"

	"dokumen-agent/internal/core"
	"dokumen-agent/internal/history"
)

// ChatResult is one assistant turn. Done is true when a document flow just
// finished, in which case Files lists the rendered outputs.
type ChatResult struct {
	Reply     string               `json:"text"`
	Files     []core.GeneratedFile `json:"files,omitempty"`
	Done      bool                 `json:"done"`
	HistoryID int64                `json:"history_id,omitempty"`
	SessionID string               `json:"session_id,omitempty"`
}

// DocumentInfo describes one generated file on disk.
type DocumentInfo struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ApplicationService is the single interface all UI adapters (REPL, Web)
// call. It decouples presentation from the flows: implementations contain
// no display logic of any kind.
type ApplicationService interface {
	// SubmitMessage runs one conversational turn for the given session.
	// Session turns are serialized per session ID.
	SubmitMessage(ctx context.Context, sessionID, text string) (*ChatResult, error)

	// ListHistories returns stored conversations, newest first, optionally
	// filtered by a title substring.
	ListHistories(ctx context.Context, limit int, query string) ([]history.Summary, error)

	// GetHistory returns one stored conversation in full.
	GetHistory(ctx context.Context, id int64) (*history.Detail, error)

	// RenameHistory updates a conversation title.
	RenameHistory(ctx context.Context, id int64, title string) error

	// DeleteHistory removes a conversation.
	DeleteHistory(ctx context.Context, id int64) error

	// ListDocuments returns the generated files on disk, newest first.
	ListDocuments(ctx context.Context) ([]DocumentInfo, error)
}
