// Package history persists conversations and the documents they produced.
// Persistence is best effort from the flows' point of view: a failed write
// is logged by the caller and never blocks a turn.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dokumen-agent/internal/core"
)

// Message is one chat bubble stored inside a history record.
type Message struct {
	ID        string               `json:"id"`
	Sender    string               `json:"sender"`
	Text      string               `json:"text"`
	Files     []core.GeneratedFile `json:"files"`
	Timestamp time.Time            `json:"timestamp"`
}

// Summary is the list-view projection of a history record.
type Summary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	TaskType  string    `json:"task_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Detail is the full history record.
type Detail struct {
	Summary
	Data     map[string]any       `json:"data"`
	Files    []core.GeneratedFile `json:"files"`
	Messages []Message            `json:"messages"`
	State    *core.Session        `json:"state"`
}

// ErrNotFound is returned for operations on a missing history id.
var ErrNotFound = errors.New("history not found")

// Store implements conversation persistence on PostgreSQL. All document
// payloads live in jsonb columns; only the list-view fields are relational.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Insert creates a record and returns its id.
func (s *Store) Insert(ctx context.Context, title, taskType string, data map[string]any, files []core.GeneratedFile) (int64, error) {
	if data == nil {
		data = map[string]any{}
	}
	if files == nil {
		files = []core.GeneratedFile{}
	}
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO chat_history (title, task_type, created_at, data, files, messages, state)
		VALUES ($1, $2, NOW(), $3, $4, '[]'::jsonb, '{}'::jsonb)
		RETURNING id
	`, title, taskType, data, files).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert history: %w", err)
	}
	return id, nil
}

// AppendMessage adds one chat bubble to the record's message log.
func (s *Store) AppendMessage(ctx context.Context, historyID int64, sender, text string, files []core.GeneratedFile) error {
	if files == nil {
		files = []core.GeneratedFile{}
	}
	msg := Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Files:     files,
		Timestamp: time.Now(),
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE chat_history SET messages = messages || $2::jsonb WHERE id = $1
	`, historyID, []Message{msg})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateState stores the session snapshot so an interrupted conversation
// can be inspected later.
func (s *Store) UpdateState(ctx context.Context, historyID int64, state *core.Session) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE chat_history SET state = $2 WHERE id = $1
	`, historyID, state)
	if err != nil {
		return fmt.Errorf("update state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Finalize stores the completed record payload, output files and title in
// one statement at the end of a flow.
func (s *Store) Finalize(ctx context.Context, historyID int64, title string, data map[string]any, files []core.GeneratedFile) error {
	if data == nil {
		data = map[string]any{}
	}
	if files == nil {
		files = []core.GeneratedFile{}
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE chat_history SET title = $2, data = $3, files = $4, state = '{}'::jsonb WHERE id = $1
	`, historyID, title, data, files)
	if err != nil {
		return fmt.Errorf("finalize history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the newest records first, optionally filtered by a title
// substring.
func (s *Store) List(ctx context.Context, limit int, query string) ([]Summary, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	var (
		rows pgx.Rows
		err  error
	)
	if query != "" {
		rows, err = s.pool.Query(ctx, `
			SELECT id, title, task_type, created_at FROM chat_history
			WHERE title ILIKE '%' || $1 || '%'
			ORDER BY id DESC LIMIT $2
		`, query, limit)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT id, title, task_type, created_at FROM chat_history
			ORDER BY id DESC LIMIT $1
		`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var h Summary
		if err := rows.Scan(&h.ID, &h.Title, &h.TaskType, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetDetail returns the full record.
func (s *Store) GetDetail(ctx context.Context, historyID int64) (*Detail, error) {
	var d Detail
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, task_type, created_at, data, files, messages, state
		FROM chat_history WHERE id = $1
	`, historyID).Scan(&d.ID, &d.Title, &d.TaskType, &d.CreatedAt, &d.Data, &d.Files, &d.Messages, &d.State)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get history %d: %w", historyID, err)
	}
	return &d, nil
}

// Rename updates the record title.
func (s *Store) Rename(ctx context.Context, historyID int64, title string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE chat_history SET title = $2 WHERE id = $1`, historyID, title)
	if err != nil {
		return fmt.Errorf("rename history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, historyID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM chat_history WHERE id = $1`, historyID)
	if err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
