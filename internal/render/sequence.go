package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileSequencer implements core.Sequencer with JSON counter files kept next
// to the generated documents, so numbering survives restarts. Each document
// type numbers differently: invoices restart per day under a ddMM prefix,
// agreements count up from 000, quotations cycle modulo 22.
type FileSequencer struct {
	mu       sync.Mutex
	filesDir string
	now      func() time.Time
}

// NewFileSequencer stores counters under filesDir.
func NewFileSequencer(filesDir string) *FileSequencer {
	return &FileSequencer{filesDir: filesDir, now: time.Now}
}

type invoiceCounterFile struct {
	Counters map[string]int `json:"counters"`
}

type scalarCounterFile struct {
	Counter int `json:"counter"`
}

// NextInvoiceNumber returns ddMM plus a zero-padded per-day sequence:
// "2808001", "2808002", ...
func (s *FileSequencer) NextInvoiceNumber() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := s.now().Format("0201")
	path := filepath.Join(s.filesDir, "invoice_counter.json")

	var file invoiceCounterFile
	if err := readJSON(path, &file); err != nil {
		return "", fmt.Errorf("invoice counter: %w", err)
	}
	if file.Counters == nil {
		file.Counters = make(map[string]int)
	}
	file.Counters[prefix]++
	if err := writeJSON(path, file); err != nil {
		return "", fmt.Errorf("invoice counter: %w", err)
	}
	return fmt.Sprintf("%s%03d", prefix, file.Counters[prefix]), nil
}

// NextMouNumber returns "000", "001", ... across the lifetime of the
// installation.
func (s *FileSequencer) NextMouNumber() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.filesDir, "mou_counter.json")
	file := scalarCounterFile{Counter: -1}
	if err := readJSON(path, &file); err != nil {
		return "", fmt.Errorf("mou counter: %w", err)
	}
	file.Counter++
	if err := writeJSON(path, file); err != nil {
		return "", fmt.Errorf("mou counter: %w", err)
	}
	return fmt.Sprintf("%03d", file.Counter), nil
}

// NextQuotationNumber returns "000".."021" and wraps back to "000".
func (s *FileSequencer) NextQuotationNumber() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.filesDir, "counter.json")
	var file scalarCounterFile
	if err := readJSON(path, &file); err != nil {
		return "", fmt.Errorf("quotation counter: %w", err)
	}
	if file.Counter < 0 || file.Counter > 21 {
		file.Counter = 0
	}
	nomor := fmt.Sprintf("%03d", file.Counter)
	file.Counter = (file.Counter + 1) % 22
	if err := writeJSON(path, file); err != nil {
		return "", fmt.Errorf("quotation counter: %w", err)
	}
	return nomor, nil
}

// readJSON leaves v untouched when the file does not exist yet.
func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
