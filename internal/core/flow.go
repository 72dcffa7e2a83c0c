package core

import (
	"context"
	"regexp"
	"strings"
)

// DocumentType tags which conversational flow owns a session.
type DocumentType string

const (
	DocumentNone      DocumentType = ""
	DocumentInvoice   DocumentType = "invoice"
	DocumentMoU       DocumentType = "mou"
	DocumentQuotation DocumentType = "penawaran"
)

// Step identifies one state of a flow's state machine. Step values are
// namespaced per flow so a session can never be dispatched to the wrong
// handler table.
type Step string

// StepIdle is the shared initial state. A session at StepIdle carries no
// record; the first message that matches a flow trigger leaves it.
const StepIdle Step = "idle"

// GeneratedFile references one rendered output document.
type GeneratedFile struct {
	Type     string `json:"type"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// TurnResult is what a flow hands back for a single inbound message.
// Done is true only for the terminal transition, in which case Files holds
// the rendered outputs and Title the final conversation title.
type TurnResult struct {
	Text  string
	Files []GeneratedFile
	Done  bool
	Title string
}

// Session is the per-conversation state owned by the SessionStore. Exactly
// one of the record pointers is non-nil while Type is set.
type Session struct {
	ID        string           `json:"session_id"`
	Type      DocumentType     `json:"document_type"`
	Step      Step             `json:"step"`
	HistoryID int64            `json:"history_id,omitempty"`
	Invoice   *InvoiceRecord   `json:"invoice,omitempty"`
	Mou       *MouRecord       `json:"mou,omitempty"`
	Quotation *QuotationRecord `json:"quotation,omitempty"`
}

// Reset returns the session to the idle state and drops any record.
func (s *Session) Reset() {
	s.Type = DocumentNone
	s.Step = StepIdle
	s.HistoryID = 0
	s.Invoice = nil
	s.Mou = nil
	s.Quotation = nil
}

// Active reports whether a flow is mid-conversation.
func (s *Session) Active() bool {
	return s.Step != StepIdle && s.Type != DocumentNone
}

// Flow is one document type's state machine. Matches decides whether an
// idle session's message starts this flow; Handle runs one transition.
type Flow interface {
	Type() DocumentType
	Matches(text string) bool
	Handle(ctx context.Context, s *Session, text string) (*TurnResult, error)
}

// AddressResolver turns a company name into a mailing address. It returns
// "" when nothing trustworthy was found; callers substitute a placeholder.
type AddressResolver interface {
	Resolve(ctx context.Context, companyName string) string
}

// Assembler renders completed records into output files. UniqueBaseName
// must be applied before rendering so an existing document is never
// overwritten.
type Assembler interface {
	UniqueBaseName(base string) string
	RenderInvoice(rec *InvoiceRecord, base string) ([]GeneratedFile, error)
	RenderMou(rec *MouRecord, base string) ([]GeneratedFile, error)
	RenderQuotation(rec *QuotationRecord, base string) ([]GeneratedFile, error)
}

// Sequencer hands out document numbers.
type Sequencer interface {
	NextInvoiceNumber() (string, error)
	NextMouNumber() (string, error)
	NextQuotationNumber() (string, error)
}

// Answer is the closed classification of a yes/no reply. Token-based
// matching avoids substring false positives ("saya" is not "ya").
type Answer int

const (
	AnswerUnrecognized Answer = iota
	AnswerAffirmative
	AnswerNegative
)

var (
	affirmativeWords = map[string]bool{
		"ya": true, "iya": true, "yes": true, "ok": true, "oke": true, "betul": true,
	}
	negativeWords = map[string]bool{
		"tidak": true, "gak": true, "ga": true, "nggak": true, "enggak": true, "engga": true, "no": true,
	}
	skipWords = map[string]bool{
		"skip": true, "lewat": true,
	}
	wordSplitRe = regexp.MustCompile(`[a-z0-9]+`)
)

// ClassifyAnswer maps free text onto the Answer enum.
func ClassifyAnswer(text string) Answer {
	return classify(text, false)
}

// ClassifyAnswerAllowSkip additionally treats "skip"/"lewat" as negative.
// Flows use it on questions where declining moves the conversation on.
func ClassifyAnswerAllowSkip(text string) Answer {
	return classify(text, true)
}

func classify(text string, allowSkip bool) Answer {
	for _, tok := range wordSplitRe.FindAllString(strings.ToLower(text), -1) {
		switch {
		case affirmativeWords[tok]:
			return AnswerAffirmative
		case negativeWords[tok]:
			return AnswerNegative
		case allowSkip && skipWords[tok]:
			return AnswerNegative
		}
	}
	return AnswerUnrecognized
}

var cancelWords = map[string]bool{
	"batal": true, "cancel": true, "reset": true, "ulang": true, "keluar": true,
}

// IsCancelCommand recognizes the explicit abort keywords. "start over" is
// the one multi-word form.
func IsCancelCommand(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "start over" {
		return true
	}
	return cancelWords[t]
}

var stripWordRe = regexp.MustCompile(`(?i)(^|\s)strip(\s|$)`)

// NormalizeDash maps the spoken word "strip" to a literal "-", so optional
// fields can be skipped by voice input.
func NormalizeDash(text string) string {
	t := strings.TrimSpace(text)
	if strings.EqualFold(t, "strip") || stripWordRe.MatchString(strings.ToLower(t)) {
		return "-"
	}
	return text
}

// optionalField returns "" for the skip markers and the trimmed input
// otherwise.
func optionalField(text string) string {
	t := strings.TrimSpace(text)
	if t == "-" || t == "" {
		return ""
	}
	return t
}

var digitsFirstRe = regexp.MustCompile(`^\d`)

// startsWithDigit guards confirmation steps against numeric input that was
// probably meant for the previous question.
func startsWithDigit(text string) bool {
	return digitsFirstRe.MatchString(strings.TrimSpace(text))
}

var fileNameSafeRe = regexp.MustCompile(`[^A-Za-z0-9 \-]+`)
var multiSpaceRe = regexp.MustCompile(`\s+`)

// safeFileComponent strips characters that are unsafe in a filename and
// collapses whitespace.
func safeFileComponent(name string) string {
	s := fileNameSafeRe.ReplaceAllString(name, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
