package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Invoice flow steps.
const (
	StepInvoiceBillToName  Step = "inv_billto_name"
	StepInvoiceShipToSame  Step = "inv_shipto_same"
	StepInvoiceShipToName  Step = "inv_shipto_name"
	StepInvoicePhone       Step = "inv_phone"
	StepInvoiceFax         Step = "inv_fax"
	StepInvoiceAttn        Step = "inv_attn"
	StepInvoiceItemQty     Step = "inv_item_qty"
	StepInvoiceItemDesc    Step = "inv_item_desc"
	StepInvoiceItemManual  Step = "inv_item_desc_manual"
	StepInvoiceItemPrice   Step = "inv_item_price"
	StepInvoiceAddMoreItem Step = "inv_add_more_item"
	StepInvoiceFreight     Step = "inv_freight"
	StepInvoiceDeposit     Step = "inv_deposit"
)

// InvoiceFlow collects the billing parties, contact fields, line items and
// charges, then renders the invoice workbook and its PDF preview.
type InvoiceFlow struct {
	resolver  AddressResolver
	assembler Assembler
	sequences Sequencer
	now       func() time.Time
	steps     map[Step]invoiceStepFn
}

type invoiceStepFn func(ctx context.Context, s *Session, text string) (*TurnResult, error)

// NewInvoiceFlow wires the invoice state machine.
func NewInvoiceFlow(resolver AddressResolver, assembler Assembler, sequences Sequencer) *InvoiceFlow {
	f := &InvoiceFlow{
		resolver:  resolver,
		assembler: assembler,
		sequences: sequences,
		now:       time.Now,
	}
	f.steps = map[Step]invoiceStepFn{
		StepInvoiceBillToName:  f.billToName,
		StepInvoiceShipToSame:  f.shipToSame,
		StepInvoiceShipToName:  f.shipToName,
		StepInvoicePhone:       f.phone,
		StepInvoiceFax:         f.fax,
		StepInvoiceAttn:        f.attn,
		StepInvoiceItemQty:     f.itemQty,
		StepInvoiceItemDesc:    f.itemDescription,
		StepInvoiceItemManual:  f.itemDescriptionManual,
		StepInvoiceItemPrice:   f.itemPrice,
		StepInvoiceAddMoreItem: f.addMoreItem,
		StepInvoiceFreight:     f.freight,
		StepInvoiceDeposit:     f.deposit,
	}
	return f
}

func (f *InvoiceFlow) Type() DocumentType { return DocumentInvoice }

// Matches triggers on the document-type keywords in an idle session.
func (f *InvoiceFlow) Matches(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "invoice") || strings.Contains(lower, "faktur")
}

// Handle runs one transition: start on an idle session, otherwise dispatch
// on the current step.
func (f *InvoiceFlow) Handle(ctx context.Context, s *Session, text string) (*TurnResult, error) {
	if s.Step == StepIdle {
		return f.start(s)
	}
	fn, ok := f.steps[s.Step]
	if !ok {
		return nil, fmt.Errorf("invoice flow: no handler for step %q", s.Step)
	}
	return fn(ctx, s, text)
}

func (f *InvoiceFlow) start(s *Session) (*TurnResult, error) {
	invoiceNo, err := f.sequences.NextInvoiceNumber()
	if err != nil {
		return nil, fmt.Errorf("next invoice number: %w", err)
	}
	s.Type = DocumentInvoice
	s.Step = StepInvoiceBillToName
	s.Invoice = NewInvoiceRecord(invoiceNo, f.now())
	return &TurnResult{Text: fmt.Sprintf(
		"Baik, saya akan membantu membuat Invoice.\n\nNomor invoice: %s\nTanggal: %s\n\nPertanyaan 1: Nama perusahaan untuk Bill To?",
		invoiceNo, s.Invoice.InvoiceDate)}, nil
}

func (f *InvoiceFlow) billToName(ctx context.Context, s *Session, text string) (*TurnResult, error) {
	rec := s.Invoice
	rec.BillTo.Name = strings.TrimSpace(text)
	rec.BillTo.Address = addressOrPlaceholder(f.resolver.Resolve(ctx, text))
	s.Step = StepInvoiceShipToSame
	return &TurnResult{Text: fmt.Sprintf(
		"Bill To: %s\nAlamat: %s\n\nPertanyaan 2: Apakah Ship To sama dengan Bill To? (ya/tidak)",
		rec.BillTo.Name, rec.BillTo.Address)}, nil
}

func (f *InvoiceFlow) shipToSame(_ context.Context, s *Session, text string) (*TurnResult, error) {
	switch ClassifyAnswer(text) {
	case AnswerAffirmative:
		s.Invoice.ShipTo = s.Invoice.BillTo
		s.Step = StepInvoicePhone
		return &TurnResult{Text: promptInvoicePhone}, nil
	case AnswerNegative:
		s.Step = StepInvoiceShipToName
		return &TurnResult{Text: "Pertanyaan 2A: Nama perusahaan untuk Ship To?"}, nil
	default:
		return &TurnResult{Text: "Mohon jawab dengan ya atau tidak.\n\nPertanyaan 2: Apakah Ship To sama dengan Bill To?"}, nil
	}
}

const promptInvoicePhone = "Pertanyaan 3: Nomor telepon? (boleh kosong; sebut strip jika tidak ada)"

func (f *InvoiceFlow) shipToName(ctx context.Context, s *Session, text string) (*TurnResult, error) {
	rec := s.Invoice
	rec.ShipTo.Name = strings.TrimSpace(text)
	rec.ShipTo.Address = addressOrPlaceholder(f.resolver.Resolve(ctx, text))
	s.Step = StepInvoicePhone
	return &TurnResult{Text: promptInvoicePhone}, nil
}

func (f *InvoiceFlow) phone(_ context.Context, s *Session, text string) (*TurnResult, error) {
	s.Invoice.Phone = optionalField(NormalizeDash(text))
	s.Step = StepInvoiceFax
	return &TurnResult{Text: "Pertanyaan 4: Fax? (boleh kosong; sebut strip jika tidak ada)"}, nil
}

func (f *InvoiceFlow) fax(_ context.Context, s *Session, text string) (*TurnResult, error) {
	s.Invoice.Fax = optionalField(NormalizeDash(text))
	s.Step = StepInvoiceAttn
	return &TurnResult{Text: "Pertanyaan 5: Attn? (default: Accounting / Finance; sebut strip untuk default)"}, nil
}

func (f *InvoiceFlow) attn(_ context.Context, s *Session, text string) (*TurnResult, error) {
	// "-" keeps the default contact, unlike phone/fax where it clears.
	if v := optionalField(NormalizeDash(text)); v != "" {
		s.Invoice.Attn = v
	}
	s.Invoice.Current = LineItem{}
	s.Step = StepInvoiceItemQty
	return &TurnResult{Text: "Item 1\nPertanyaan 6: Qty? (contoh: 749 atau 2,5 atau 'dua koma lima')"}, nil
}

func (f *InvoiceFlow) itemQty(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if !HasNumericSignal(text) {
		return &TurnResult{Text: "Qty tidak dikenali. Mohon sebutkan angka.\n\nPertanyaan 6: Qty? (contoh: 749 atau 2,5)"}, nil
	}
	rec := s.Invoice
	rec.Current.Quantity = ParseQuantity(text)
	rec.Current.Unit = "Kg"
	rec.Current.Date = rec.InvoiceDate
	s.Step = StepInvoiceItemDesc
	return &TurnResult{Text: "Pertanyaan 6B: Jenis limbah atau kode limbah?\nContoh: A102d atau aki baterai bekas. Atau sebut NON B3."}, nil
}

func (f *InvoiceFlow) itemDescription(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if IsManualCategoryMarker(text) {
		s.Invoice.Current.Description = ""
		s.Step = StepInvoiceItemManual
		return &TurnResult{Text: "Pertanyaan 6C: Deskripsi (manual) apa?"}, nil
	}
	if _, entry, ok := LookupWaste(text); ok {
		s.Invoice.Current.Description = entry.Jenis
		s.Step = StepInvoiceItemPrice
		return &TurnResult{Text: fmt.Sprintf("Deskripsi: %s\n\nPertanyaan 6D: Harga (Rp)?", entry.Jenis)}, nil
	}
	return &TurnResult{Text: fmt.Sprintf(
		"Maaf, limbah %s tidak ditemukan.\n\nSilakan sebutkan kode/jenis lain atau sebut NON B3 untuk input manual.",
		strings.TrimSpace(text))}, nil
}

func (f *InvoiceFlow) itemDescriptionManual(_ context.Context, s *Session, text string) (*TurnResult, error) {
	s.Invoice.Current.Description = strings.TrimSpace(text)
	s.Step = StepInvoiceItemPrice
	return &TurnResult{Text: "Pertanyaan 6D: Harga (Rp)?"}, nil
}

func (f *InvoiceFlow) itemPrice(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if !HasNumericSignal(text) {
		return &TurnResult{Text: "Harga tidak dikenali. Mohon sebutkan angka.\n\nPertanyaan 6D: Harga (Rp)?"}, nil
	}
	rec := s.Invoice
	rec.Current.UnitPrice = ParseAmount(text)
	rec.Items = append(rec.Items, rec.Current)
	rec.Current = LineItem{}
	s.Step = StepInvoiceAddMoreItem
	return &TurnResult{Text: "Pertanyaan: Tambah item lagi? (ya/tidak)"}, nil
}

func (f *InvoiceFlow) addMoreItem(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if startsWithDigit(text) {
		return &TurnResult{Text: "Mohon jawab dengan ya atau tidak.\n\nPertanyaan: Tambah item lagi?"}, nil
	}
	switch ClassifyAnswerAllowSkip(text) {
	case AnswerAffirmative:
		s.Invoice.Current = LineItem{}
		s.Step = StepInvoiceItemQty
		return &TurnResult{Text: fmt.Sprintf("Item %d\nPertanyaan 6: Qty?", len(s.Invoice.Items)+1)}, nil
	case AnswerNegative:
		s.Step = StepInvoiceFreight
		return &TurnResult{Text: "Pertanyaan 7: Biaya transportasi/Freight (Rp)? (isi 0 jika tidak ada)"}, nil
	default:
		return &TurnResult{Text: "Mohon jawab dengan ya atau tidak.\n\nPertanyaan: Tambah item lagi?"}, nil
	}
}

func (f *InvoiceFlow) freight(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if !HasNumericSignal(text) {
		return &TurnResult{Text: "Nominal tidak dikenali.\n\nPertanyaan 7: Biaya transportasi/Freight (Rp)? (isi 0 jika tidak ada)"}, nil
	}
	s.Invoice.Freight = ParseAmount(text)
	s.Step = StepInvoiceDeposit
	return &TurnResult{Text: "Pertanyaan 8: Deposit (Rp)? (isi 0 jika tidak ada)"}, nil
}

// deposit is the terminal transition: it renders the documents before the
// session resets, so a render failure leaves the user on this step.
func (f *InvoiceFlow) deposit(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if !HasNumericSignal(text) {
		return &TurnResult{Text: "Nominal tidak dikenali.\n\nPertanyaan 8: Deposit (Rp)? (isi 0 jika tidak ada)"}, nil
	}
	rec := s.Invoice
	rec.Deposit = ParseAmount(text)

	base := "Invoice"
	if safe := safeFileComponent(rec.BillTo.Name); safe != "" {
		base = "Invoice - " + safe
	}
	files, err := f.assembler.RenderInvoice(rec, f.assembler.UniqueBaseName(base))
	if err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}

	title := "Invoice"
	if name := strings.TrimSpace(rec.BillTo.Name); name != "" {
		title = "Invoice " + name
	}
	text = fmt.Sprintf(
		"Invoice berhasil dibuat.\n\nNomor invoice: %s\nBill To: %s\nJumlah item: %d\n\nDokumen tersedia dalam format PDF (preview) dan Excel (.xlsx).",
		rec.InvoiceNo, rec.BillTo.Name, len(rec.Items))

	s.Reset()
	return &TurnResult{Text: text, Files: files, Done: true, Title: title}, nil
}
