package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Quotation flow steps.
const (
	StepQuotationNamaPerusahaan    Step = "quo_nama_perusahaan"
	StepQuotationJenisKodeLimbah   Step = "quo_jenis_kode_limbah"
	StepQuotationManualJenis       Step = "quo_manual_jenis_limbah"
	StepQuotationManualSatuan      Step = "quo_manual_satuan"
	StepQuotationHarga             Step = "quo_harga"
	StepQuotationTambahItem        Step = "quo_tambah_item"
	StepQuotationHargaTransportasi Step = "quo_harga_transportasi"
	StepQuotationTanyaMou          Step = "quo_tanya_mou"
	StepQuotationHargaMou          Step = "quo_harga_mou"
	StepQuotationTanyaTermin       Step = "quo_tanya_termin"
)

// QuotationFlow collects the customer, the quoted waste categories with
// prices, the transport and optional agreement fees, and the payment term,
// then renders the quotation letter.
type QuotationFlow struct {
	resolver  AddressResolver
	assembler Assembler
	sequences Sequencer
	now       func() time.Time
	steps     map[Step]quotationStepFn
}

type quotationStepFn func(ctx context.Context, s *Session, text string) (*TurnResult, error)

// NewQuotationFlow wires the quotation state machine.
func NewQuotationFlow(resolver AddressResolver, assembler Assembler, sequences Sequencer) *QuotationFlow {
	f := &QuotationFlow{
		resolver:  resolver,
		assembler: assembler,
		sequences: sequences,
		now:       time.Now,
	}
	f.steps = map[Step]quotationStepFn{
		StepQuotationNamaPerusahaan:    f.namaPerusahaan,
		StepQuotationJenisKodeLimbah:   f.jenisKodeLimbah,
		StepQuotationManualJenis:       f.manualJenisLimbah,
		StepQuotationManualSatuan:      f.manualSatuan,
		StepQuotationHarga:             f.harga,
		StepQuotationTambahItem:        f.tambahItem,
		StepQuotationHargaTransportasi: f.hargaTransportasi,
		StepQuotationTanyaMou:          f.tanyaMou,
		StepQuotationHargaMou:          f.hargaMou,
		StepQuotationTanyaTermin:       f.tanyaTermin,
	}
	return f
}

func (f *QuotationFlow) Type() DocumentType { return DocumentQuotation }

// Matches triggers on the quotation keywords; a bare "buat" also starts a
// quotation unless the message names an MoU.
func (f *QuotationFlow) Matches(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "quotation") || strings.Contains(lower, "penawaran") {
		return true
	}
	return strings.Contains(lower, "buat") && !strings.Contains(lower, "mou")
}

func (f *QuotationFlow) Handle(ctx context.Context, s *Session, text string) (*TurnResult, error) {
	if s.Step == StepIdle {
		return f.start(s)
	}
	fn, ok := f.steps[s.Step]
	if !ok {
		return nil, fmt.Errorf("quotation flow: no handler for step %q", s.Step)
	}
	return fn(ctx, s, text)
}

func (f *QuotationFlow) start(s *Session) (*TurnResult, error) {
	nomor, err := f.sequences.NextQuotationNumber()
	if err != nil {
		return nil, fmt.Errorf("next quotation number: %w", err)
	}
	s.Type = DocumentQuotation
	s.Step = StepQuotationNamaPerusahaan
	s.Quotation = NewQuotationRecord(nomor, f.now())
	return &TurnResult{Text: fmt.Sprintf(
		"Baik, saya akan membantu membuat Surat Penawaran.\n\nNomor surat: %s\n\nPertanyaan 1: Nama perusahaan yang ditawari?",
		s.Quotation.LetterNumber())}, nil
}

func (f *QuotationFlow) namaPerusahaan(ctx context.Context, s *Session, text string) (*TurnResult, error) {
	rec := s.Quotation
	rec.NamaPerusahaan = strings.TrimSpace(text)
	rec.AlamatPerusahaan = addressOrPlaceholder(f.resolver.Resolve(ctx, text))
	s.Step = StepQuotationJenisKodeLimbah
	return &TurnResult{Text: fmt.Sprintf(
		"Perusahaan: %s\nAlamat: %s\n\nPertanyaan 2: Jenis atau kode limbah yang ditawarkan?\nContoh: A102d atau aki baterai bekas. Atau sebut NON B3.",
		rec.NamaPerusahaan, rec.AlamatPerusahaan)}, nil
}

func (f *QuotationFlow) jenisKodeLimbah(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if IsManualCategoryMarker(text) {
		s.Quotation.Current = QuotationItem{KodeLimbah: "NON B3"}
		s.Step = StepQuotationManualJenis
		return &TurnResult{Text: "Pertanyaan 2A: Jenis limbah (manual) apa?"}, nil
	}
	code, entry, ok := LookupWaste(text)
	if !ok {
		return &TurnResult{Text: fmt.Sprintf(
			"Maaf, limbah %s tidak ditemukan.\n\nSilakan sebutkan kode/jenis lain atau sebut NON B3 untuk input manual.",
			strings.TrimSpace(text))}, nil
	}
	rec := s.Quotation
	rec.Current = QuotationItem{KodeLimbah: code, JenisLimbah: entry.Jenis, Satuan: entry.Satuan}
	s.Step = StepQuotationHarga
	return &TurnResult{Text: fmt.Sprintf(
		"Jenis: %s (%s)\nSatuan: %s\n\nPertanyaan 2B: Harga per %s (Rp)?",
		entry.Jenis, code, entry.Satuan, entry.Satuan)}, nil
}

func (f *QuotationFlow) manualJenisLimbah(_ context.Context, s *Session, text string) (*TurnResult, error) {
	s.Quotation.Current.JenisLimbah = strings.TrimSpace(text)
	s.Step = StepQuotationManualSatuan
	return &TurnResult{Text: "Pertanyaan 2A-2: Satuan harganya apa? (contoh: Kg, Ton, Ritase)"}, nil
}

func (f *QuotationFlow) manualSatuan(_ context.Context, s *Session, text string) (*TurnResult, error) {
	s.Quotation.Current.Satuan = strings.TrimSpace(text)
	s.Step = StepQuotationHarga
	return &TurnResult{Text: fmt.Sprintf("Pertanyaan 2B: Harga per %s (Rp)?", s.Quotation.Current.Satuan)}, nil
}

func (f *QuotationFlow) harga(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if !HasNumericSignal(text) {
		return &TurnResult{Text: "Harga tidak dikenali. Mohon sebutkan angka.\n\nPertanyaan 2B: Harga (Rp)?"}, nil
	}
	rec := s.Quotation
	rec.Current.Harga = ParseAmount(text)
	rec.Items = append(rec.Items, rec.Current)
	echo := fmt.Sprintf("Harga: Rp %s / %s", FormatRupiah(rec.Current.Harga), rec.Current.Satuan)
	rec.Current = QuotationItem{}
	s.Step = StepQuotationTambahItem
	return &TurnResult{Text: echo + "\n\nPertanyaan: Tambah jenis limbah lagi? (ya/tidak)"}, nil
}

func (f *QuotationFlow) tambahItem(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if startsWithDigit(text) {
		return &TurnResult{Text: "Mohon jawab dengan ya atau tidak.\n\nPertanyaan: Tambah jenis limbah lagi?"}, nil
	}
	switch ClassifyAnswerAllowSkip(text) {
	case AnswerAffirmative:
		s.Step = StepQuotationJenisKodeLimbah
		return &TurnResult{Text: "Pertanyaan 2: Jenis atau kode limbah berikutnya?"}, nil
	case AnswerNegative:
		s.Step = StepQuotationHargaTransportasi
		return &TurnResult{Text: "Pertanyaan 3: Harga transportasi (Rp)?\nSatuan: ritase. (isi 0 jika tidak ada)"}, nil
	default:
		return &TurnResult{Text: "Mohon jawab dengan ya atau tidak.\n\nPertanyaan: Tambah jenis limbah lagi?"}, nil
	}
}

func (f *QuotationFlow) hargaTransportasi(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if !HasNumericSignal(text) {
		return &TurnResult{Text: "Nominal tidak dikenali.\n\nPertanyaan 3: Harga transportasi (Rp)? (isi 0 jika tidak ada)"}, nil
	}
	s.Quotation.HargaTransportasi = ParseAmount(text)
	s.Step = StepQuotationTanyaMou
	return &TurnResult{Text: "Pertanyaan 4: Apakah ada biaya MoU? (ya/tidak)"}, nil
}

func (f *QuotationFlow) tanyaMou(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if startsWithDigit(text) {
		return &TurnResult{Text: "Mohon jawab dengan ya atau tidak.\n\nPertanyaan 4: Apakah ada biaya MoU?"}, nil
	}
	switch ClassifyAnswerAllowSkip(text) {
	case AnswerAffirmative:
		s.Step = StepQuotationHargaMou
		return &TurnResult{Text: "Pertanyaan 4A: Harga MoU (Rp)?\nSatuan: Tahun."}, nil
	case AnswerNegative:
		s.Quotation.HargaMou = nil
		s.Step = StepQuotationTanyaTermin
		return &TurnResult{Text: promptQuotationTermin}, nil
	default:
		return &TurnResult{Text: "Mohon jawab dengan ya atau tidak.\n\nPertanyaan 4: Apakah ada biaya MoU?"}, nil
	}
}

const promptQuotationTermin = "Pertanyaan 5: Termin pembayaran berapa hari? (default 14; sebut tidak/skip untuk default)"

func (f *QuotationFlow) hargaMou(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if !HasNumericSignal(text) {
		return &TurnResult{Text: "Nominal tidak dikenali.\n\nPertanyaan 4A: Harga MoU (Rp)?"}, nil
	}
	v := ParseAmount(text)
	s.Quotation.HargaMou = &v
	s.Step = StepQuotationTanyaTermin
	return &TurnResult{Text: promptQuotationTermin}, nil
}

// tanyaTermin is the terminal transition: the documents render before the
// session resets, so a render failure leaves the user here.
func (f *QuotationFlow) tanyaTermin(_ context.Context, s *Session, text string) (*TurnResult, error) {
	rec := s.Quotation
	if ClassifyAnswerAllowSkip(text) == AnswerNegative {
		rec.TerminHari = 14
	} else {
		rec.TerminHari = ParseTerminDays(text, 14, 1, 365)
	}

	base := "Quotation"
	if safe := safeFileComponent(rec.NamaPerusahaan); safe != "" {
		base = "Quotation - " + safe
	}
	files, err := f.assembler.RenderQuotation(rec, f.assembler.UniqueBaseName(base))
	if err != nil {
		return nil, fmt.Errorf("render quotation: %w", err)
	}

	title := "Penawaran"
	if name := strings.TrimSpace(rec.NamaPerusahaan); name != "" {
		title = "Penawaran " + name
	}
	text = fmt.Sprintf(
		"Surat Penawaran berhasil dibuat.\n\nNomor surat: %s\nPerusahaan: %s\nJumlah item: %d\nTermin: %d (%s) hari",
		rec.LetterNumber(), rec.NamaPerusahaan, len(rec.Items), rec.TerminHari, Terbilang(rec.TerminHari))

	s.Reset()
	return &TurnResult{Text: text, Files: files, Done: true, Title: title}, nil
}
