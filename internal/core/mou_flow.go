package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cooperation-agreement flow steps.
const (
	StepMouPihakPertama       Step = "mou_pihak_pertama"
	StepMouPilihPihakKetiga   Step = "mou_pilih_pihak_ketiga"
	StepMouJenisKodeLimbah    Step = "mou_jenis_kode_limbah"
	StepMouManualJenisLimbah  Step = "mou_manual_jenis_limbah"
	StepMouTambahItem         Step = "mou_tambah_item"
	StepMouTtdPihakPertama    Step = "mou_ttd_pihak_pertama"
	StepMouJabatanPertama     Step = "mou_jabatan_pihak_pertama"
	StepMouTtdPihakKetiga     Step = "mou_ttd_pihak_ketiga"
	StepMouJabatanPihakKetiga Step = "mou_jabatan_pihak_ketiga"
)

// thirdParty is one of the fixed treatment partners selectable by number or
// code. Only HBSP carries a known full name and address.
type thirdParty struct {
	Kode   string
	Nama   string
	Alamat string
}

var mouThirdParties = []thirdParty{
	{
		Kode:   "HBSP",
		Nama:   "PT Harapan Baru Sejahtera Plastik",
		Alamat: "Jl. Karawang – Bekasi KM. 1 Bojongsari, Kec. Kedungwaringin, Kab. Bekasi – Jawa Barat",
	},
	{Kode: "KJL", Nama: "KJL"},
	{Kode: "MBI", Nama: "MBI"},
	{Kode: "CGA", Nama: "CGA"},
}

// MouFlow collects the agreement parties, covered waste categories and
// signatories, then renders the cooperation-agreement document.
type MouFlow struct {
	resolver  AddressResolver
	assembler Assembler
	sequences Sequencer
	now       func() time.Time
	steps     map[Step]mouStepFn
}

type mouStepFn func(ctx context.Context, s *Session, text string) (*TurnResult, error)

// NewMouFlow wires the agreement state machine.
func NewMouFlow(resolver AddressResolver, assembler Assembler, sequences Sequencer) *MouFlow {
	f := &MouFlow{
		resolver:  resolver,
		assembler: assembler,
		sequences: sequences,
		now:       time.Now,
	}
	f.steps = map[Step]mouStepFn{
		StepMouPihakPertama:       f.pihakPertama,
		StepMouPilihPihakKetiga:   f.pilihPihakKetiga,
		StepMouJenisKodeLimbah:    f.jenisKodeLimbah,
		StepMouManualJenisLimbah:  f.manualJenisLimbah,
		StepMouTambahItem:         f.tambahItem,
		StepMouTtdPihakPertama:    f.ttdPihakPertama,
		StepMouJabatanPertama:     f.jabatanPihakPertama,
		StepMouTtdPihakKetiga:     f.ttdPihakKetiga,
		StepMouJabatanPihakKetiga: f.jabatanPihakKetiga,
	}
	return f
}

func (f *MouFlow) Type() DocumentType { return DocumentMoU }

func (f *MouFlow) Matches(text string) bool {
	return strings.Contains(strings.ToLower(text), "mou")
}

func (f *MouFlow) Handle(ctx context.Context, s *Session, text string) (*TurnResult, error) {
	if s.Step == StepIdle {
		return f.start(s)
	}
	fn, ok := f.steps[s.Step]
	if !ok {
		return nil, fmt.Errorf("mou flow: no handler for step %q", s.Step)
	}
	return fn(ctx, s, text)
}

func (f *MouFlow) start(s *Session) (*TurnResult, error) {
	nomor, err := f.sequences.NextMouNumber()
	if err != nil {
		return nil, fmt.Errorf("next mou number: %w", err)
	}
	s.Type = DocumentMoU
	s.Step = StepMouPihakPertama
	s.Mou = NewMouRecord(nomor)
	return &TurnResult{Text: fmt.Sprintf(
		"Baik, saya akan membantu membuat MoU (Perjanjian Kerjasama).\n\nNomor urut: %s\n\nPertanyaan 1: Nama perusahaan Pihak Pertama (penghasil limbah)?",
		nomor)}, nil
}

func (f *MouFlow) pihakPertama(ctx context.Context, s *Session, text string) (*TurnResult, error) {
	rec := s.Mou
	rec.PihakPertama = strings.TrimSpace(text)
	rec.AlamatPihakPertama = addressOrPlaceholder(f.resolver.Resolve(ctx, text))
	s.Step = StepMouPilihPihakKetiga
	return &TurnResult{Text: fmt.Sprintf(
		"Pihak Pertama: %s\nAlamat: %s\n\nPertanyaan 2: Pilih Pihak Ketiga (pengelola akhir):\n1. HBSP (PT Harapan Baru Sejahtera Plastik)\n2. KJL\n3. MBI\n4. CGA\n\nSebutkan nomor atau kodenya.",
		rec.PihakPertama, rec.AlamatPihakPertama)}, nil
}

func pickThirdParty(text string) (thirdParty, bool) {
	t := strings.ToUpper(strings.TrimSpace(text))
	switch t {
	case "1", "2", "3", "4":
		return mouThirdParties[t[0]-'1'], true
	}
	for _, p := range mouThirdParties {
		if t == p.Kode {
			return p, true
		}
	}
	return thirdParty{}, false
}

func (f *MouFlow) pilihPihakKetiga(_ context.Context, s *Session, text string) (*TurnResult, error) {
	p, ok := pickThirdParty(text)
	if !ok {
		return &TurnResult{Text: "Input tidak valid. Pilih 1-4 atau sebutkan kode (HBSP/KJL/MBI/CGA)."}, nil
	}
	rec := s.Mou
	rec.PihakKetiga = p.Nama
	rec.PihakKetigaKode = p.Kode
	rec.AlamatPihakKetiga = p.Alamat
	rec.NomorSurat = rec.LetterNumber(f.now())
	s.Step = StepMouJenisKodeLimbah
	return &TurnResult{Text: fmt.Sprintf(
		"Pihak Ketiga: %s\nNomor surat: %s\n\nPertanyaan 3: Jenis atau kode limbah yang dikerjasamakan?\nContoh: A102d atau aki baterai bekas. Atau sebut NON B3.",
		p.Nama, rec.NomorSurat)}, nil
}

func (f *MouFlow) jenisKodeLimbah(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if IsManualCategoryMarker(text) {
		s.Step = StepMouManualJenisLimbah
		return &TurnResult{Text: "Pertanyaan 3A: Jenis limbah (manual) apa?"}, nil
	}
	code, entry, ok := LookupWaste(text)
	if !ok {
		return &TurnResult{Text: fmt.Sprintf(
			"Maaf, limbah %s tidak ditemukan.\n\nSilakan sebutkan kode/jenis lain atau sebut NON B3 untuk input manual.",
			strings.TrimSpace(text))}, nil
	}
	rec := s.Mou
	rec.Items = append(rec.Items, MouItem{JenisLimbah: entry.Jenis, KodeLimbah: code})
	s.Step = StepMouTambahItem
	return &TurnResult{Text: fmt.Sprintf(
		"Item %d: %s (%s)\n\nPertanyaan: Tambah jenis limbah lagi? (ya/tidak)",
		len(rec.Items), entry.Jenis, code)}, nil
}

func (f *MouFlow) manualJenisLimbah(_ context.Context, s *Session, text string) (*TurnResult, error) {
	rec := s.Mou
	rec.Items = append(rec.Items, MouItem{JenisLimbah: strings.TrimSpace(text), KodeLimbah: "NON B3"})
	s.Step = StepMouTambahItem
	return &TurnResult{Text: fmt.Sprintf(
		"Item %d: %s (NON B3)\n\nPertanyaan: Tambah jenis limbah lagi? (ya/tidak)",
		len(rec.Items), strings.TrimSpace(text))}, nil
}

func (f *MouFlow) tambahItem(_ context.Context, s *Session, text string) (*TurnResult, error) {
	if startsWithDigit(text) {
		return &TurnResult{Text: "Mohon jawab dengan ya atau tidak.\n\nPertanyaan: Tambah jenis limbah lagi?"}, nil
	}
	switch ClassifyAnswerAllowSkip(text) {
	case AnswerAffirmative:
		s.Step = StepMouJenisKodeLimbah
		return &TurnResult{Text: "Pertanyaan 3: Jenis atau kode limbah berikutnya?"}, nil
	case AnswerNegative:
		s.Step = StepMouTtdPihakPertama
		return &TurnResult{Text: "Pertanyaan 4: Nama penandatangan Pihak Pertama?"}, nil
	default:
		return &TurnResult{Text: "Mohon jawab dengan ya atau tidak.\n\nPertanyaan: Tambah jenis limbah lagi?"}, nil
	}
}

func (f *MouFlow) ttdPihakPertama(_ context.Context, s *Session, text string) (*TurnResult, error) {
	s.Mou.TtdPihakPertama = strings.TrimSpace(text)
	s.Step = StepMouJabatanPertama
	return &TurnResult{Text: "Pertanyaan 5: Jabatan penandatangan Pihak Pertama?"}, nil
}

func (f *MouFlow) jabatanPihakPertama(_ context.Context, s *Session, text string) (*TurnResult, error) {
	s.Mou.JabatanPihakPertama = strings.TrimSpace(text)
	s.Step = StepMouTtdPihakKetiga
	return &TurnResult{Text: "Pertanyaan 6: Nama penandatangan Pihak Ketiga?"}, nil
}

func (f *MouFlow) ttdPihakKetiga(_ context.Context, s *Session, text string) (*TurnResult, error) {
	s.Mou.TtdPihakKetiga = strings.TrimSpace(text)
	s.Step = StepMouJabatanPihakKetiga
	return &TurnResult{Text: "Pertanyaan 7: Jabatan penandatangan Pihak Ketiga?"}, nil
}

// jabatanPihakKetiga is the terminal transition: the document renders
// before the session resets, so a render failure leaves the user here.
func (f *MouFlow) jabatanPihakKetiga(_ context.Context, s *Session, text string) (*TurnResult, error) {
	rec := s.Mou
	rec.JabatanPihakKetiga = strings.TrimSpace(text)

	base := "MoU"
	if safe := safeFileComponent(rec.PihakPertama); safe != "" {
		base = "MoU - " + safe
	}
	files, err := f.assembler.RenderMou(rec, f.assembler.UniqueBaseName(base))
	if err != nil {
		return nil, fmt.Errorf("render mou: %w", err)
	}

	title := "MoU"
	if name := strings.TrimSpace(rec.PihakPertama); name != "" {
		title = "MoU " + name
	}
	text = fmt.Sprintf(
		"MoU berhasil dibuat.\n\nNomor surat: %s\nPihak Pertama: %s\nPihak Ketiga: %s\nJumlah jenis limbah: %d",
		rec.NomorSurat, rec.PihakPertama, rec.PihakKetiga, len(rec.Items))

	s.Reset()
	return &TurnResult{Text: text, Files: files, Done: true, Title: title}, nil
}
