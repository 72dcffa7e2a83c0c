package render_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dokumen-agent/internal/core"
	"dokumen-agent/internal/render"
)

func testInvoice() *core.InvoiceRecord {
	rec := core.NewInvoiceRecord("2808001", time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC))
	rec.BillTo = core.Party{Name: "PT Aneka Prima Industri", Address: "Jl. Industri No. 5, Bekasi"}
	rec.ShipTo = rec.BillTo
	rec.Items = []core.LineItem{
		{Quantity: 100, Unit: "Kg", Date: rec.InvoiceDate, Description: "Aki/baterai bekas", UnitPrice: 50000},
	}
	return rec
}

func testQuotation() *core.QuotationRecord {
	rec := core.NewQuotationRecord("012", time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC))
	rec.NamaPerusahaan = "PT Aneka Prima Industri"
	rec.AlamatPerusahaan = "Jl. Industri No. 5, Bekasi"
	rec.Items = []core.QuotationItem{
		{KodeLimbah: "A102d", JenisLimbah: "Aki/baterai bekas", Satuan: "Kg", Harga: 2500},
	}
	rec.HargaTransportasi = 1500000
	return rec
}

func testMou() *core.MouRecord {
	rec := core.NewMouRecord("003")
	rec.PihakPertama = "PT Aneka Prima Industri"
	rec.AlamatPihakPertama = "Jl. Industri No. 5, Bekasi"
	rec.PihakKetiga = "PT Harapan Baru Sejahtera Plastik"
	rec.PihakKetigaKode = "HBSP"
	rec.NomorSurat = rec.LetterNumber(time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC))
	rec.Items = []core.MouItem{{JenisLimbah: "Minyak pelumas bekas", KodeLimbah: "B105d"}}
	rec.TtdPihakPertama = "Budi Santoso"
	rec.JabatanPihakPertama = "Direktur"
	rec.TtdPihakKetiga = "Joko Widodo"
	rec.JabatanPihakKetiga = "General Manager"
	return rec
}

func mustStat(t *testing.T, dir, name string) {
	t.Helper()
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("expected output file %s: %v", name, err)
	}
	if info.Size() == 0 {
		t.Fatalf("output file %s is empty", name)
	}
}

func TestRenderInvoiceWritesWorkbookAndPDF(t *testing.T) {
	dir := t.TempDir()
	a, err := render.NewDocumentAssembler(dir)
	if err != nil {
		t.Fatal(err)
	}

	files, err := a.RenderInvoice(testInvoice(), "Invoice - PT Aneka Prima Industri")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	if files[0].Type != "xlsx" || files[1].Type != "pdf" {
		t.Errorf("types = %q, %q", files[0].Type, files[1].Type)
	}
	for _, f := range files {
		mustStat(t, dir, f.Filename)
		if f.URL != "/download/"+f.Filename {
			t.Errorf("URL = %q", f.URL)
		}
	}
}

func TestRenderMouWritesDocxAndPDF(t *testing.T) {
	dir := t.TempDir()
	a, err := render.NewDocumentAssembler(dir)
	if err != nil {
		t.Fatal(err)
	}

	files, err := a.RenderMou(testMou(), "MoU - PT Aneka Prima Industri")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	if files[0].Type != "docx" || files[1].Type != "pdf" {
		t.Errorf("types = %q, %q", files[0].Type, files[1].Type)
	}
	for _, f := range files {
		mustStat(t, dir, f.Filename)
	}
}

func TestRenderQuotationWritesDocxAndPDF(t *testing.T) {
	dir := t.TempDir()
	a, err := render.NewDocumentAssembler(dir)
	if err != nil {
		t.Fatal(err)
	}

	rec := testQuotation()
	mou := int64(5000000)
	rec.HargaMou = &mou

	files, err := a.RenderQuotation(rec, "Quotation - PT Aneka Prima Industri")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	for _, f := range files {
		mustStat(t, dir, f.Filename)
	}
}

func TestUniqueBaseNameSuffixesOnCollision(t *testing.T) {
	dir := t.TempDir()
	a, err := render.NewDocumentAssembler(dir)
	if err != nil {
		t.Fatal(err)
	}

	if got := a.UniqueBaseName("Invoice - PT Uji"); got != "Invoice - PT Uji" {
		t.Fatalf("fresh base = %q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "Invoice - PT Uji.xlsx"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := a.UniqueBaseName("Invoice - PT Uji"); got != "Invoice - PT Uji (2)" {
		t.Errorf("first collision = %q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "Invoice - PT Uji (2).pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := a.UniqueBaseName("Invoice - PT Uji"); got != "Invoice - PT Uji (3)" {
		t.Errorf("second collision = %q", got)
	}

	if got := a.UniqueBaseName("  "); got != "Dokumen" {
		t.Errorf("blank base = %q", got)
	}
}

func TestFileSequencerInvoiceNumbers(t *testing.T) {
	s := render.NewFileSequencer(t.TempDir())

	first, err := s.NextInvoiceNumber()
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.NextInvoiceNumber()
	if err != nil {
		t.Fatal(err)
	}

	prefix := time.Now().Format("0201")
	if first != prefix+"001" {
		t.Errorf("first = %q, want %s001", first, prefix)
	}
	if second != prefix+"002" {
		t.Errorf("second = %q, want %s002", second, prefix)
	}
}

func TestFileSequencerMouStartsAtZero(t *testing.T) {
	s := render.NewFileSequencer(t.TempDir())
	for i, want := range []string{"000", "001", "002"} {
		got, err := s.NextMouNumber()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("call %d = %q, want %q", i, got, want)
		}
	}
}

func TestFileSequencerQuotationWrapsAt22(t *testing.T) {
	s := render.NewFileSequencer(t.TempDir())
	var last string
	for i := 0; i < 23; i++ {
		n, err := s.NextQuotationNumber()
		if err != nil {
			t.Fatal(err)
		}
		last = n
		if i == 0 && n != "000" {
			t.Fatalf("first = %q, want 000", n)
		}
		if i == 21 && n != "021" {
			t.Fatalf("22nd = %q, want 021", n)
		}
	}
	if last != "000" {
		t.Errorf("after wrap = %q, want 000", last)
	}
}
