package render

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"dokumen-agent/internal/core"
)

// writeMouPDF renders the PDF preview of the cooperation agreement with the
// same content as the docx rendering.
func writeMouPDF(rec *core.MouRecord, now time.Time, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 40

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr("PERJANJIAN KERJASAMA"), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 6, tr("PENGELOLAAN LIMBAH B3 DAN NON B3"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, tr("No : "+rec.NomorSurat), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentW, 5, tr(fmt.Sprintf(
		"Pada hari ini %s kami yang bertanda tangan di bawah ini :",
		core.FormatTanggalIndonesia(now))), "", "L", false)
	pdf.Ln(2)

	parties := []struct {
		label, name, detail string
	}{
		{"PIHAK PERTAMA", rec.PihakPertama, rec.AlamatPihakPertama},
		{"PIHAK KEDUA", rec.PihakKedua, ""},
		{"PIHAK KETIGA", rec.PihakKetiga, rec.AlamatPihakKetiga},
	}
	for i, p := range parties {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(contentW, 5, tr(fmt.Sprintf("%d. %s, selanjutnya disebut %s",
			i+1, p.name, p.label)), "", "L", false)
		if p.detail != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(contentW, 5, tr("    Alamat : "+p.detail), "", "L", false)
		}
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentW, 5, tr("PIHAK PERTAMA menyerahkan pengelolaan limbah kepada "+
		"PIHAK KEDUA selaku transporter berizin untuk diangkut dan diserahkan kepada "+
		"PIHAK KETIGA selaku pengelola akhir, dengan jenis limbah sebagai berikut :"),
		"", "L", false)
	pdf.Ln(2)

	// Waste table. Column widths in mm, matching the docx proportions.
	colW := []float64{15, 110, 45}
	writeRow := func(cells []string, bold bool, aligns []string) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		for i, c := range cells {
			pdf.CellFormat(colW[i], 6, tr(c), "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
	writeRow([]string{"No", "Jenis Limbah", "Kode Limbah"}, true, []string{"C", "C", "C"})
	for i, it := range rec.Items {
		writeRow([]string{fmt.Sprint(i + 1), it.JenisLimbah, it.KodeLimbah},
			false, []string{"C", "L", "C"})
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentW, 5, tr("Demikian perjanjian ini dibuat dengan sebenarnya "+
		"untuk dipergunakan sebagaimana mestinya."), "", "L", false)
	pdf.Ln(10)

	sign := func(label, name, title, align string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 5, tr(label), "", 1, align, false, 0, "")
		pdf.Ln(12)
		pdf.SetFont("Helvetica", "BU", 10)
		pdf.CellFormat(contentW, 5, tr(name), "", 1, align, false, 0, "")
		if title != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.CellFormat(contentW, 5, tr(title), "", 1, align, false, 0, "")
		}
		pdf.Ln(4)
	}
	sign("PIHAK PERTAMA,", rec.TtdPihakPertama, rec.JabatanPihakPertama, "L")
	sign("PIHAK KEDUA,", rec.PihakKedua, "", "L")
	sign("PIHAK KETIGA,", rec.TtdPihakKetiga, rec.JabatanPihakKetiga, "C")

	return pdf.OutputFileAndClose(path)
}
