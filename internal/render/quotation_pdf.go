package render

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"dokumen-agent/internal/core"
)

// writeQuotationPDF renders the PDF preview of the quotation letter with
// the same content as the docx rendering.
func writeQuotationPDF(rec *core.QuotationRecord, now time.Time, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 40

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr("SURAT PENAWARAN"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, tr("No : "+rec.LetterNumber()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Sukabumi, %d %s %d",
		now.Day(), indonesianMonthNames[now.Month()-1], now.Year())), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	pdf.CellFormat(contentW, 5, tr("Kepada Yth,"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 5, tr(rec.NamaPerusahaan), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentW, 5, tr(rec.AlamatPerusahaan), "", "L", false)
	pdf.Ln(3)

	pdf.CellFormat(contentW, 5, tr("Dengan hormat,"), "", 1, "L", false, 0, "")
	pdf.MultiCell(contentW, 5,
		tr("Bersama surat ini kami sampaikan penawaran harga pengelolaan limbah sebagai berikut :"),
		"", "L", false)
	pdf.Ln(2)

	// Price table. Column widths in mm, matching the docx proportions.
	colW := []float64{12, 78, 28, 28, 24}
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
	writeRow([]string{"No", "Jenis Limbah", "Kode Limbah", "Harga", "Satuan"}, true,
		[]string{"C", "C", "C", "C", "C"})
	for i, it := range rec.Items {
		writeRow([]string{fmt.Sprint(i + 1), it.JenisLimbah, it.KodeLimbah,
			core.FormatRupiah(it.Harga), it.Satuan}, false,
			[]string{"C", "L", "C", "C", "C"})
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colW[0]+colW[1]+colW[2], 6, tr("Biaya Transportasi"), "1", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(colW[3], 6, tr(core.FormatRupiah(rec.HargaTransportasi)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(colW[4], 6, tr("ritase"), "1", 1, "C", false, 0, "")
	if rec.HargaMou != nil {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(colW[0]+colW[1]+colW[2], 6, tr("Biaya MoU"), "1", 0, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(colW[3], 6, tr(core.FormatRupiah(*rec.HargaMou)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[4], 6, tr("Tahun"), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentW, 5, tr(fmt.Sprintf(
		"Termin Pembayaran Paling Lambat %d (%s) Hari setelah dokumen tagihan kami terima.",
		rec.TerminHari, core.Terbilang(rec.TerminHari))), "", "L", false)
	pdf.Ln(2)
	pdf.MultiCell(contentW, 5,
		tr("Demikian penawaran ini kami sampaikan, atas perhatian dan kerjasamanya kami ucapkan terima kasih."),
		"", "L", false)
	pdf.Ln(10)

	pdf.CellFormat(contentW, 5, tr("Hormat kami,"), "", 1, "L", false, 0, "")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 5, tr("PT Sarana Trans Bersama Jaya"), "", 1, "L", false, 0, "")

	return pdf.OutputFileAndClose(path)
}
