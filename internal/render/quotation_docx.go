package render

import (
	"fmt"
	"strconv"
	"time"

	"dokumen-agent/internal/core"
)

var indonesianMonthNames = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember"}

// quotationRows builds the price-table rows shared by the docx and pdf
// renderings: one row per waste category, a transport row and an optional
// agreement-fee row.
func quotationRows(rec *core.QuotationRecord) [][]docxCell {
	rows := [][]docxCell{{
		{text: "No", align: "center", bold: true, width: 850},
		{text: "Jenis Limbah", align: "center", bold: true, width: 4536},
		{text: "Kode Limbah", align: "center", bold: true, width: 1701},
		{text: "Harga", align: "center", bold: true, width: 1701},
		{text: "Satuan", align: "center", bold: true, width: 1134},
	}}
	for i, it := range rec.Items {
		rows = append(rows, []docxCell{
			{text: strconv.Itoa(i + 1), align: "center", width: 850},
			{text: it.JenisLimbah, width: 4536},
			{text: it.KodeLimbah, align: "center", width: 1701},
			{text: core.FormatRupiah(it.Harga), align: "center", width: 1701},
			{text: it.Satuan, align: "center", width: 1134},
		})
	}
	rows = append(rows, []docxCell{
		{text: "Biaya Transportasi", align: "center", bold: true, width: 7087, span: 3},
		{text: core.FormatRupiah(rec.HargaTransportasi), align: "center", width: 1701},
		{text: "ritase", align: "center", width: 1134},
	})
	if rec.HargaMou != nil {
		rows = append(rows, []docxCell{
			{text: "Biaya MoU", align: "center", bold: true, width: 7087, span: 3},
			{text: core.FormatRupiah(*rec.HargaMou), align: "center", width: 1701},
			{text: "Tahun", align: "center", width: 1134},
		})
	}
	return rows
}

// writeQuotationDOCX renders the quotation letter: letter number, date,
// addressee, price table and the payment-term clause.
func writeQuotationDOCX(rec *core.QuotationRecord, now time.Time, path string) error {
	b := newDocxBuilder("Calibri", 11)

	b.para("SURAT PENAWARAN", "center", runOpts{bold: true})
	b.para("No : "+rec.LetterNumber(), "center", runOpts{bold: true})
	b.blank()

	b.para(fmt.Sprintf("Sukabumi, %d %s %d", now.Day(), indonesianMonthNames[now.Month()-1], now.Year()),
		"right", runOpts{})
	b.blank()

	b.para("Kepada Yth,", "", runOpts{})
	b.para(rec.NamaPerusahaan, "", runOpts{bold: true})
	b.para(rec.AlamatPerusahaan, "", runOpts{})
	b.blank()

	b.para("Dengan hormat,", "", runOpts{})
	b.para("Bersama surat ini kami sampaikan penawaran harga pengelolaan limbah "+
		"sebagai berikut :", "both", runOpts{})
	b.blank()

	b.table([]int{850, 4536, 1701, 1701, 1134}, quotationRows(rec))
	b.blank()

	b.para(fmt.Sprintf("Termin Pembayaran Paling Lambat %d (%s) Hari setelah dokumen "+
		"tagihan kami terima.", rec.TerminHari, core.Terbilang(rec.TerminHari)), "both", runOpts{})
	b.blank()

	b.para("Demikian penawaran ini kami sampaikan, atas perhatian dan kerjasamanya "+
		"kami ucapkan terima kasih.", "both", runOpts{})
	b.blank()
	b.blank()

	b.para("Hormat kami,", "", runOpts{})
	b.para("PT Sarana Trans Bersama Jaya", "", runOpts{bold: true})

	return b.save(path)
}
