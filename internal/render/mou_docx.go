package render

import (
	"fmt"
	"strconv"
	"time"

	"dokumen-agent/internal/core"
)

// writeMouDOCX renders the three-party cooperation agreement: letter
// number, date line, the parties with signatories, the covered waste table
// and the signature blocks.
func writeMouDOCX(rec *core.MouRecord, now time.Time, path string) error {
	b := newDocxBuilder("Times New Roman", 10)

	b.para("PERJANJIAN KERJASAMA", "center", runOpts{bold: true})
	b.para("PENGELOLAAN LIMBAH B3 DAN NON B3", "center", runOpts{bold: true})
	b.para("No : "+rec.NomorSurat, "center", runOpts{bold: true})
	b.blank()

	b.para(fmt.Sprintf("Pada hari ini %s kami yang bertanda tangan di bawah ini :",
		core.FormatTanggalIndonesia(now)), "both", runOpts{})
	b.blank()

	parties := []struct {
		label, name, detail string
	}{
		{"PIHAK PERTAMA", rec.PihakPertama, rec.AlamatPihakPertama},
		{"PIHAK KEDUA", rec.PihakKedua, ""},
		{"PIHAK KETIGA", rec.PihakKetiga, rec.AlamatPihakKetiga},
	}
	for i, p := range parties {
		b.para(fmt.Sprintf("%d. %s, selanjutnya disebut %s", i+1, p.name, p.label), "both", runOpts{bold: true})
		if p.detail != "" {
			b.para("    Alamat : "+p.detail, "both", runOpts{})
		}
	}
	b.blank()

	b.para("PIHAK PERTAMA menyerahkan pengelolaan limbah kepada PIHAK KEDUA selaku "+
		"transporter berizin untuk diangkut dan diserahkan kepada PIHAK KETIGA selaku "+
		"pengelola akhir, dengan jenis limbah sebagai berikut :", "both", runOpts{})
	b.blank()

	rows := [][]docxCell{{
		{text: "No", align: "center", bold: true, width: 850},
		{text: "Jenis Limbah", align: "center", bold: true, width: 6236},
		{text: "Kode Limbah", align: "center", bold: true, width: 2552},
	}}
	for i, it := range rec.Items {
		rows = append(rows, []docxCell{
			{text: strconv.Itoa(i + 1), align: "center", width: 850},
			{text: it.JenisLimbah, width: 6236},
			{text: it.KodeLimbah, align: "center", width: 2552},
		})
	}
	b.table([]int{850, 6236, 2552}, rows)
	b.blank()

	b.para("Demikian perjanjian ini dibuat dengan sebenarnya untuk dipergunakan "+
		"sebagaimana mestinya.", "both", runOpts{})
	b.blank()
	b.blank()

	b.para("PIHAK PERTAMA,", "", runOpts{bold: true})
	b.blank()
	b.blank()
	b.para(rec.TtdPihakPertama, "", runOpts{bold: true, underline: true})
	b.para(rec.JabatanPihakPertama, "", runOpts{})
	b.blank()

	b.para("PIHAK KEDUA,", "", runOpts{bold: true})
	b.blank()
	b.blank()
	b.para(rec.PihakKedua, "", runOpts{bold: true, underline: true})
	b.blank()

	b.para("PIHAK KETIGA,", "center", runOpts{bold: true})
	b.blank()
	b.blank()
	b.para(rec.TtdPihakKetiga, "center", runOpts{bold: true, underline: true})
	b.para(rec.JabatanPihakKetiga, "center", runOpts{})

	return b.save(path)
}
