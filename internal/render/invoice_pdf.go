package render

import (
	"strconv"

	"github.com/go-pdf/fpdf"

	"dokumen-agent/internal/core"
)

// writeInvoicePDF renders the single-page A4 preview of the invoice,
// mirroring the workbook layout: parties, reference box, a ten-row item
// table, payment instructions, totals box and signature box.
func writeInvoicePDF(rec *core.InvoiceRecord, path string) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()

	txt := func(x, y float64, s string, size float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, size)
		pdf.Text(x, y, tr(s))
	}
	rtxt := func(x, y float64, s string, size float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, size)
		pdf.Text(x-pdf.GetStringWidth(tr(s)), y, tr(s))
	}
	rect := func(x, y, w, h, lw float64) {
		pdf.SetLineWidth(lw)
		pdf.Rect(x, y, w, h, "D")
	}
	vline := func(x, y1, y2 float64) {
		pdf.SetLineWidth(0.6)
		pdf.Line(x, y1, x, y2)
	}

	const leftMargin = 40.0
	tableX := leftMargin
	tableW := pageW - 80

	wQty, wUnit, wDate, wDesc, wPrice := 45.0, 35.0, 70.0, 220.0, 70.0
	xQty := tableX
	xUnit := xQty + wQty
	xDate := xUnit + wUnit
	xDesc := xDate + wDate
	xPrice := xDesc + wDesc
	xAmt := xPrice + wPrice
	xEnd := tableX + tableW
	wAmt := xEnd - xAmt

	y := 50.0

	txt(tableX, y, "Bill To:", 10, true)
	txt(tableX+tableW*0.55, y, "Ship To:", 10, true)
	y += 14

	billLines := partyLines(rec.BillTo)
	shipLines := partyLines(rec.ShipTo)
	yy := y
	for _, line := range billLines {
		txt(tableX, yy, line, 9, false)
		yy += 12
	}
	yy2 := y
	for _, line := range shipLines {
		txt(tableX+tableW*0.55, yy2, line, 9, false)
		yy2 += 12
	}

	txt(xEnd-120, 62, "Invoice", 9, true)
	rtxt(xEnd, 62, rec.InvoiceNo, 9, false)
	txt(xEnd-120, 76, "Date", 9, true)
	rtxt(xEnd, 76, rec.InvoiceDate, 9, false)
	txt(xEnd-120, 90, "No. Surat Jalan", 9, true)
	rtxt(xEnd, 90, rec.SuratJalanNo, 9, false)

	if yy2 > yy {
		yy = yy2
	}
	y = yy + 8
	txt(tableX, y, "Phone:", 9, true)
	txt(tableX+50, y, rec.Phone, 9, false)
	txt(tableX+tableW*0.55, y, "Fax:", 9, true)
	txt(tableX+tableW*0.55+35, y, rec.Fax, 9, false)
	y += 14
	txt(tableX, y, "Attn :", 9, true)
	txt(tableX+45, y, rec.Attn, 9, false)

	// Reference box.
	y += 28
	refTop := y
	refH := 40.0
	rect(tableX, refTop, tableW, refH, 1)
	for _, frac := range []float64{0.25, 0.55, 0.78} {
		vline(tableX+tableW*frac, refTop, refTop+refH)
	}
	txt(tableX+10, refTop+14, "Ref No.", 9, true)
	txt(tableX+tableW*0.25+10, refTop+14, "Sales Person", 9, true)
	txt(tableX+tableW*0.55+10, refTop+14, "Ship Via", 9, true)
	txt(tableX+tableW*0.78+10, refTop+14, "Ship Date", 9, true)
	txt(tableX+10, refTop+30, rec.RefNo, 9, false)
	txt(tableX+tableW*0.25+10, refTop+30, rec.SalesPerson, 9, false)
	txt(tableX+tableW*0.55+10, refTop+30, rec.ShipVia, 9, false)
	txt(tableX+tableW*0.78+10, refTop+30, rec.ShipDate, 9, false)

	txt(xAmt-5, refTop+refH+14, "Terms", 9, true)
	rtxt(xEnd, refTop+refH+14, rec.Terms, 9, false)

	// Item table.
	tableTop := refTop + refH + 28
	tableH := 220.0
	rect(tableX, tableTop, tableW, tableH, 1)
	for _, x := range []float64{xUnit, xDate, xDesc, xPrice, xAmt} {
		vline(x, tableTop, tableTop+tableH)
	}
	headerY := tableTop + 16
	txt(xQty+4, headerY, "Qty", 9, true)
	txt(xDate+4, headerY, "Date", 9, true)
	txt(xDesc+4, headerY, "Description", 9, true)
	txt(xPrice+4, headerY, "Price", 9, true)
	txt(xAmt+4, headerY, "Amount (IDR)", 9, true)

	rowY := headerY + 18
	for idx := 0; idx < 10 && idx < len(rec.Items); idx++ {
		it := rec.Items[idx]
		txt(xQty+4, rowY, formatQty(it.Quantity), 9, false)
		txt(xUnit+4, rowY, it.Unit, 9, false)
		txt(xDate+4, rowY, it.Date, 9, false)
		txt(xDesc+4, rowY, truncate(it.Description, 45), 9, false)
		rtxt(xPrice+wPrice-4, rowY, core.FormatRupiah(it.UnitPrice), 9, false)
		rtxt(xEnd-4, rowY, core.FormatRupiah(it.Amount()), 9, false)
		rowY += 16
	}

	totals := rec.Totals()
	baseY := tableTop + tableH + 20

	txt(tableX, baseY, "Please Transfer Full Amount to:", 9, true)
	txt(tableX, baseY+14, "Beneficiary : "+rec.Payment.Beneficiary, 9, false)
	txt(tableX, baseY+28, "Bank Name   : "+rec.Payment.BankName, 9, false)
	txt(tableX, baseY+42, "Branch      : "+rec.Payment.Branch, 9, false)
	txt(tableX, baseY+56, "IDR Acct    : "+rec.Payment.Account, 9, false)

	// Totals box.
	boxW := wPrice + wAmt
	boxX := xPrice
	boxTop := baseY - 8
	lineH := 14.0
	rows := []struct {
		label string
		value int64
		bold  bool
	}{
		{"Total", totals.Subtotal, true},
		{"Freight", totals.Freight, false},
		{"Total", totals.PreTax, true},
		{"PPN " + strconv.Itoa(rec.TaxRatePercent()) + "%", totals.Tax, false},
		{"Less: Deposit", totals.Deposit, false},
		{"Balance Due", totals.Balance, true},
	}
	boxH := lineH*float64(len(rows)) + 6
	rect(boxX, boxTop, boxW, boxH, 1)
	ly := boxTop + 16
	for _, row := range rows {
		txt(boxX+6, ly, row.label, 9, row.bold)
		rtxt(boxX+boxW-6, ly, core.FormatRupiah(row.value), 9, row.label == "Balance Due")
		ly += lineH
	}

	// Signature box and footer.
	sigTop := boxTop + boxH + 30
	sigH := 80.0
	rect(boxX, sigTop, boxW, sigH, 1)
	txt(boxX+10, sigTop+14, rec.Payment.Beneficiary, 9, true)
	txt(boxX+10, sigTop+sigH+14, "Please kindly fax to our attention upon receipt", 9, false)

	return pdf.OutputFileAndClose(path)
}

func partyLines(p core.Party) []string {
	var lines []string
	for _, s := range []string{p.Name, p.Address, p.Address2} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) > 3 {
		lines = lines[:3]
	}
	return lines
}

func formatQty(q float64) string {
	if q == float64(int64(q)) {
		return strconv.FormatInt(int64(q), 10)
	}
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
