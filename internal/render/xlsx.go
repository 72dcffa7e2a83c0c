package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"dokumen-agent/internal/core"
)

const invoiceSheet = "Invoice"

// numFmtThousands is the builtin "#,##0" format.
const numFmtThousands = 3

// sheetWriter wraps an excelize file and keeps the first error, so the
// layout code below reads as layout instead of error plumbing.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(cell string, value any) {
	if w.err == nil {
		w.err = w.f.SetCellValue(w.sheet, cell, value)
	}
}

func (w *sheetWriter) merge(from, to string) {
	if w.err == nil {
		w.err = w.f.MergeCell(w.sheet, from, to)
	}
}

func (w *sheetWriter) style(from, to string, styleID int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(w.sheet, from, to, styleID)
	}
}

func (w *sheetWriter) colWidth(from, to string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(w.sheet, from, to, width)
	}
}

func (w *sheetWriter) rowHeight(row int, height float64) {
	if w.err == nil {
		w.err = w.f.SetRowHeight(w.sheet, row, height)
	}
}

func (w *sheetWriter) newStyle(s *excelize.Style) int {
	if w.err != nil {
		return 0
	}
	id, err := w.f.NewStyle(s)
	w.err = err
	return id
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// colStyle is the data style a bordered table column keeps: alignment plus
// an optional number format and bold header treatment.
type colStyle struct {
	horizontal string
	numFmt     int
	bold       bool
}

// boxBorders draws a medium outline around [r1,c1]..[r2,c2] with thin
// vertical separators on the left edge of each column in vertCols,
// mirroring the hand-ruled tables of the original invoice sheet. cols maps
// column numbers to their data style; missing columns center. headerRow
// marks a row whose cells render bold (pass 0 for none).
func (w *sheetWriter) boxBorders(r1, c1, r2, c2 int, vertCols []int, cols map[int]colStyle, headerRow int) {
	if w.err != nil {
		return
	}
	isSeparator := make(map[int]bool, len(vertCols))
	for _, c := range vertCols {
		isSeparator[c] = true
	}
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			var borders []excelize.Border
			if r == r1 {
				borders = append(borders, excelize.Border{Type: "top", Style: 2, Color: "000000"})
			}
			if r == r2 {
				borders = append(borders, excelize.Border{Type: "bottom", Style: 2, Color: "000000"})
			}
			if c == c1 {
				borders = append(borders, excelize.Border{Type: "left", Style: 2, Color: "000000"})
			} else if isSeparator[c] {
				borders = append(borders, excelize.Border{Type: "left", Style: 1, Color: "000000"})
			}
			if c == c2 {
				borders = append(borders, excelize.Border{Type: "right", Style: 2, Color: "000000"})
			}

			cs := colStyle{horizontal: "center"}
			if s, ok := cols[c]; ok && r != headerRow {
				cs = s
			}
			style := &excelize.Style{
				Border:    borders,
				Alignment: &excelize.Alignment{Horizontal: cs.horizontal, Vertical: "center", WrapText: true},
			}
			if cs.numFmt != 0 && r != headerRow {
				style.NumFmt = cs.numFmt
			}
			if r == headerRow || cs.bold {
				style.Font = &excelize.Font{Bold: true}
			}
			id := w.newStyle(style)
			if w.err != nil {
				return
			}
			cell := cellName(c, r)
			w.style(cell, cell, id)
		}
	}
}

// writeInvoiceXLSX renders the invoice workbook: parties block, reference
// table, at least ten item rows, payment instructions, the totals column
// and a signature box.
func writeInvoiceXLSX(rec *core.InvoiceRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return err
	}
	w := &sheetWriter{f: f, sheet: invoiceSheet}

	orientation := "portrait"
	a4 := 9
	fitW, fitH := 1, 0
	if err := f.SetPageLayout(invoiceSheet, &excelize.PageLayoutOptions{
		Orientation: &orientation, Size: &a4, FitToWidth: &fitW, FitToHeight: &fitH,
	}); err != nil {
		return err
	}
	margin := 0.35
	if err := f.SetPageMargins(invoiceSheet, &excelize.PageLayoutMarginsOptions{
		Left: &margin, Right: &margin, Top: &margin, Bottom: &margin,
	}); err != nil {
		return err
	}

	w.colWidth("A", "C", 3)
	w.colWidth("D", "D", 7)
	w.colWidth("E", "E", 6)
	w.colWidth("F", "F", 12)
	w.colWidth("G", "G", 26)
	w.colWidth("H", "H", 19)
	w.colWidth("I", "I", 14)
	w.colWidth("J", "J", 18)

	for row, h := range map[int]float64{1: 16, 2: 34, 3: 34, 5: 16, 7: 16, 10: 18, 11: 18, 12: 18, 13: 18, 14: 18} {
		w.rowHeight(row, h)
	}

	boldStyle := w.newStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	boldUnderline := w.newStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Underline: "single"}})
	leftTop := w.newStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true}})
	leftMid := w.newStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true}})
	rightMidBold := w.newStyle(&excelize.Style{Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center", WrapText: true}})
	centerMid := w.newStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}})
	moneyRightBold := w.newStyle(&excelize.Style{NumFmt: numFmtThousands, Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Style: 1, Color: "000000"}, {Type: "right", Style: 1, Color: "000000"},
			{Type: "top", Style: 1, Color: "000000"}, {Type: "bottom", Style: 1, Color: "000000"},
		}})
	moneyRightBoxed := w.newStyle(&excelize.Style{NumFmt: numFmtThousands,
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Style: 1, Color: "000000"}, {Type: "right", Style: 1, Color: "000000"},
			{Type: "top", Style: 1, Color: "000000"}, {Type: "bottom", Style: 1, Color: "000000"},
		}})

	// Parties.
	w.set("D1", "Bill To:")
	w.style("D1", "D1", boldStyle)
	w.merge("D1", "F1")
	w.set("H1", "Ship To:")
	w.style("H1", "H1", boldStyle)
	w.merge("H1", "J1")

	w.set("D2", partyText(rec.BillTo))
	w.merge("D2", "F3")
	w.style("D2", "D2", leftTop)
	w.set("H2", partyText(rec.ShipTo))
	w.merge("H2", "J3")
	w.style("H2", "H2", leftTop)

	// Contact lines.
	w.set("D5", "Phone:")
	w.style("D5", "D5", boldStyle)
	w.merge("E5", "F5")
	w.set("E5", rec.Phone)
	w.style("E5", "E5", leftMid)

	w.set("H5", "Fax:")
	w.style("H5", "H5", boldStyle)
	w.merge("I5", "J5")
	w.set("I5", rec.Fax)
	w.style("I5", "I5", leftMid)

	w.set("D7", "Attn :")
	w.style("D7", "D7", boldStyle)
	w.merge("E7", "F7")
	w.set("E7", rec.Attn)
	w.style("E7", "E7", leftMid)

	// Invoice header column.
	for _, h := range []struct {
		label, labelCell, valueCell string
		value                       string
	}{
		{"Invoice", "I6", "J6", rec.InvoiceNo},
		{"Date", "I7", "J7", rec.InvoiceDate},
		{"No. Surat Jalan", "I8", "J8", rec.SuratJalanNo},
	} {
		w.set(h.labelCell, h.label)
		w.style(h.labelCell, h.labelCell, rightMidBold)
		w.set(h.valueCell, h.value)
		w.style(h.valueCell, h.valueCell, leftMid)
	}

	// Reference table, rows 10-13.
	w.merge("D10", "E10")
	w.merge("F10", "G10")
	for cell, label := range map[string]string{
		"D10": "Ref No.", "F10": "Sales Person", "H10": "Ship Via", "I10": "Ship Date", "J10": "Terms",
	} {
		w.set(cell, label)
	}
	w.merge("D11", "E13")
	w.merge("F11", "G13")
	w.merge("H11", "H13")
	w.merge("I11", "I13")
	w.merge("J11", "J13")
	for cell, value := range map[string]string{
		"D11": rec.RefNo, "F11": rec.SalesPerson, "H11": rec.ShipVia, "I11": rec.ShipDate, "J11": rec.Terms,
	} {
		w.set(cell, value)
	}
	w.boxBorders(10, 4, 13, 10, []int{6, 8, 9, 10}, nil, 10)

	// Item table header, row 14.
	w.merge("G14", "H14")
	for cell, label := range map[string]string{
		"D14": "Qty", "F14": "Date", "G14": "Description", "I14": "Price", "J14": "Amount (IDR)",
	} {
		w.set(cell, label)
	}

	const startRow = 15
	rows := len(rec.Items)
	if rows < 10 {
		rows = 10
	}
	for idx := 0; idx < rows; idx++ {
		r := startRow + idx
		w.merge(cellName(7, r), cellName(8, r))
		if idx >= len(rec.Items) {
			continue
		}
		it := rec.Items[idx]
		if it.Quantity == float64(int64(it.Quantity)) {
			w.set(cellName(4, r), int64(it.Quantity))
		} else {
			w.set(cellName(4, r), it.Quantity)
		}
		w.set(cellName(5, r), it.Unit)
		w.set(cellName(6, r), it.Date)
		w.set(cellName(7, r), it.Description)
		w.set(cellName(9, r), it.UnitPrice)
		w.set(cellName(10, r), it.Amount())
	}
	lastTableRow := startRow + rows - 1
	w.boxBorders(14, 4, lastTableRow, 10, []int{5, 6, 7, 9, 10}, map[int]colStyle{
		7:  {horizontal: "left"},
		9:  {horizontal: "right", numFmt: numFmtThousands},
		10: {horizontal: "right", numFmt: numFmtThousands},
	}, 14)

	// Payment block and totals column share the same vertical band.
	totals := rec.Totals()
	baseRow := lastTableRow + 2

	w.merge(cellName(4, baseRow), cellName(8, baseRow))
	w.set(cellName(4, baseRow), "Please Transfer Full Amount to:")
	w.style(cellName(4, baseRow), cellName(4, baseRow), boldUnderline)

	paymentLines := []string{
		"Beneficiary : " + rec.Payment.Beneficiary,
		"Bank Name   : " + rec.Payment.BankName,
		"Branch      : " + rec.Payment.Branch,
		"IDR Acct    : " + rec.Payment.Account,
	}
	for i, line := range paymentLines {
		r := baseRow + 1 + i
		w.merge(cellName(4, r), cellName(8, r))
		w.set(cellName(4, r), line)
		w.style(cellName(4, r), cellName(4, r), leftMid)
	}

	totalRows := []struct {
		label string
		value int64
		bold  bool
	}{
		{"Total", totals.Subtotal, false},
		{"Freight", totals.Freight, false},
		{"Total", totals.PreTax, false},
		{fmt.Sprintf("PPN %d%%", rec.TaxRatePercent()), totals.Tax, false},
		{"Less: Deposit", totals.Deposit, false},
		{"Balance Due", totals.Balance, true},
	}
	for i, tr := range totalRows {
		r := baseRow + i
		w.set(cellName(9, r), tr.label)
		w.style(cellName(9, r), cellName(9, r), rightMidBold)
		w.set(cellName(10, r), tr.value)
		if tr.bold {
			w.style(cellName(10, r), cellName(10, r), moneyRightBold)
		} else {
			w.style(cellName(10, r), cellName(10, r), moneyRightBoxed)
		}
	}

	// Signature box and footer.
	boxTop := baseRow + len(totalRows) + 1
	boxBottom := boxTop + 6
	w.merge(cellName(7, boxTop), cellName(10, boxTop))
	w.set(cellName(7, boxTop), rec.Payment.Beneficiary)
	w.boxBorders(boxTop, 7, boxBottom, 10, nil, nil, boxTop)

	footerRow := boxBottom + 1
	w.merge(cellName(7, footerRow), cellName(10, footerRow))
	w.set(cellName(7, footerRow), "Please kindly fax to our attention upon receipt")
	w.style(cellName(7, footerRow), cellName(7, footerRow), centerMid)

	if w.err != nil {
		return w.err
	}
	return f.SaveAs(path)
}

func partyText(p core.Party) string {
	var lines []string
	for _, s := range []string{p.Name, p.Address, p.Address2} {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
