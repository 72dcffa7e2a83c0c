package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the Indonesian PPN rate applied to invoices.
var DefaultTaxRate = decimal.NewFromFloat(0.11)

// Party is one addressed party on a document.
type Party struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Address2 string `json:"address2,omitempty"`
}

// LineItem is one billable line. Quantity defaults to unit "Kg"; the item
// date mirrors the document date. An item is appended to a record only once
// description and price are both resolved.
type LineItem struct {
	Quantity    float64 `json:"qty"`
	Unit        string  `json:"unit"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	UnitPrice   int64   `json:"price"`
}

// Amount is the line total, rounded half away from zero.
func (it LineItem) Amount() int64 {
	return decimal.NewFromFloat(it.Quantity).
		Mul(decimal.NewFromInt(it.UnitPrice)).
		Round(0).IntPart()
}

// PaymentInstruction is the fixed transfer block printed on invoices.
type PaymentInstruction struct {
	Beneficiary string `json:"beneficiary"`
	BankName    string `json:"bank_name"`
	Branch      string `json:"branch"`
	Account     string `json:"idr_acct"`
}

// DefaultPaymentInstruction returns the house bank details.
func DefaultPaymentInstruction() PaymentInstruction {
	return PaymentInstruction{
		Beneficiary: "PT. Sarana Trans Bersama Jaya",
		BankName:    "BCA",
		Branch:      "Cibadak - Sukabumi",
		Account:     "35212 26666",
	}
}

// InvoiceRecord accumulates the invoice flow's answers. Totals are always
// derived via Totals(), never stored, so the record cannot carry a stale
// computed value.
type InvoiceRecord struct {
	InvoiceNo    string             `json:"invoice_no"`
	InvoiceDate  string             `json:"invoice_date"`
	BillTo       Party              `json:"bill_to"`
	ShipTo       Party              `json:"ship_to"`
	Phone        string             `json:"phone"`
	Fax          string             `json:"fax"`
	Attn         string             `json:"attn"`
	SalesPerson  string             `json:"sales_person"`
	RefNo        string             `json:"ref_no"`
	ShipVia      string             `json:"ship_via"`
	ShipDate     string             `json:"ship_date"`
	Terms        string             `json:"terms"`
	SuratJalanNo string             `json:"no_surat_jalan"`
	Items        []LineItem         `json:"items"`
	Current      LineItem           `json:"current_item"`
	Freight      int64              `json:"freight"`
	TaxRate      decimal.Decimal    `json:"ppn_rate"`
	Deposit      int64              `json:"deposit"`
	Payment      PaymentInstruction `json:"payment"`
}

// NewInvoiceRecord seeds an invoice with the house defaults.
func NewInvoiceRecord(invoiceNo string, now time.Time) *InvoiceRecord {
	return &InvoiceRecord{
		InvoiceNo:   invoiceNo,
		InvoiceDate: now.Format("02-Jan-06"),
		Attn:        "Accounting / Finance",
		SalesPerson: "Syaeful Bakri",
		TaxRate:     DefaultTaxRate,
		Payment:     DefaultPaymentInstruction(),
	}
}

// InvoiceTotals is the derived money summary: tax applies to subtotal plus
// freight, the deposit is a flat deduction.
type InvoiceTotals struct {
	Subtotal int64
	Freight  int64
	PreTax   int64
	Tax      int64
	Deposit  int64
	Balance  int64
}

// Totals computes the invoice money summary with half-away-from-zero
// rounding at each step.
func (r *InvoiceRecord) Totals() InvoiceTotals {
	var subtotal int64
	for _, it := range r.Items {
		subtotal += it.Amount()
	}
	rate := r.TaxRate
	if rate.IsZero() {
		rate = DefaultTaxRate
	}
	preTax := subtotal + r.Freight
	tax := decimal.NewFromInt(preTax).Mul(rate).Round(0).IntPart()
	return InvoiceTotals{
		Subtotal: subtotal,
		Freight:  r.Freight,
		PreTax:   preTax,
		Tax:      tax,
		Deposit:  r.Deposit,
		Balance:  preTax + tax - r.Deposit,
	}
}

// TaxRatePercent renders the rate for display ("PPN 11%").
func (r *InvoiceRecord) TaxRatePercent() int {
	rate := r.TaxRate
	if rate.IsZero() {
		rate = DefaultTaxRate
	}
	return int(rate.Mul(decimal.NewFromInt(100)).IntPart())
}

// MouItem is one waste category covered by an agreement. Manual entries
// carry the fixed code "NON B3".
type MouItem struct {
	JenisLimbah string `json:"jenis_limbah"`
	KodeLimbah  string `json:"kode_limbah"`
}

// MouRecord accumulates the cooperation-agreement flow's answers. The
// second party is always the house company.
type MouRecord struct {
	NomorDepan          string    `json:"nomor_depan"`
	NomorSurat          string    `json:"nomor_surat"`
	PihakPertama        string    `json:"pihak_pertama"`
	AlamatPihakPertama  string    `json:"alamat_pihak_pertama"`
	PihakKedua          string    `json:"pihak_kedua"`
	PihakKeduaKode      string    `json:"pihak_kedua_kode"`
	PihakKetiga         string    `json:"pihak_ketiga"`
	PihakKetigaKode     string    `json:"pihak_ketiga_kode"`
	AlamatPihakKetiga   string    `json:"alamat_pihak_ketiga"`
	TtdPihakPertama     string    `json:"ttd_pihak_pertama"`
	JabatanPihakPertama string    `json:"jabatan_pihak_pertama"`
	TtdPihakKetiga      string    `json:"ttd_pihak_ketiga"`
	JabatanPihakKetiga  string    `json:"jabatan_pihak_ketiga"`
	Items               []MouItem `json:"items_limbah"`
	Current             MouItem   `json:"current_item"`
}

// NewMouRecord seeds an agreement with the house party fixed as pihak
// kedua.
func NewMouRecord(nomorDepan string) *MouRecord {
	return &MouRecord{
		NomorDepan:     nomorDepan,
		PihakKedua:     "PT Sarana Trans Bersama Jaya",
		PihakKeduaKode: "STBJ",
	}
}

var companyCodeCleanRe = regexp.MustCompile(`[^A-Za-z0-9 ]+`)

// CompanyToCode derives the three-letter code used in letter numbers:
// initials of up to three significant words, skipping the legal-form words,
// padded with X.
func CompanyToCode(name string) string {
	t := companyCodeCleanRe.ReplaceAllString(name, " ")
	var parts []string
	for _, p := range strings.Fields(t) {
		switch strings.ToLower(p) {
		case "pt", "pt.", "persero", "tbk":
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return "XXX"
	}
	if len(parts) == 1 {
		code := strings.ToUpper(parts[0])
		if len(code) > 3 {
			code = code[:3]
		}
		return padX(code)
	}
	var b strings.Builder
	for _, p := range parts[:minInt(3, len(parts))] {
		b.WriteString(strings.ToUpper(p[:1]))
	}
	return padX(b.String())
}

func padX(s string) string {
	for len(s) < 3 {
		s += "X"
	}
	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// LetterNumber builds the agreement number, e.g.
// "003/PKPLNB3/API-STBJ-HBSP/VIII/2026".
func (r *MouRecord) LetterNumber(now time.Time) string {
	p2 := strings.ToUpper(strings.TrimSpace(r.PihakKeduaKode))
	if p2 == "" {
		p2 = "STBJ"
	}
	p3 := strings.ToUpper(strings.TrimSpace(r.PihakKetigaKode))
	if p3 == "" {
		p3 = "XXX"
	}
	return fmt.Sprintf("%s/PKPLNB3/%s-%s-%s/%s/%d",
		strings.TrimSpace(r.NomorDepan), CompanyToCode(r.PihakPertama), p2, p3,
		RomanMonth(now.Month()), now.Year())
}

// QuotationItem is one quoted waste category with its price per unit.
type QuotationItem struct {
	KodeLimbah  string `json:"kode_limbah"`
	JenisLimbah string `json:"jenis_limbah"`
	Satuan      string `json:"satuan"`
	Harga       int64  `json:"harga"`
}

// QuotationRecord accumulates the quotation flow's answers. HargaMou is nil
// when no agreement fee was quoted; TerminHari defaults to 14.
type QuotationRecord struct {
	NomorDepan        string          `json:"nomor_depan"`
	Bulan             time.Month      `json:"bulan"`
	Tahun             int             `json:"tahun"`
	NamaPerusahaan    string          `json:"nama_perusahaan"`
	AlamatPerusahaan  string          `json:"alamat_perusahaan"`
	Items             []QuotationItem `json:"items_limbah"`
	Current           QuotationItem   `json:"current_item"`
	HargaTransportasi int64           `json:"harga_transportasi"`
	HargaMou          *int64          `json:"harga_mou"`
	TerminHari        int             `json:"termin_hari"`
}

// NewQuotationRecord seeds a quotation stamped with the current month and
// year for its letter number.
func NewQuotationRecord(nomorDepan string, now time.Time) *QuotationRecord {
	return &QuotationRecord{
		NomorDepan: nomorDepan,
		Bulan:      now.Month(),
		Tahun:      now.Year(),
		TerminHari: 14,
	}
}

// LetterNumber builds the quotation number, e.g. "012/STBJ/VIII/2026".
func (r *QuotationRecord) LetterNumber() string {
	return fmt.Sprintf("%s/STBJ/%s/%d", r.NomorDepan, RomanMonth(r.Bulan), r.Tahun)
}
