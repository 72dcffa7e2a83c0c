// Package render produces the downloadable documents: invoice workbooks
// and PDFs, agreement and quotation letters. It also owns the output
// directory: filename collision handling and the document-number counters
// both live next to the generated files.
package render

import (
	"fmt"
	"os"
	"time"

	"dokumen-agent/internal/core"
)

// DocumentAssembler implements core.Assembler on top of a flat output
// directory served under /download.
type DocumentAssembler struct {
	filesDir string
	now      func() time.Time
}

// NewDocumentAssembler creates the output directory if needed.
func NewDocumentAssembler(filesDir string) (*DocumentAssembler, error) {
	if err := os.MkdirAll(filesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create files dir %s: %w", filesDir, err)
	}
	return &DocumentAssembler{filesDir: filesDir, now: time.Now}, nil
}

// FilesDir exposes the output directory for the download handler.
func (a *DocumentAssembler) FilesDir() string { return a.filesDir }

// UniqueBaseName suffixes " (2)", " (3)", ... until the base collides with
// no existing output file in any rendered extension.
func (a *DocumentAssembler) UniqueBaseName(base string) string {
	return uniqueBaseName(a.filesDir, base)
}

// RenderInvoice writes the invoice workbook and its PDF preview.
func (a *DocumentAssembler) RenderInvoice(rec *core.InvoiceRecord, base string) ([]core.GeneratedFile, error) {
	xlsxName := base + ".xlsx"
	if err := writeInvoiceXLSX(rec, a.path(xlsxName)); err != nil {
		return nil, fmt.Errorf("invoice xlsx: %w", err)
	}
	pdfName := base + ".pdf"
	if err := writeInvoicePDF(rec, a.path(pdfName)); err != nil {
		return nil, fmt.Errorf("invoice pdf: %w", err)
	}
	return []core.GeneratedFile{
		{Type: "xlsx", Filename: xlsxName, URL: downloadURL(xlsxName)},
		{Type: "pdf", Filename: pdfName, URL: downloadURL(pdfName)},
	}, nil
}

// RenderMou writes the cooperation-agreement letter and its PDF preview.
func (a *DocumentAssembler) RenderMou(rec *core.MouRecord, base string) ([]core.GeneratedFile, error) {
	docxName := base + ".docx"
	if err := writeMouDOCX(rec, a.now(), a.path(docxName)); err != nil {
		return nil, fmt.Errorf("mou docx: %w", err)
	}
	pdfName := base + ".pdf"
	if err := writeMouPDF(rec, a.now(), a.path(pdfName)); err != nil {
		return nil, fmt.Errorf("mou pdf: %w", err)
	}
	return []core.GeneratedFile{
		{Type: "docx", Filename: docxName, URL: downloadURL(docxName)},
		{Type: "pdf", Filename: pdfName, URL: downloadURL(pdfName)},
	}, nil
}

// RenderQuotation writes the quotation letter and its PDF preview.
func (a *DocumentAssembler) RenderQuotation(rec *core.QuotationRecord, base string) ([]core.GeneratedFile, error) {
	docxName := base + ".docx"
	if err := writeQuotationDOCX(rec, a.now(), a.path(docxName)); err != nil {
		return nil, fmt.Errorf("quotation docx: %w", err)
	}
	pdfName := base + ".pdf"
	if err := writeQuotationPDF(rec, a.now(), a.path(pdfName)); err != nil {
		return nil, fmt.Errorf("quotation pdf: %w", err)
	}
	return []core.GeneratedFile{
		{Type: "docx", Filename: docxName, URL: downloadURL(docxName)},
		{Type: "pdf", Filename: pdfName, URL: downloadURL(pdfName)},
	}, nil
}

func (a *DocumentAssembler) path(name string) string {
	return a.filesDir + string(os.PathSeparator) + name
}

func downloadURL(name string) string {
	return "/download/" + name
}
