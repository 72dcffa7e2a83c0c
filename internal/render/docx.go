package render

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"
)

// Minimal WordprocessingML writer. The letters only need paragraphs and
// simple bordered tables, so the package carries its own document builder
// instead of a full docx dependency: three fixed parts (content types,
// package rels, document body) zipped together.

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const docxDocumentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docxDocumentClose = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
	`<w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134"/></w:sectPr></w:body></w:document>`

type docxBuilder struct {
	font string
	size int // half-points
	body strings.Builder
}

func newDocxBuilder(font string, sizePt int) *docxBuilder {
	return &docxBuilder{font: font, size: sizePt * 2}
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return r.Replace(s)
}

type runOpts struct {
	bold      bool
	underline bool
}

func (b *docxBuilder) runProps(o runOpts) string {
	var sb strings.Builder
	sb.WriteString(`<w:rPr><w:rFonts w:ascii="` + b.font + `" w:hAnsi="` + b.font + `"/>`)
	fmt.Fprintf(&sb, `<w:sz w:val="%d"/>`, b.size)
	if o.bold {
		sb.WriteString("<w:b/>")
	}
	if o.underline {
		sb.WriteString(`<w:u w:val="single"/>`)
	}
	sb.WriteString("</w:rPr>")
	return sb.String()
}

// para appends one paragraph. align is "", "center", "right" or "both".
func (b *docxBuilder) para(text, align string, o runOpts) {
	b.body.WriteString("<w:p><w:pPr>")
	if align != "" {
		fmt.Fprintf(&b.body, `<w:jc w:val="%s"/>`, align)
	}
	b.body.WriteString("</w:pPr>")
	if text != "" {
		b.body.WriteString("<w:r>" + b.runProps(o) + `<w:t xml:space="preserve">` + escapeXML(text) + "</w:t></w:r>")
	}
	b.body.WriteString("</w:p>")
}

func (b *docxBuilder) blank() { b.para("", "", runOpts{}) }

type docxCell struct {
	text  string
	align string
	bold  bool
	width int // dxa; 0 inherits the grid
	span  int // gridSpan; 0 or 1 for a plain cell
}

// table appends a fully bordered table. widths are the grid column widths
// in dxa.
func (b *docxBuilder) table(widths []int, rows [][]docxCell) {
	b.body.WriteString(`<w:tbl><w:tblPr><w:tblBorders>` +
		`<w:top w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
		`<w:left w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
		`<w:bottom w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
		`<w:right w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
		`<w:insideH w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
		`<w:insideV w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
		`</w:tblBorders></w:tblPr><w:tblGrid>`)
	for _, wdt := range widths {
		fmt.Fprintf(&b.body, `<w:gridCol w:w="%d"/>`, wdt)
	}
	b.body.WriteString("</w:tblGrid>")
	for _, row := range rows {
		b.body.WriteString("<w:tr>")
		for _, c := range row {
			b.body.WriteString("<w:tc><w:tcPr>")
			if c.width > 0 {
				fmt.Fprintf(&b.body, `<w:tcW w:w="%d" w:type="dxa"/>`, c.width)
			}
			if c.span > 1 {
				fmt.Fprintf(&b.body, `<w:gridSpan w:val="%d"/>`, c.span)
			}
			b.body.WriteString("</w:tcPr><w:p><w:pPr>")
			if c.align != "" {
				fmt.Fprintf(&b.body, `<w:jc w:val="%s"/>`, c.align)
			}
			b.body.WriteString("</w:pPr><w:r>" + b.runProps(runOpts{bold: c.bold}) +
				`<w:t xml:space="preserve">` + escapeXML(c.text) + "</w:t></w:r></w:p></w:tc>")
		}
		b.body.WriteString("</w:tr>")
	}
	b.body.WriteString("</w:tbl>")
}

// save zips the document parts into path.
func (b *docxBuilder) save(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	parts := []struct {
		name, content string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", docxDocumentOpen + b.body.String() + docxDocumentClose},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return fmt.Errorf("zip entry %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize docx: %w", err)
	}
	return nil
}
