package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	nsMain = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRel  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	// US Letter in twentieths of a point, one inch margins.
	pageWidth  = 12240
	pageHeight = 15840
	pageMargin = 1440

	titleColumnWidth     = 3000
	reasoningColumnWidth = 6360
)

// WriteDOCX serializes doc as a WordprocessingML package.
func WriteDOCX(w io.Writer, doc *Document) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"docProps/core.xml", coreXML(doc)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/header1.xml", headerXML(doc.HeaderText)},
		{"word/footer1.xml", []byte(footerXML)},
		{"word/document.xml", documentXML(doc)},
	}

	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", p.name, err)
		}
		if _, err := f.Write(p.body); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize document: %w", err)
	}
	return nil
}

func documentXML(doc *Document) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<w:document xmlns:w="%s" xmlns:r="%s"><w:body>`, nsMain, nsRel)

	for _, block := range doc.Blocks {
		writeBlock(&b, block)
	}

	fmt.Fprintf(&b, `<w:sectPr>`+
		`<w:headerReference w:type="default" r:id="rIdHeader"/>`+
		`<w:footerReference w:type="default" r:id="rIdFooter"/>`+
		`<w:pgSz w:w="%d" w:h="%d"/>`+
		`<w:pgMar w:top="%[3]d" w:right="%[3]d" w:bottom="%[3]d" w:left="%[3]d" w:header="720" w:footer="720" w:gutter="0"/>`+
		`</w:sectPr>`, pageWidth, pageHeight, pageMargin)
	b.WriteString(`</w:body></w:document>`)
	return b.Bytes()
}

func writeBlock(b *bytes.Buffer, block Block) {
	switch block.Kind {
	case BlockHeading1:
		paragraph(b, `<w:pStyle w:val="Heading1"/>`, "", block.Text)
	case BlockHeading2:
		paragraph(b, `<w:pStyle w:val="Heading2"/>`, "", block.Text)
	case BlockParagraph:
		paragraph(b, `<w:spacing w:after="200"/>`, "", block.Text)
	case BlockLabel:
		paragraph(b, `<w:spacing w:before="120" w:after="60"/>`, `<w:b/>`, block.Text)
	case BlockMuted:
		paragraph(b, `<w:spacing w:after="240"/>`, `<w:color w:val="666666"/>`, block.Text)
	case BlockBulletList:
		for _, item := range block.Items {
			paragraph(b, `<w:ind w:left="360"/>`, "", "• "+item)
		}
	case BlockTable:
		table(b, block.Header, block.Rows)
	}
}

func paragraph(b *bytes.Buffer, pPr, rPr, text string) {
	b.WriteString(`<w:p>`)
	if pPr != "" {
		b.WriteString(`<w:pPr>` + pPr + `</w:pPr>`)
	}
	b.WriteString(`<w:r>`)
	if rPr != "" {
		b.WriteString(`<w:rPr>` + rPr + `</w:rPr>`)
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	escape(b, text)
	b.WriteString(`</w:t></w:r></w:p>`)
}

func table(b *bytes.Buffer, header []string, rows [][]string) {
	widths := []int{titleColumnWidth, reasoningColumnWidth}

	b.WriteString(`<w:tbl><w:tblPr>`)
	fmt.Fprintf(b, `<w:tblW w:w="%d" w:type="dxa"/>`, titleColumnWidth+reasoningColumnWidth)
	b.WriteString(`<w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(b, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="BFBFBF"/>`, side)
	}
	b.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid>`)
	for _, w := range widths {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, w)
	}
	b.WriteString(`</w:tblGrid>`)

	tableRow(b, widths, header, true)
	for _, row := range rows {
		tableRow(b, widths, row, false)
	}
	b.WriteString(`</w:tbl>`)
	// Word requires a paragraph after a trailing table.
	b.WriteString(`<w:p/>`)
}

func tableRow(b *bytes.Buffer, widths []int, cells []string, header bool) {
	b.WriteString(`<w:tr>`)
	if header {
		b.WriteString(`<w:trPr><w:tblHeader/></w:trPr>`)
	}
	for i, cell := range cells {
		width := widths[len(widths)-1]
		if i < len(widths) {
			width = widths[i]
		}
		fmt.Fprintf(b, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/>`, width)
		rPr := ""
		if header {
			b.WriteString(`<w:shd w:val="clear" w:color="auto" w:fill="F2F2F2"/>`)
			rPr = `<w:b/>`
		}
		b.WriteString(`</w:tcPr>`)
		paragraph(b, "", rPr, cell)
		b.WriteString(`</w:tc>`)
	}
	b.WriteString(`</w:tr>`)
}

func headerXML(text string) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<w:hdr xmlns:w="%s">`, nsMain)
	paragraph(&b, `<w:jc w:val="right"/>`, `<w:color w:val="888888"/><w:sz w:val="18"/>`, text)
	b.WriteString(`</w:hdr>`)
	return b.Bytes()
}

func coreXML(doc *Document) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>`)
	escape(&b, doc.Title)
	b.WriteString(`</dc:title><dc:creator>`)
	escape(&b, doc.Author)
	b.WriteString(`</dc:creator></cp:coreProperties>`)
	return b.Bytes()
}

func escape(b *bytes.Buffer, s string) {
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(b, []byte(s))
}

const contentTypesXML = xml.Header +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>` +
	`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rIdStyles" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`<Relationship Id="rIdHeader" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>` +
	`<Relationship Id="rIdFooter" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>` +
	`</Relationships>`

const stylesXML = xml.Header +
	`<w:styles xmlns:w="` + nsMain + `">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial" w:cs="Arial"/><w:sz w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>` +
	`<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="240"/><w:outlineLvl w:val="0"/></w:pPr>` +
	`<w:rPr><w:b/><w:color w:val="CC0000"/><w:sz w:val="36"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>` +
	`<w:pPr><w:keepNext/><w:spacing w:before="200" w:after="120"/><w:outlineLvl w:val="1"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>` +
	`</w:styles>`

const footerXML = xml.Header +
	`<w:ftr xmlns:w="` + nsMain + `"><w:p><w:pPr><w:jc w:val="center"/></w:pPr>` +
	`<w:r><w:rPr><w:sz w:val="18"/></w:rPr><w:t xml:space="preserve">Page </w:t></w:r>` +
	`<w:fldSimple w:instr=" PAGE "><w:r><w:rPr><w:sz w:val="18"/></w:rPr><w:t>1</w:t></w:r></w:fldSimple>` +
	`</w:p></w:ftr>`
