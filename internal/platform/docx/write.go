package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	documentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentClose = `<w:sectPr/></w:body></w:document>`

	bulletPrefix = "• "
)

// Build renders d as a minimal .docx package. Bullets are written as a
// leading bullet character so the package needs no numbering part.
func Build(d *Document) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(documentOpen)
	for _, b := range d.Blocks {
		switch {
		case b.Paragraph != nil:
			writeParagraph(&body, *b.Paragraph)
		case b.Table != nil:
			writeTable(&body, b.Table)
		}
	}
	body.WriteString(documentClose)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{documentPart, body.Bytes()},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return out.Bytes(), nil
}

func writeParagraph(buf *bytes.Buffer, p Paragraph) {
	text := p.Text
	if p.Bullet && !strings.HasPrefix(text, bulletPrefix) {
		text = bulletPrefix + text
	}
	buf.WriteString("<w:p>")
	writeParagraphProps(buf, p)
	buf.WriteString("<w:r>")
	writeRunProps(buf, p.Style)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			buf.WriteString("<w:br/>")
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		escape(buf, line)
		buf.WriteString("</w:t>")
	}
	buf.WriteString("</w:r></w:p>")
}

func writeParagraphProps(buf *bytes.Buffer, p Paragraph) {
	s := p.Style
	if p.StyleName == "" && s.Align == "" && s.SpaceBeforePt == 0 && s.SpaceAfterPt == 0 {
		return
	}
	buf.WriteString("<w:pPr>")
	if p.StyleName != "" {
		fmt.Fprintf(buf, `<w:pStyle w:val="%s"/>`, attrEscape(p.StyleName))
	}
	if s.SpaceBeforePt != 0 || s.SpaceAfterPt != 0 {
		fmt.Fprintf(buf, `<w:spacing w:before="%d" w:after="%d"/>`, int(s.SpaceBeforePt*20), int(s.SpaceAfterPt*20))
	}
	if jc := alignToXML(s.Align); jc != "" {
		fmt.Fprintf(buf, `<w:jc w:val="%s"/>`, jc)
	}
	buf.WriteString("</w:pPr>")
}

func writeRunProps(buf *bytes.Buffer, s Style) {
	if s.Font == "" && !s.Bold && s.Color == "" && s.SizePt == 0 {
		return
	}
	buf.WriteString("<w:rPr>")
	if s.Font != "" {
		f := attrEscape(s.Font)
		fmt.Fprintf(buf, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, f, f)
	}
	if s.Bold {
		buf.WriteString("<w:b/>")
	}
	if s.Color != "" {
		fmt.Fprintf(buf, `<w:color w:val="%s"/>`, attrEscape(s.Color))
	}
	if s.SizePt > 0 {
		fmt.Fprintf(buf, `<w:sz w:val="%s"/>`, strconv.Itoa(int(s.SizePt*2)))
	}
	buf.WriteString("</w:rPr>")
}

func writeTable(buf *bytes.Buffer, t Table) {
	cols := 0
	for _, row := range t {
		if len(row) > cols {
			cols = len(row)
		}
	}
	buf.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/><w:tblBorders>`)
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(buf, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="auto"/>`, edge)
	}
	buf.WriteString("</w:tblBorders></w:tblPr><w:tblGrid>")
	for i := 0; i < cols; i++ {
		buf.WriteString("<w:gridCol/>")
	}
	buf.WriteString("</w:tblGrid>")
	for _, row := range t {
		buf.WriteString("<w:tr>")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			buf.WriteString(`<w:tc><w:p><w:r><w:t xml:space="preserve">`)
			escape(buf, cell)
			buf.WriteString("</w:t></w:r></w:p></w:tc>")
		}
		buf.WriteString("</w:tr>")
	}
	buf.WriteString("</w:tbl>")
}

func alignToXML(align string) string {
	switch strings.ToLower(align) {
	case "center":
		return "center"
	case "right":
		return "right"
	case "justify":
		return "both"
	case "left":
		return "left"
	}
	return ""
}

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}

func attrEscape(s string) string {
	var b bytes.Buffer
	escape(&b, s)
	return b.String()
}
