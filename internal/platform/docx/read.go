package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const documentPart = "word/document.xml"

// Read parses a .docx file held in memory.
func Read(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	body, err := readZipFile(zr.File, documentPart)
	if err != nil {
		return nil, err
	}
	return parseBody(body)
}

func readZipFile(files []*zip.File, target string) ([]byte, error) {
	for _, f := range files {
		if f == nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(f.Name), target) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("docx part not found: %s", target)
}

type bodyParser struct {
	doc Document

	tblDepth int
	table    Table
	row      []string
	cell     strings.Builder

	para   *Paragraph
	text   strings.Builder
	inPPr  bool
	inRun  bool
	inText bool
	runs   int
}

func parseBody(body []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	p := &bodyParser{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", documentPart, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.start(t)
		case xml.EndElement:
			p.end(t)
		case xml.CharData:
			if p.inText {
				p.write(string(t))
			}
		}
	}
	return &p.doc, nil
}

func (p *bodyParser) write(s string) {
	if p.tblDepth > 0 {
		p.cell.WriteString(s)
		return
	}
	if p.para != nil {
		p.text.WriteString(s)
	}
}

func (p *bodyParser) start(t xml.StartElement) {
	switch t.Name.Local {
	case "tbl":
		p.tblDepth++
		if p.tblDepth == 1 {
			p.table = nil
		}
	case "tr":
		if p.tblDepth == 1 {
			p.row = nil
		}
	case "tc":
		if p.tblDepth == 1 {
			p.cell.Reset()
		}
	case "p":
		if p.tblDepth > 0 {
			if p.cell.Len() > 0 {
				p.cell.WriteString("\n")
			}
			return
		}
		p.para = &Paragraph{}
		p.text.Reset()
		p.runs = 0
	case "pPr":
		p.inPPr = true
	case "r":
		p.inRun = true
		p.runs++
	case "t":
		p.inText = true
	case "tab":
		if p.inRun {
			p.write(" ")
		}
	case "br", "cr":
		if p.inRun {
			p.write("\n")
		}
	default:
		if p.para == nil || p.tblDepth > 0 {
			return
		}
		if p.inPPr {
			p.paragraphProperty(t)
		} else if p.inRun && p.runs == 1 {
			p.runProperty(t)
		}
	}
}

func (p *bodyParser) end(t xml.EndElement) {
	switch t.Name.Local {
	case "tbl":
		p.tblDepth--
		if p.tblDepth == 0 {
			p.doc.AddTable(p.table)
			p.table = nil
		}
	case "tr":
		if p.tblDepth == 1 && hasText(p.row) {
			p.table = append(p.table, p.row)
		}
	case "tc":
		if p.tblDepth == 1 {
			p.row = append(p.row, strings.TrimSpace(p.cell.String()))
		}
	case "p":
		if p.tblDepth > 0 || p.para == nil {
			return
		}
		p.para.Text = strings.TrimSpace(p.text.String())
		if p.para.Text != "" {
			p.doc.AddParagraph(*p.para)
		}
		p.para = nil
	case "pPr":
		p.inPPr = false
	case "r":
		p.inRun = false
	case "t":
		p.inText = false
	}
}

func (p *bodyParser) paragraphProperty(t xml.StartElement) {
	switch t.Name.Local {
	case "pStyle":
		p.para.StyleName = attr(t, "val")
		if strings.Contains(strings.ToLower(p.para.StyleName), "bullet") {
			p.para.Bullet = true
		}
	case "numPr":
		p.para.Bullet = true
	case "jc":
		p.para.Style.Align = alignFromXML(attr(t, "val"))
	case "spacing":
		p.para.Style.SpaceBeforePt = twipsToPt(attr(t, "before"))
		p.para.Style.SpaceAfterPt = twipsToPt(attr(t, "after"))
	}
}

func (p *bodyParser) runProperty(t xml.StartElement) {
	switch t.Name.Local {
	case "b":
		p.para.Style.Bold = onOff(attr(t, "val"))
	case "sz":
		if v, err := strconv.ParseFloat(attr(t, "val"), 64); err == nil {
			p.para.Style.SizePt = v / 2
		}
	case "rFonts":
		if f := attr(t, "ascii"); f != "" {
			p.para.Style.Font = f
		}
	case "color":
		if c := attr(t, "val"); c != "" && !strings.EqualFold(c, "auto") {
			p.para.Style.Color = strings.ToUpper(c)
		}
	}
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if strings.EqualFold(a.Name.Local, local) {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func onOff(v string) bool {
	switch strings.ToLower(v) {
	case "0", "false", "off":
		return false
	}
	return true
}

func twipsToPt(v string) float64 {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n / 20
}

func alignFromXML(v string) string {
	switch strings.ToLower(v) {
	case "both", "distribute":
		return "justify"
	case "start":
		return "left"
	case "end":
		return "right"
	case "left", "center", "right":
		return strings.ToLower(v)
	}
	return ""
}

func hasText(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
