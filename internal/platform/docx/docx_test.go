package docx

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestBuildThenRead(t *testing.T) {
	var d Document
	d.AddParagraph(Paragraph{
		Text:  "JANE DOE",
		Style: Style{Font: "Georgia", SizePt: 16, Bold: true, Color: "1F3864", Align: "center", SpaceBeforePt: 6, SpaceAfterPt: 12},
	})
	d.AddParagraph(Paragraph{Text: "Led the <migration> & rollout", Bullet: true, Style: Style{SizePt: 11}})
	d.AddParagraph(Paragraph{Text: "line one\nline two", Style: Style{Align: "justify"}})
	d.AddTable(Table{{"Year", "Role"}, {"2020", "Lead"}})
	d.AddTable(nil)

	data, err := Build(&d)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	paras := got.Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("paragraphs: got %d: %+v", len(paras), paras)
	}
	want := Style{Font: "Georgia", SizePt: 16, Bold: true, Color: "1F3864", Align: "center", SpaceBeforePt: 6, SpaceAfterPt: 12}
	if paras[0].Text != "JANE DOE" || paras[0].Style != want {
		t.Fatalf("heading: %+v", paras[0])
	}
	if !paras[0].LooksLikeHeading() {
		t.Fatalf("heading not detected")
	}
	if paras[1].Text != "• Led the <migration> & rollout" || paras[1].Style.Bold {
		t.Fatalf("bullet: %+v", paras[1])
	}
	if paras[1].LooksLikeHeading() {
		t.Fatalf("body paragraph detected as heading")
	}
	if paras[2].Text != "line one\nline two" || paras[2].Style.Align != "justify" {
		t.Fatalf("multiline: %+v", paras[2])
	}

	tables := got.Tables()
	if len(tables) != 1 || len(tables[0]) != 2 || tables[0][1][1] != "Lead" {
		t.Fatalf("tables: %+v", tables)
	}
	if len(got.Blocks) != 4 || got.Blocks[3].Table == nil {
		t.Fatalf("block order: %+v", got.Blocks)
	}
}

func TestReadHeadingStylesAndNumbering(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/><w:rPr><w:b/></w:rPr></w:pPr><w:r><w:t>Experience</w:t></w:r></w:p>
<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr><w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>Built</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve"> things</w:t></w:r></w:p>
<w:p><w:r><w:t>   </w:t></w:r></w:p>
</w:body></w:document>`
	got, err := Read(zipWith(t, documentPart, body))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	paras := got.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("paragraphs: %+v", paras)
	}
	if paras[0].StyleName != "Heading1" || !paras[0].LooksLikeHeading() || paras[0].Style.Bold {
		t.Fatalf("heading style: %+v", paras[0])
	}
	if paras[1].Text != "Built things" || !paras[1].Bullet || paras[1].Style.Bold {
		t.Fatalf("numbered paragraph: %+v", paras[1])
	}
}

func TestReadRejectsNonDocx(t *testing.T) {
	if _, err := Read([]byte("plain text")); err == nil {
		t.Fatalf("expected error for non-zip input")
	}
	if _, err := Read(zipWith(t, "word/other.xml", "<x/>")); err == nil {
		t.Fatalf("expected error for missing document part")
	}
}

func TestIsUpper(t *testing.T) {
	cases := map[string]bool{
		"SUMMARY":        true,
		"CORE SKILLS: 1": true,
		"Summary":        false,
		"2024":           false,
		"":               false,
	}
	for in, want := range cases {
		if got := IsUpper(in); got != want {
			t.Fatalf("IsUpper(%q)=%v want %v", in, got, want)
		}
	}
}

func zipWith(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
