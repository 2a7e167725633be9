// Package docx reads and writes the subset of WordprocessingML the converter
// needs: body paragraphs with their first-run formatting, and simple tables.
package docx

import (
	"strings"
	"unicode"
)

const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Style is the formatting of a paragraph's first run plus its paragraph
// properties. Zero values mean "not set".
type Style struct {
	Font          string  `json:"font,omitempty"`
	SizePt        float64 `json:"size_pt,omitempty"`
	Bold          bool    `json:"bold,omitempty"`
	Color         string  `json:"color,omitempty"` // RRGGBB
	Align         string  `json:"alignment,omitempty"`
	SpaceBeforePt float64 `json:"spacing_before_pt,omitempty"`
	SpaceAfterPt  float64 `json:"spacing_after_pt,omitempty"`
}

type Paragraph struct {
	Text      string
	StyleName string
	Style     Style
	Bullet    bool
}

type Table [][]string

// Block is either a paragraph or a table, kept in document order.
type Block struct {
	Paragraph *Paragraph
	Table     Table
}

type Document struct {
	Blocks []Block
}

func (d *Document) AddParagraph(p Paragraph) {
	d.Blocks = append(d.Blocks, Block{Paragraph: &p})
}

func (d *Document) AddTable(t Table) {
	if len(t) == 0 {
		return
	}
	d.Blocks = append(d.Blocks, Block{Table: t})
}

func (d *Document) Paragraphs() []Paragraph {
	out := make([]Paragraph, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		if b.Paragraph != nil {
			out = append(out, *b.Paragraph)
		}
	}
	return out
}

func (d *Document) Tables() []Table {
	var out []Table
	for _, b := range d.Blocks {
		if b.Table != nil {
			out = append(out, b.Table)
		}
	}
	return out
}

// LooksLikeHeading reports whether the paragraph is styled as a section
// header: a heading style, a bold or larger-than-12pt first run, or text
// that is entirely upper case.
func (p Paragraph) LooksLikeHeading() bool {
	if isHeadingStyle(p.StyleName) {
		return true
	}
	if p.Style.Bold || p.Style.SizePt > 12 {
		return true
	}
	return IsUpper(p.Text)
}

// IsUpper reports whether s has at least one cased letter and no lower-case
// letters.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func isHeadingStyle(style string) bool {
	style = strings.ToLower(strings.TrimSpace(style))
	if style == "" {
		return false
	}
	return strings.HasPrefix(style, "heading") || style == "title" || style == "subtitle"
}
