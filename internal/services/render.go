package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/platform/docx"
)

const (
	sectionName            = "name"
	sectionContact         = "contact"
	sectionTables          = "tables"
	sectionCoreCompetences = "core_competencies"
)

var (
	defaultHeaderStyle = docx.Style{Font: "Arial", SizePt: 12, Bold: true, Color: "000000", Align: "left", SpaceBeforePt: 6, SpaceAfterPt: 6}
	defaultBodyStyle   = docx.Style{Font: "Arial", SizePt: 11, Color: "000000", Align: "left", SpaceBeforePt: 6, SpaceAfterPt: 6}
)

// documentStyles is the header and body formatting lifted from a template
// file. Later paragraphs win, so the styles reflect the template's last
// header and last body paragraph.
type documentStyles struct {
	Header         docx.Style
	Body           docx.Style
	HorizontalList bool
}

func stylesFromTemplate(file []byte) (documentStyles, error) {
	st := documentStyles{Header: defaultHeaderStyle, Body: defaultBodyStyle}
	if len(file) == 0 {
		return st, nil
	}
	doc, err := docx.Read(file)
	if err != nil {
		return st, err
	}
	for _, p := range doc.Paragraphs() {
		if p.LooksLikeHeading() {
			st.Header = withDefaults(p.Style, defaultHeaderStyle)
			continue
		}
		st.Body = withDefaults(p.Style, defaultBodyStyle)
		st.HorizontalList = strings.Contains(p.Text, "•") && strings.Count(p.Text, "\n") <= 1
	}
	return st, nil
}

// withDefaults fills the unset fields of s from def. Bold is taken as read.
func withDefaults(s, def docx.Style) docx.Style {
	if s.Font == "" {
		s.Font = def.Font
	}
	if s.SizePt == 0 {
		s.SizePt = def.SizePt
	}
	if s.Color == "" {
		s.Color = def.Color
	}
	if s.Align == "" {
		s.Align = def.Align
	}
	if s.SpaceBeforePt == 0 {
		s.SpaceBeforePt = def.SpaceBeforePt
	}
	if s.SpaceAfterPt == 0 {
		s.SpaceAfterPt = def.SpaceAfterPt
	}
	return s
}

// RenderDocument lays converted sections out as a .docx styled like the
// template file. The name and contact sections lead, centered; the rest
// follow in template order, then any extra keys alphabetically.
func RenderDocument(sections map[string]any, order []types.Section, templateFile []byte) ([]byte, error) {
	st, err := stylesFromTemplate(templateFile)
	if err != nil {
		return nil, fmt.Errorf("read template styles: %w", err)
	}

	var doc docx.Document
	if v, ok := sections[sectionName]; ok {
		s := st.Header
		s.SizePt += 2
		s.Align = "center"
		doc.AddParagraph(docx.Paragraph{Text: stringify(v), Style: s})
	}
	if v, ok := sections[sectionContact]; ok {
		s := st.Header
		s.Bold = false
		s.Align = "center"
		doc.AddParagraph(docx.Paragraph{Text: stringify(v), Style: s})
	}

	for _, key := range sectionKeys(sections, order) {
		if key == sectionName || key == sectionContact {
			continue
		}
		doc.AddParagraph(docx.Paragraph{Text: sectionTitle(key), Style: st.Header})
		addSectionBody(&doc, key, sections[key], st)
	}
	return docx.Build(&doc)
}

func addSectionBody(doc *docx.Document, key string, v any, st documentStyles) {
	if key == sectionTables {
		for _, t := range toTables(v) {
			doc.AddTable(t)
		}
		return
	}
	switch val := v.(type) {
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringify(item); s != "" {
				items = append(items, s)
			}
		}
		if key == sectionCoreCompetences && st.HorizontalList {
			doc.AddParagraph(docx.Paragraph{Text: strings.Join(items, " • "), Style: st.Body})
			return
		}
		for _, item := range items {
			doc.AddParagraph(docx.Paragraph{Text: item, Style: st.Body, Bullet: true})
		}
	default:
		if s := stringify(val); s != "" {
			doc.AddParagraph(docx.Paragraph{Text: s, Style: st.Body})
		}
	}
}

func sectionKeys(sections map[string]any, order []types.Section) []string {
	keys := make([]string, 0, len(sections))
	seen := make(map[string]bool, len(sections))
	for _, s := range order {
		if _, ok := sections[s.Key]; ok && !seen[s.Key] {
			seen[s.Key] = true
			keys = append(keys, s.Key)
		}
	}
	var rest []string
	for k := range sections {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func sectionTitle(key string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

func toTables(v any) []docx.Table {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []docx.Table
	for _, t := range list {
		rows, ok := t.([]any)
		if !ok {
			continue
		}
		var table docx.Table
		for _, r := range rows {
			cells, ok := r.([]any)
			if !ok {
				continue
			}
			row := make([]string, 0, len(cells))
			for _, c := range cells {
				row = append(row, stringify(c))
			}
			table = append(table, row)
		}
		out = append(out, table)
	}
	return out
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := stringify(val[k]); s != "" {
				parts = append(parts, sectionTitle(k)+": "+s)
			}
		}
		return strings.Join(parts, "\n")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
