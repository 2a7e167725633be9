package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/docx"
)

const autoPromptSuffix = "_auto_prompt"

// fileSection is one header of a template file with the paragraphs under it.
type fileSection struct {
	Header         string
	Style          docx.Style
	HorizontalList bool
	Content        []string
}

// CreatePromptFromFile derives a template prompt from the template's stored
// .docx: every heading becomes a declared section carrying its formatting.
// When a model is configured it also writes a short overview of the document.
func (ts *templateService) CreatePromptFromFile(dbc dbctx.Context, templateID uuid.UUID) (*types.Prompt, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	t, err := ts.ownedTemplate(dbc, userID, templateID)
	if err != nil {
		return nil, err
	}
	if len(t.File) == 0 {
		return nil, fmt.Errorf("template %s has no file: %w", templateID, pkgerrors.ErrNotFound)
	}
	doc, err := docx.Read(t.File)
	if err != nil {
		return nil, fmt.Errorf("read template file: %v: %w", err, pkgerrors.ErrInvalidArgument)
	}
	sections := fileSections(doc)
	if len(sections) == 0 {
		return nil, fmt.Errorf("template file has no headings: %w", pkgerrors.ErrInvalidArgument)
	}

	overview := ""
	if ts.ai != nil {
		overview, err = ts.ai.GenerateText(dbc.Ctx, overviewSystemPrompt, documentOutline(sections))
		if err != nil {
			// The prompt is usable without an overview.
			ts.log.Warn("Template overview failed", "template_id", templateID, "error", err)
			overview = ""
		}
	}
	content := buildPromptFromFile(sections, overview)
	encoded, err := encodeSections(content)
	if err != nil {
		return nil, err
	}

	var out *types.Prompt
	err = inTx(ts.db, dbc, func(inner dbctx.Context) error {
		name := t.Name + autoPromptSuffix
		clash, err := ts.promptRepo.GetInScope(inner, userID, t.ClientID, name, types.PromptTypeTemplate)
		if err != nil {
			return fmt.Errorf("check prompt: %w", err)
		}
		if clash != nil {
			name = name + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		}
		created, err := ts.promptRepo.Create(inner, []*types.Prompt{{
			ID:       uuid.New(),
			UserID:   userID,
			ClientID: t.ClientID,
			Name:     name,
			Type:     types.PromptTypeTemplate,
			Content:  content,
		}})
		if err != nil {
			return fmt.Errorf("create prompt: %w", err)
		}
		out = created[0]
		if err := ts.templateRepo.SetTemplatePrompt(inner, templateID, out.ID, encoded); err != nil {
			return fmt.Errorf("link template prompt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ts.log.Info("Template prompt created from file", "template_id", templateID, "prompt", out.Name, "sections", len(sections))
	return out, nil
}

// CreateTemplateFile asks the model for a layout matching the template
// prompt and stores the rendered .docx as the template's file.
func (ts *templateService) CreateTemplateFile(dbc dbctx.Context, templateID uuid.UUID) (*types.TemplateSummary, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	summary, err := ts.templateRepo.GetSummary(dbc, userID, templateID)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	if summary == nil {
		return nil, fmt.Errorf("template %s: %w", templateID, pkgerrors.ErrNotFound)
	}
	if strings.TrimSpace(summary.TemplatePromptContent) == "" {
		return nil, fmt.Errorf("template %s has no template prompt: %w", templateID, pkgerrors.ErrInvalidArgument)
	}
	if ts.ai == nil {
		return nil, fmt.Errorf("file generation is not configured: %w", pkgerrors.ErrUpstream)
	}

	obj, err := ts.ai.GenerateJSON(dbc.Ctx, BuildLayoutSystemPrompt(summary.TemplatePromptContent), "Generate the .docx structure based on the template prompt.")
	if err != nil {
		ts.log.Error("Template layout failed", "template_id", templateID, "error", err)
		return nil, fmt.Errorf("generate layout: %v: %w", err, pkgerrors.ErrUpstream)
	}
	doc, err := layoutDocument(obj)
	if err != nil {
		return nil, err
	}
	data, err := docx.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("build template file: %w", err)
	}
	if err := ts.templateRepo.UpdateFile(dbc, templateID, summary.Name+".docx", data); err != nil {
		return nil, fmt.Errorf("store template file: %w", err)
	}
	ts.log.Info("Template file generated", "template_id", templateID, "bytes", len(data))
	return ts.templateRepo.GetSummary(dbc, userID, templateID)
}

func fileSections(doc *docx.Document) []fileSection {
	var out []fileSection
	for _, p := range doc.Paragraphs() {
		if p.LooksLikeHeading() {
			out = append(out, fileSection{
				Header:         p.Text,
				Style:          withDefaults(p.Style, defaultHeaderStyle),
				HorizontalList: strings.Contains(p.Text, "•") && strings.Count(p.Text, "\n") <= 1,
			})
			continue
		}
		if len(out) > 0 {
			last := &out[len(out)-1]
			last.Content = append(last.Content, p.Text)
		}
	}
	return out
}

func documentOutline(sections []fileSection) string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString(s.Header)
		b.WriteString("\n")
		for _, c := range s.Content {
			b.WriteString("  ")
			b.WriteString(c)
			b.WriteString("\n")
		}
	}
	return b.String()
}

const overviewSystemPrompt = "You describe document templates. Given the headings and sample text of a template, " +
	"write two or three sentences saying what kind of document it is and what each part is for. Plain text only."

// buildPromptFromFile writes the section declarations in the form
// ParseSections reads back.
func buildPromptFromFile(sections []fileSection, overview string) string {
	var b strings.Builder
	b.WriteString("This is a template prompt for generating a document with the following structure and styling:\n\n")
	if o := strings.TrimSpace(overview); o != "" {
		b.WriteString(o)
		b.WriteString("\n\n")
	}
	b.WriteString("The document should have the following sections, each with specific styling and semantic purposes:\n\n")
	for _, s := range sections {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s.Header)), " ", "_")
		r, g, bl := rgbFromHex(s.Style.Color)
		fmt.Fprintf(&b, "**Section: %s**\n", s.Header)
		fmt.Fprintf(&b, "- **Purpose**: This section represents %s content (e.g., if the section is 'Professional Experience', it should contain job roles, responsibilities, achievements).\n", key)
		b.WriteString("- **Style**:\n")
		fmt.Fprintf(&b, "  - Font: %s\n", s.Style.Font)
		fmt.Fprintf(&b, "  - Size: %spt\n", formatPt(s.Style.SizePt))
		fmt.Fprintf(&b, "  - Bold: %t\n", s.Style.Bold)
		fmt.Fprintf(&b, "  - Color: RGB(%d, %d, %d)\n", r, g, bl)
		fmt.Fprintf(&b, "  - Alignment: %s\n", s.Style.Align)
		fmt.Fprintf(&b, "  - Spacing Before: %spt\n", formatPt(s.Style.SpaceBeforePt))
		fmt.Fprintf(&b, "  - Spacing After: %spt\n", formatPt(s.Style.SpaceAfterPt))
		fmt.Fprintf(&b, "  - Horizontal List: %t\n", s.HorizontalList)
		placeholder := "Placeholder for relevant content"
		if len(s.Content) > 0 {
			placeholder = strings.Join(s.Content, ", ")
		}
		fmt.Fprintf(&b, "- **Content Placeholder**: %s\n\n", placeholder)
	}
	return b.String()
}

// BuildLayoutSystemPrompt asks for a JSON description of a .docx layout.
func BuildLayoutSystemPrompt(templatePrompt string) string {
	var b strings.Builder
	b.WriteString("You generate a JSON object describing a .docx file structure based on a template prompt. ")
	b.WriteString("Include sections, content placeholders and styling (font, size, bold, RGB color, alignment, spacing). ")
	b.WriteString("Use the prompt to infer the document's layout and what each section should contain.\n\n")
	b.WriteString("**Template Prompt**: ")
	b.WriteString(templatePrompt)
	b.WriteString("\n\n**Output Format**:\n")
	b.WriteString(`{"sections": [{"header": "Section Name", "content": ["Placeholder text"], "style": {"font": "Font Name", "size_pt": 12, "bold": true, `)
	b.WriteString(`"color_rgb": [0, 0, 0], "alignment": "left|center|right|justify", "spacing_before_pt": 6, "spacing_after_pt": 6, "is_horizontal_list": false}}]}`)
	b.WriteString("\n")
	return b.String()
}

func layoutDocument(obj map[string]any) (*docx.Document, error) {
	raw, ok := obj["sections"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("model layout has no sections: %w", pkgerrors.ErrUpstream)
	}
	var doc docx.Document
	for _, item := range raw {
		sec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		header := stringify(sec["header"])
		if header == "" {
			continue
		}
		styleObj, _ := sec["style"].(map[string]any)
		headerStyle := layoutStyle(styleObj, 12)
		doc.AddParagraph(docx.Paragraph{Text: header, Style: headerStyle})

		var lines []string
		if list, ok := sec["content"].([]any); ok {
			for _, c := range list {
				if s := stringify(c); s != "" {
					lines = append(lines, s)
				}
			}
		}
		bodyStyle := layoutStyle(styleObj, 11)
		if horizontal, _ := styleObj["is_horizontal_list"].(bool); horizontal && len(lines) > 0 {
			doc.AddParagraph(docx.Paragraph{Text: strings.Join(lines, " • "), Style: bodyStyle})
			continue
		}
		for _, line := range lines {
			doc.AddParagraph(docx.Paragraph{Text: line, Style: bodyStyle, Bullet: strings.HasPrefix(line, "•")})
		}
	}
	if len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("model layout has no usable sections: %w", pkgerrors.ErrUpstream)
	}
	return &doc, nil
}

func layoutStyle(obj map[string]any, defaultSize float64) docx.Style {
	s := docx.Style{
		Font:          "Arial",
		SizePt:        defaultSize,
		Color:         "000000",
		Align:         "left",
		SpaceBeforePt: 6,
		SpaceAfterPt:  6,
	}
	if obj == nil {
		return s
	}
	if v, ok := obj["font"].(string); ok && v != "" {
		s.Font = v
	}
	if v, ok := obj["size_pt"].(float64); ok && v > 0 {
		s.SizePt = v
	}
	if v, ok := obj["bold"].(bool); ok {
		s.Bold = v
	}
	if v, ok := obj["color_rgb"].([]any); ok {
		s.Color = hexFromRGB(v)
	}
	if v, ok := obj["alignment"].(string); ok && v != "" {
		s.Align = strings.ToLower(v)
	}
	if v, ok := obj["spacing_before_pt"].(float64); ok {
		s.SpaceBeforePt = v
	}
	if v, ok := obj["spacing_after_pt"].(float64); ok {
		s.SpaceAfterPt = v
	}
	return s
}

func hexFromRGB(v []any) string {
	if len(v) != 3 {
		return "000000"
	}
	var out [3]int
	for i, c := range v {
		n, ok := c.(float64)
		if !ok || n < 0 || n > 255 {
			return "000000"
		}
		out[i] = int(n)
	}
	return fmt.Sprintf("%02X%02X%02X", out[0], out[1], out[2])
}

func rgbFromHex(hex string) (int, int, int) {
	n, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(hex, "#")) != 6 {
		return 0, 0, 0
	}
	return int(n >> 16 & 0xFF), int(n >> 8 & 0xFF), int(n & 0xFF)
}

func formatPt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
