package services

import (
	"fmt"
	"strings"

	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/docx"
)

const referencesSection = "References"

var knownHeaders = []string{
	"introduction", "summary", "experience", "education", "affiliations", "skills",
	"competencies", "results", "conclusion", "profile", "contact", "name", "career experience",
}

// SourceContent is raw source material split into tagged lines before it is
// handed to the converter. Text lines carry a "[section] " prefix once a
// header has been seen; everything after a References header is kept apart.
type SourceContent struct {
	Text         []string
	Tables       []docx.Table
	References   []string
	SectionOrder []string
}

// ProcessText splits pasted text into sections. Short lines count as headers.
func ProcessText(text string) *SourceContent {
	sc := &SourceContent{}
	current := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		isHeader := docx.IsUpper(line) || len(strings.Fields(line)) < 5 || hasKnownHeader(line)
		current = sc.add(line, current, isHeader)
	}
	return sc
}

// ProcessDocx splits a .docx source into sections using first-run formatting
// to find headers, and keeps its tables.
func ProcessDocx(data []byte) (*SourceContent, error) {
	doc, err := docx.Read(data)
	if err != nil {
		return nil, fmt.Errorf("read source document: %v: %w", err, pkgerrors.ErrInvalidArgument)
	}
	sc := &SourceContent{}
	current := ""
	for _, p := range doc.Paragraphs() {
		current = sc.add(p.Text, current, p.LooksLikeHeading() || hasKnownHeader(p.Text))
	}
	sc.Tables = doc.Tables()
	return sc, nil
}

func (sc *SourceContent) add(line, current string, isHeader bool) string {
	if strings.HasPrefix(strings.ToLower(line), "references") {
		sc.SectionOrder = append(sc.SectionOrder, referencesSection)
		return referencesSection
	}
	if current == referencesSection {
		sc.References = append(sc.References, line)
		return current
	}
	if isHeader {
		current = line
		sc.SectionOrder = append(sc.SectionOrder, current)
	}
	if current != "" {
		line = "[" + current + "] " + line
	}
	sc.Text = append(sc.Text, line)
	return current
}

// Render flattens the content into the user message sent to the model.
func (sc *SourceContent) Render() string {
	var b strings.Builder
	b.WriteString(strings.Join(sc.Text, "\n"))
	for i, t := range sc.Tables {
		fmt.Fprintf(&b, "\n\n[Table %d]\n", i+1)
		for _, row := range t {
			b.WriteString(strings.Join(row, " | "))
			b.WriteString("\n")
		}
	}
	if len(sc.References) > 0 {
		b.WriteString("\n\n[References]\n")
		b.WriteString(strings.Join(sc.References, "\n"))
	}
	return strings.TrimSpace(b.String())
}

func (sc *SourceContent) Empty() bool {
	return len(sc.Text) == 0 && len(sc.Tables) == 0 && len(sc.References) == 0
}

func hasKnownHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, h := range knownHeaders {
		if strings.HasPrefix(lower, h) {
			return true
		}
	}
	return false
}
