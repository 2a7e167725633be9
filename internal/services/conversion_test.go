package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/docx"
)

type mockAI struct {
	mock.Mock
}

func (m *mockAI) GenerateJSON(ctx context.Context, system string, user string) (map[string]any, error) {
	args := m.Called(ctx, system, user)
	obj, _ := args.Get(0).(map[string]any)
	return obj, args.Error(1)
}

func (m *mockAI) GenerateText(ctx context.Context, system string, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

func TestConvert(t *testing.T) {
	f := newFixture(t)
	dbc := f.dbc()
	tp, err := f.promptService().CreatePrompt(dbc, PromptInput{Name: "Letter", Content: letterPrompt})
	require.NoError(t, err)
	cp, err := f.promptService().CreatePrompt(dbc, PromptInput{Name: "Brief", Type: types.PromptTypeConversion, Content: "be brief"})
	require.NoError(t, err)
	tmpl, err := f.templateService().CreateTemplate(dbc, CreateTemplateInput{Name: "Letter", TemplatePromptID: tp.ID, ConversionPromptID: &cp.ID})
	require.NoError(t, err)

	ai := &mockAI{}
	ai.On("GenerateJSON", mock.Anything, mock.MatchedBy(func(system string) bool {
		return strings.Contains(system, letterPrompt) && strings.Contains(system, "be brief")
	}), "[INTRODUCTION] INTRODUCTION\n[INTRODUCTION] I am writing to follow up on our meeting.").
		Return(map[string]any{"sections": map[string]any{"introduction": "Dear reader"}}, nil).
		Once()

	svc := NewConversionService(f.log, f.templates, ai)
	out, err := svc.Convert(dbc, ConvertInput{
		TemplateID: tmpl.ID,
		SourceText: "INTRODUCTION\n\n  I am writing to follow up on our meeting.  \n",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear reader", out.Sections["introduction"])
	assert.Equal(t, []string{"body"}, out.MissingSections)
	ai.AssertExpectations(t)
}

func TestConvertOverridesAndFailures(t *testing.T) {
	f := newFixture(t)
	dbc := f.dbc()
	tp, err := f.promptService().CreatePrompt(dbc, PromptInput{Name: "Letter", Content: letterPrompt})
	require.NoError(t, err)
	tmpl, err := f.templateService().CreateTemplate(dbc, CreateTemplateInput{Name: "Letter", TemplatePromptID: tp.ID})
	require.NoError(t, err)

	ai := &mockAI{}
	ai.On("GenerateJSON", mock.Anything, mock.MatchedBy(func(system string) bool {
		return strings.Contains(system, "formal tone")
	}), "[text] text").Return(nil, errors.New("rate limited")).Once()
	ai.On("GenerateJSON", mock.Anything, mock.Anything, "[shape] shape").Return(map[string]any{"oops": true}, nil).Once()

	svc := NewConversionService(f.log, f.templates, ai)

	_, err = svc.Convert(dbc, ConvertInput{TemplateID: tmpl.ID, SourceText: "text", ConversionPrompt: strp("formal tone")})
	assert.True(t, errors.Is(err, pkgerrors.ErrUpstream), "llm failure: %v", err)

	_, err = svc.Convert(dbc, ConvertInput{TemplateID: tmpl.ID, SourceText: "shape"})
	assert.True(t, errors.Is(err, pkgerrors.ErrUpstream), "bad shape: %v", err)

	_, err = svc.Convert(dbc, ConvertInput{TemplateID: tmpl.ID, SourceText: " "})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "empty source: %v", err)

	unconfigured := NewConversionService(f.log, f.templates, nil)
	_, err = unconfigured.Convert(dbc, ConvertInput{TemplateID: tmpl.ID, SourceText: "x"})
	assert.True(t, errors.Is(err, pkgerrors.ErrUpstream))
	ai.AssertExpectations(t)
}

func TestConvertDocxSourceToDocx(t *testing.T) {
	f := newFixture(t)
	dbc := f.dbc()
	tp, err := f.promptService().CreatePrompt(dbc, PromptInput{Name: "Letter", Content: letterPrompt})
	require.NoError(t, err)
	tmpl, err := f.templateService().CreateTemplate(dbc, CreateTemplateInput{Name: "Letter", TemplatePromptID: tp.ID})
	require.NoError(t, err)
	require.NoError(t, f.templateService().UploadFile(dbc, tmpl.ID, "letter.docx", docxOf(t,
		docx.Paragraph{Text: "Heading", Style: docx.Style{Font: "Georgia", SizePt: 14, Bold: true}},
		docx.Paragraph{Text: "body copy", Style: docx.Style{Font: "Garamond", SizePt: 10}},
	)))

	var source docx.Document
	source.AddParagraph(docx.Paragraph{Text: "Introduction", Style: docx.Style{Bold: true}})
	source.AddParagraph(docx.Paragraph{Text: "Thanks for the time yesterday and the notes."})
	source.AddTable(docx.Table{{"Q1", "Q2"}})
	sourceFile, err := docx.Build(&source)
	require.NoError(t, err)

	ai := &mockAI{}
	ai.On("GenerateJSON", mock.Anything, mock.Anything, mock.MatchedBy(func(user string) bool {
		return strings.Contains(user, "[Introduction] Thanks for the time yesterday and the notes.") &&
			strings.Contains(user, "[Table 1]\nQ1 | Q2")
	})).Return(map[string]any{"sections": map[string]any{
		"body":         []any{"First point", "Second point"},
		"introduction": "Dear reader",
		"name":         "Jane Doe",
	}}, nil).Once()

	svc := NewConversionService(f.log, f.templates, ai)
	data, err := svc.ConvertToDocx(dbc, ConvertInput{
		TemplateID:     tmpl.ID,
		SourceText:     "ignored when a file is present",
		SourceFile:     sourceFile,
		SourceFileName: "notes.docx",
	})
	require.NoError(t, err)

	out, err := docx.Read(data)
	require.NoError(t, err)
	var texts []string
	for _, p := range out.Paragraphs() {
		texts = append(texts, p.Text)
	}
	assert.Equal(t, []string{"Jane Doe", "Introduction", "Dear reader", "Body", "• First point", "• Second point"}, texts)
	paras := out.Paragraphs()
	assert.Equal(t, docx.Style{Font: "Georgia", SizePt: 16, Bold: true, Color: "000000", Align: "center", SpaceBeforePt: 6, SpaceAfterPt: 6}, paras[0].Style)
	assert.Equal(t, "Garamond", paras[2].Style.Font)
	assert.Equal(t, float64(10), paras[2].Style.SizePt)
	ai.AssertExpectations(t)

	_, err = svc.Convert(dbc, ConvertInput{TemplateID: tmpl.ID, SourceFile: sourceFile, SourceFileName: "notes.pdf"})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "non-docx source: %v", err)
	_, err = svc.Convert(dbc, ConvertInput{TemplateID: tmpl.ID, SourceFile: []byte("garbage"), SourceFileName: "notes.docx"})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "unreadable source: %v", err)
}

func TestRenderDocumentDefaults(t *testing.T) {
	data, err := RenderDocument(map[string]any{
		"tables":            []any{[]any{[]any{"a", "b"}, []any{"c", 4.0}}},
		"core_competencies": []any{"Go", "SQL"},
		"summary":           "Short.",
		"contact":           "jane@example.com",
	}, []types.Section{{Name: "Summary", Key: "summary"}}, nil)
	require.NoError(t, err)

	out, err := docx.Read(data)
	require.NoError(t, err)
	var texts []string
	for _, p := range out.Paragraphs() {
		texts = append(texts, p.Text)
	}
	assert.Equal(t, []string{"jane@example.com", "Summary", "Short.", "Core Competencies", "• Go", "• SQL", "Tables"}, texts)
	assert.False(t, out.Paragraphs()[0].Style.Bold)
	require.Len(t, out.Tables(), 1)
	assert.Equal(t, docx.Table{{"a", "b"}, {"c", "4"}}, out.Tables()[0])
}

func TestBuildConversionSystemPrompt(t *testing.T) {
	with := BuildConversionSystemPrompt("TP", "CP")
	assert.Contains(t, with, "**Template Prompt**:\nTP")
	assert.Contains(t, with, "**Conversion Instructions**:\nCP")

	without := BuildConversionSystemPrompt("TP", "")
	assert.NotContains(t, without, "**Conversion Instructions**")
	assert.Contains(t, without, "No conversion instructions were provided")
}
