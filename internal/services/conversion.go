package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/promptdesk-backend/internal/data/repos"
	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
	"github.com/yungbote/promptdesk-backend/internal/platform/openai"
)

// MaxSourceFileBytes bounds uploaded .docx sources.
const MaxSourceFileBytes = 10 << 20

// ConvertInput carries either pasted SourceText or an uploaded .docx in
// SourceFile; the file wins when both are set.
type ConvertInput struct {
	TemplateID     uuid.UUID
	SourceText     string
	SourceFile     []byte
	SourceFileName string
	// ConversionPrompt overrides the template's linked conversion prompt when set.
	ConversionPrompt *string
}

type ConversionResult struct {
	Sections map[string]any `json:"sections"`
	// MissingSections lists section keys declared by the template prompt that
	// the model did not return.
	MissingSections []string `json:"missing_sections,omitempty"`
}

type ConversionService interface {
	Convert(dbc dbctx.Context, in ConvertInput) (*ConversionResult, error)
	// ConvertToDocx converts and lays the result out in the template's styles.
	ConvertToDocx(dbc dbctx.Context, in ConvertInput) ([]byte, error)
}

type conversionService struct {
	log          *logger.Logger
	templateRepo repos.TemplateRepo
	ai           openai.Client
}

func NewConversionService(log *logger.Logger, templateRepo repos.TemplateRepo, ai openai.Client) ConversionService {
	return &conversionService{
		log:          log.With("service", "ConversionService"),
		templateRepo: templateRepo,
		ai:           ai,
	}
}

func (cs *conversionService) Convert(dbc dbctx.Context, in ConvertInput) (*ConversionResult, error) {
	out, _, err := cs.convert(dbc, in)
	return out, err
}

func (cs *conversionService) ConvertToDocx(dbc dbctx.Context, in ConvertInput) ([]byte, error) {
	out, summary, err := cs.convert(dbc, in)
	if err != nil {
		return nil, err
	}
	userID, _ := requireUser(dbc)
	found, err := cs.templateRepo.GetByIDs(dbc, userID, []uuid.UUID{in.TemplateID})
	if err != nil {
		return nil, fmt.Errorf("load template file: %w", err)
	}
	var file []byte
	if len(found) > 0 {
		file = found[0].File
	}
	if len(file) == 0 {
		cs.log.Debug("Template has no file, using default styles", "template_id", in.TemplateID)
	}
	data, err := RenderDocument(out.Sections, ParseSections(summary.TemplatePromptContent), file)
	if err != nil {
		return nil, fmt.Errorf("render document: %v: %w", err, pkgerrors.ErrInvalidArgument)
	}
	return data, nil
}

func (cs *conversionService) convert(dbc dbctx.Context, in ConvertInput) (*ConversionResult, *types.TemplateSummary, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, nil, err
	}
	source, err := sourceContent(in)
	if err != nil {
		return nil, nil, err
	}
	if cs.ai == nil {
		return nil, nil, fmt.Errorf("conversion is not configured: %w", pkgerrors.ErrUpstream)
	}

	summary, err := cs.templateRepo.GetSummary(dbc, userID, in.TemplateID)
	if err != nil {
		return nil, nil, fmt.Errorf("load template: %w", err)
	}
	if summary == nil {
		return nil, nil, fmt.Errorf("template %s: %w", in.TemplateID, pkgerrors.ErrNotFound)
	}
	if summary.TemplatePromptID == nil || strings.TrimSpace(summary.TemplatePromptContent) == "" {
		return nil, nil, fmt.Errorf("template %s has no template prompt: %w", in.TemplateID, pkgerrors.ErrInvalidArgument)
	}

	conversion := summary.ConversionPromptContent
	if in.ConversionPrompt != nil {
		conversion = *in.ConversionPrompt
	}

	obj, err := cs.ai.GenerateJSON(dbc.Ctx, BuildConversionSystemPrompt(summary.TemplatePromptContent, conversion), source.Render())
	if err != nil {
		cs.log.Error("Conversion failed", "template_id", in.TemplateID, "error", err)
		return nil, nil, fmt.Errorf("convert content: %v: %w", err, pkgerrors.ErrUpstream)
	}
	sections, ok := obj["sections"].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("model output has no sections object: %w", pkgerrors.ErrUpstream)
	}

	out := &ConversionResult{Sections: sections}
	for _, s := range ParseSections(summary.TemplatePromptContent) {
		if _, ok := sections[s.Key]; !ok {
			out.MissingSections = append(out.MissingSections, s.Key)
		}
	}
	if len(out.MissingSections) > 0 {
		cs.log.Warn("Converted content is missing sections", "template_id", in.TemplateID, "missing", out.MissingSections)
	}
	return out, summary, nil
}

func sourceContent(in ConvertInput) (*SourceContent, error) {
	if len(in.SourceFile) > 0 {
		if !strings.EqualFold(filepath.Ext(in.SourceFileName), ".docx") {
			return nil, fmt.Errorf("only .docx source files are accepted: %w", pkgerrors.ErrInvalidArgument)
		}
		if len(in.SourceFile) > MaxSourceFileBytes {
			return nil, fmt.Errorf("source file exceeds %d bytes: %w", MaxSourceFileBytes, pkgerrors.ErrInvalidArgument)
		}
		sc, err := ProcessDocx(in.SourceFile)
		if err != nil {
			return nil, err
		}
		if sc.Empty() {
			return nil, fmt.Errorf("source file has no text: %w", pkgerrors.ErrInvalidArgument)
		}
		return sc, nil
	}
	if strings.TrimSpace(in.SourceText) == "" {
		return nil, fmt.Errorf("source_text or source_file required: %w", pkgerrors.ErrInvalidArgument)
	}
	return ProcessText(in.SourceText), nil
}

// BuildConversionSystemPrompt assembles the system prompt: structure from the
// template prompt first, then the optional tone/brevity instructions, then the
// required output shape.
func BuildConversionSystemPrompt(templatePrompt, conversionPrompt string) string {
	var b strings.Builder
	b.WriteString("You are an assistant that converts raw content into a structured JSON document ")
	b.WriteString("based on a template prompt, then applies conversion instructions to the wording.\n\n")
	b.WriteString("**Step 1: Structure the content using the template prompt**\n")
	b.WriteString("The template prompt defines the sections and their meaning:\n\n")
	b.WriteString("**Template Prompt**:\n")
	b.WriteString(templatePrompt)
	b.WriteString("\n\n")
	b.WriteString("**Step 2: Apply conversion instructions**\n")
	b.WriteString("Conversion instructions change tone, brevity or wording only. They never change document styling.\n")
	if strings.TrimSpace(conversionPrompt) != "" {
		b.WriteString("\n**Conversion Instructions**:\n")
		b.WriteString(conversionPrompt)
		b.WriteString("\n\n")
	} else {
		b.WriteString("No conversion instructions were provided. Keep the structured content as is.\n\n")
	}
	b.WriteString("**Output Format**:\n")
	b.WriteString(`Return a JSON object of the form {"sections": {"<section_key>": <string or array of strings>}}, `)
	b.WriteString("using the section keys declared by the template prompt. Return only the JSON object.\n")
	return b.String()
}
