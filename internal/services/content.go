package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/promptdesk-backend/internal/data/repos"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

// LookupInput carries the form fields of a load_client request. Exactly one of
// PromptName, TemplateName and TemplateID must be set.
type LookupInput struct {
	ClientKey    string
	PromptName   string
	TemplateName string
	TemplateID   string
}

// LookupResult is the load_client response body. Nil fields are omitted, so a
// miss encodes as {}.
type LookupResult struct {
	Prompt     *string `json:"prompt,omitempty"`
	PromptName *string `json:"prompt_name,omitempty"`
	Conversion *string `json:"conversion,omitempty"`
}

type ContentService interface {
	Lookup(dbc dbctx.Context, in LookupInput) (*LookupResult, error)
}

type contentService struct {
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	promptRepo   repos.PromptRepo
	templateRepo repos.TemplateRepo
}

func NewContentService(log *logger.Logger, clientRepo repos.ClientRepo, promptRepo repos.PromptRepo, templateRepo repos.TemplateRepo) ContentService {
	return &contentService{
		log:          log.With("service", "ContentService"),
		clientRepo:   clientRepo,
		promptRepo:   promptRepo,
		templateRepo: templateRepo,
	}
}

func (cs *contentService) Lookup(dbc dbctx.Context, in LookupInput) (*LookupResult, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	in.PromptName = strings.TrimSpace(in.PromptName)
	in.TemplateName = strings.TrimSpace(in.TemplateName)
	in.TemplateID = strings.TrimSpace(in.TemplateID)

	selectors := 0
	for _, v := range []string{in.PromptName, in.TemplateName, in.TemplateID} {
		if v != "" {
			selectors++
		}
	}
	if selectors != 1 {
		return nil, fmt.Errorf("exactly one of prompt_name, template_name, template_id required: %w", pkgerrors.ErrInvalidArgument)
	}

	var templateID uuid.UUID
	if in.TemplateID != "" {
		if templateID, err = uuid.Parse(in.TemplateID); err != nil {
			return nil, fmt.Errorf("template_id %q: %w", in.TemplateID, pkgerrors.ErrInvalidArgument)
		}
	}

	client, err := resolveClient(dbc, cs.clientRepo, userID, in.ClientKey)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		cs.log.Debug("Lookup for unknown client", "client_key", in.ClientKey)
		return &LookupResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case in.PromptName != "":
		found, err := cs.promptRepo.FindVisibleByName(dbc, userID, clientIDOf(client), in.PromptName)
		if err != nil {
			return nil, fmt.Errorf("lookup prompt: %w", err)
		}
		if len(found) == 0 {
			return &LookupResult{}, nil
		}
		p := found[0]
		return &LookupResult{Prompt: &p.Content, PromptName: &p.Name}, nil

	case in.TemplateName != "":
		found, err := cs.templateRepo.FindVisibleByName(dbc, userID, clientIDOf(client), in.TemplateName)
		if err != nil {
			return nil, fmt.Errorf("lookup template: %w", err)
		}
		if len(found) == 0 || found[0].TemplatePromptID == nil {
			return &LookupResult{}, nil
		}
		prompts, err := cs.promptRepo.GetByIDs(dbc, userID, []uuid.UUID{*found[0].TemplatePromptID})
		if err != nil {
			return nil, fmt.Errorf("load template prompt: %w", err)
		}
		if len(prompts) == 0 {
			return &LookupResult{}, nil
		}
		p := prompts[0]
		return &LookupResult{Prompt: &p.Content, PromptName: &p.Name}, nil

	default:
		summary, err := cs.templateRepo.GetSummary(dbc, userID, templateID)
		if err != nil {
			return nil, fmt.Errorf("lookup template: %w", err)
		}
		out := &LookupResult{}
		if summary == nil {
			return out, nil
		}
		if summary.TemplatePromptID != nil {
			out.Prompt = &summary.TemplatePromptContent
		}
		if summary.ConversionPromptID != nil {
			out.Conversion = &summary.ConversionPromptContent
		}
		return out, nil
	}
}
