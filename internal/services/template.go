package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/promptdesk-backend/internal/data/repos"
	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/docx"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
	"github.com/yungbote/promptdesk-backend/internal/platform/openai"
)

// MaxTemplateFileBytes bounds template uploads.
const MaxTemplateFileBytes = 10 << 20

type CreateTemplateInput struct {
	ClientKey          string
	Name               string
	TemplatePromptID   uuid.UUID
	ConversionPromptID *uuid.UUID
}

type TemplateService interface {
	ListTemplates(dbc dbctx.Context, clientKey string) ([]*types.TemplateSummary, error)
	CreateTemplate(dbc dbctx.Context, in CreateTemplateInput) (*types.TemplateSummary, error)
	UploadFile(dbc dbctx.Context, templateID uuid.UUID, fileName string, data []byte) error
	DownloadFile(dbc dbctx.Context, templateID uuid.UUID) (string, []byte, error)
	DeleteTemplate(dbc dbctx.Context, templateID uuid.UUID) error
	CreatePromptFromFile(dbc dbctx.Context, templateID uuid.UUID) (*types.Prompt, error)
	CreateTemplateFile(dbc dbctx.Context, templateID uuid.UUID) (*types.TemplateSummary, error)
}

type templateService struct {
	db           *gorm.DB
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	promptRepo   repos.PromptRepo
	templateRepo repos.TemplateRepo
	ai           openai.Client
}

// NewTemplateService wires the template flows. ai may be nil; the flows that
// need a model then fail with ErrUpstream.
func NewTemplateService(
	db *gorm.DB,
	log *logger.Logger,
	clientRepo repos.ClientRepo,
	promptRepo repos.PromptRepo,
	templateRepo repos.TemplateRepo,
	ai openai.Client,
) TemplateService {
	return &templateService{
		db:           db,
		log:          log.With("service", "TemplateService"),
		clientRepo:   clientRepo,
		promptRepo:   promptRepo,
		templateRepo: templateRepo,
		ai:           ai,
	}
}

func (ts *templateService) ListTemplates(dbc dbctx.Context, clientKey string) ([]*types.TemplateSummary, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	client, err := resolveClient(dbc, ts.clientRepo, userID, clientKey)
	if err != nil {
		return nil, err
	}
	return ts.templateRepo.ListSummaries(dbc, userID, clientIDOf(client))
}

func (ts *templateService) CreateTemplate(dbc dbctx.Context, in CreateTemplateInput) (*types.TemplateSummary, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("template name required: %w", pkgerrors.ErrInvalidArgument)
	}
	if in.TemplatePromptID == uuid.Nil {
		return nil, fmt.Errorf("template_prompt_id required: %w", pkgerrors.ErrInvalidArgument)
	}

	var templateID uuid.UUID
	err = inTx(ts.db, dbc, func(inner dbctx.Context) error {
		client, err := resolveClient(inner, ts.clientRepo, userID, in.ClientKey)
		if err != nil {
			return err
		}
		scope := clientIDOf(client)
		exists, err := ts.templateRepo.ExistsInScope(inner, userID, scope, name)
		if err != nil {
			return fmt.Errorf("check template: %w", err)
		}
		if exists {
			return fmt.Errorf("template %q: %w", name, pkgerrors.ErrConflict)
		}

		ids := []uuid.UUID{in.TemplatePromptID}
		if in.ConversionPromptID != nil {
			ids = append(ids, *in.ConversionPromptID)
		}
		prompts, err := ts.promptRepo.GetByIDs(inner, userID, ids)
		if err != nil {
			return fmt.Errorf("load prompts: %w", err)
		}
		byID := make(map[uuid.UUID]*types.Prompt, len(prompts))
		for _, p := range prompts {
			byID[p.ID] = p
		}
		tp := byID[in.TemplatePromptID]
		if tp == nil || tp.Type != types.PromptTypeTemplate {
			return fmt.Errorf("template prompt %s: %w", in.TemplatePromptID, pkgerrors.ErrInvalidArgument)
		}
		if in.ConversionPromptID != nil {
			cp := byID[*in.ConversionPromptID]
			if cp == nil || cp.Type != types.PromptTypeConversion {
				return fmt.Errorf("conversion prompt %s: %w", *in.ConversionPromptID, pkgerrors.ErrInvalidArgument)
			}
		}

		sections, err := encodeSections(tp.Content)
		if err != nil {
			return err
		}
		created, err := ts.templateRepo.Create(inner, []*types.Template{{
			ID:               uuid.New(),
			UserID:           userID,
			ClientID:         scope,
			Name:             name,
			TemplatePromptID: &tp.ID,
			Sections:         sections,
		}})
		if err != nil {
			return fmt.Errorf("create template: %w", err)
		}
		templateID = created[0].ID

		if in.ConversionPromptID != nil {
			if err := ts.templateRepo.SetConversion(inner, templateID, *in.ConversionPromptID); err != nil {
				return fmt.Errorf("link conversion prompt: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ts.templateRepo.GetSummary(dbc, userID, templateID)
}

func (ts *templateService) UploadFile(dbc dbctx.Context, templateID uuid.UUID, fileName string, data []byte) error {
	userID, err := requireUser(dbc)
	if err != nil {
		return err
	}
	fileName = filepath.Base(strings.TrimSpace(fileName))
	if !strings.EqualFold(filepath.Ext(fileName), ".docx") {
		return fmt.Errorf("only .docx templates are accepted: %w", pkgerrors.ErrInvalidArgument)
	}
	if len(data) == 0 {
		return fmt.Errorf("empty file: %w", pkgerrors.ErrInvalidArgument)
	}
	if len(data) > MaxTemplateFileBytes {
		return fmt.Errorf("file exceeds %d bytes: %w", MaxTemplateFileBytes, pkgerrors.ErrInvalidArgument)
	}
	if _, err := docx.Read(data); err != nil {
		return fmt.Errorf("not a readable .docx: %v: %w", err, pkgerrors.ErrInvalidArgument)
	}
	if _, err := ts.ownedTemplate(dbc, userID, templateID); err != nil {
		return err
	}
	if err := ts.templateRepo.UpdateFile(dbc, templateID, fileName, data); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("template %s: %w", templateID, pkgerrors.ErrNotFound)
		}
		return fmt.Errorf("store template file: %w", err)
	}
	ts.log.Info("Template file stored", "template_id", templateID, "bytes", len(data))
	return nil
}

func (ts *templateService) DownloadFile(dbc dbctx.Context, templateID uuid.UUID) (string, []byte, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return "", nil, err
	}
	t, err := ts.ownedTemplate(dbc, userID, templateID)
	if err != nil {
		return "", nil, err
	}
	if len(t.File) == 0 {
		return "", nil, fmt.Errorf("template %s has no file: %w", templateID, pkgerrors.ErrNotFound)
	}
	name := t.FileName
	if name == "" {
		name = t.Name + ".docx"
	}
	return name, t.File, nil
}

func (ts *templateService) DeleteTemplate(dbc dbctx.Context, templateID uuid.UUID) error {
	userID, err := requireUser(dbc)
	if err != nil {
		return err
	}
	return inTx(ts.db, dbc, func(inner dbctx.Context) error {
		if err := ts.templateRepo.Delete(inner, userID, templateID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("template %s: %w", templateID, pkgerrors.ErrNotFound)
			}
			return fmt.Errorf("delete template: %w", err)
		}
		return nil
	})
}

func (ts *templateService) ownedTemplate(dbc dbctx.Context, userID, templateID uuid.UUID) (*types.Template, error) {
	found, err := ts.templateRepo.GetByIDs(dbc, userID, []uuid.UUID{templateID})
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("template %s: %w", templateID, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}
