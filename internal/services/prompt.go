package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/promptdesk-backend/internal/data/repos"
	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

type PromptInput struct {
	ClientKey string
	Name      string
	Type      types.PromptType
	Content   string
}

// UpdatePromptInput identifies the prompt by its current name and type within
// the client scope; Name, Type and Content are the new values.
type UpdatePromptInput struct {
	ClientKey    string
	OriginalName string
	OriginalType types.PromptType
	Name         string
	Type         types.PromptType
	Content      string
}

type PromptService interface {
	ListPrompts(dbc dbctx.Context, clientKey string, kind types.PromptType) ([]*types.Prompt, error)
	CreatePrompt(dbc dbctx.Context, in PromptInput) (*types.Prompt, error)
	UpdatePrompt(dbc dbctx.Context, in UpdatePromptInput) (*types.Prompt, error)
}

type promptService struct {
	db           *gorm.DB
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	promptRepo   repos.PromptRepo
	templateRepo repos.TemplateRepo
}

func NewPromptService(
	db *gorm.DB,
	log *logger.Logger,
	clientRepo repos.ClientRepo,
	promptRepo repos.PromptRepo,
	templateRepo repos.TemplateRepo,
) PromptService {
	return &promptService{
		db:           db,
		log:          log.With("service", "PromptService"),
		clientRepo:   clientRepo,
		promptRepo:   promptRepo,
		templateRepo: templateRepo,
	}
}

func (ps *promptService) ListPrompts(dbc dbctx.Context, clientKey string, kind types.PromptType) ([]*types.Prompt, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("prompt type %q: %w", kind, pkgerrors.ErrInvalidArgument)
	}
	client, err := resolveClient(dbc, ps.clientRepo, userID, clientKey)
	if err != nil {
		return nil, err
	}
	return ps.promptRepo.ListVisible(dbc, userID, clientIDOf(client), kind)
}

func validatePrompt(name string, kind types.PromptType, content string) error {
	if name == "" || strings.TrimSpace(content) == "" {
		return fmt.Errorf("prompt name and content required: %w", pkgerrors.ErrInvalidArgument)
	}
	if name == types.CustomPromptName {
		return fmt.Errorf("prompt name %q is reserved: %w", name, pkgerrors.ErrInvalidArgument)
	}
	if !kind.Valid() {
		return fmt.Errorf("prompt type %q: %w", kind, pkgerrors.ErrInvalidArgument)
	}
	return nil
}

func (ps *promptService) CreatePrompt(dbc dbctx.Context, in PromptInput) (*types.Prompt, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if in.Type == "" {
		in.Type = types.PromptTypeTemplate
	}
	if err := validatePrompt(name, in.Type, in.Content); err != nil {
		return nil, err
	}

	var out *types.Prompt
	err = inTx(ps.db, dbc, func(inner dbctx.Context) error {
		client, err := resolveClient(inner, ps.clientRepo, userID, in.ClientKey)
		if err != nil {
			return err
		}
		existing, err := ps.promptRepo.GetInScope(inner, userID, clientIDOf(client), name, in.Type)
		if err != nil {
			return fmt.Errorf("check prompt: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("prompt %q: %w", name, pkgerrors.ErrConflict)
		}
		created, err := ps.promptRepo.Create(inner, []*types.Prompt{{
			ID:       uuid.New(),
			UserID:   userID,
			ClientID: clientIDOf(client),
			Name:     name,
			Type:     in.Type,
			Content:  in.Content,
		}})
		if err != nil {
			return fmt.Errorf("create prompt: %w", err)
		}
		out = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *promptService) UpdatePrompt(dbc dbctx.Context, in UpdatePromptInput) (*types.Prompt, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	origName := strings.TrimSpace(in.OriginalName)
	if in.OriginalType == "" {
		in.OriginalType = types.PromptTypeTemplate
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = origName
	}
	if in.Type == "" {
		in.Type = in.OriginalType
	}
	if origName == "" {
		return nil, fmt.Errorf("original prompt name required: %w", pkgerrors.ErrInvalidArgument)
	}
	if err := validatePrompt(name, in.Type, in.Content); err != nil {
		return nil, err
	}

	var out *types.Prompt
	err = inTx(ps.db, dbc, func(inner dbctx.Context) error {
		client, err := resolveClient(inner, ps.clientRepo, userID, in.ClientKey)
		if err != nil {
			return err
		}
		scope := clientIDOf(client)
		current, err := ps.promptRepo.GetInScope(inner, userID, scope, origName, in.OriginalType)
		if err != nil {
			return fmt.Errorf("lookup prompt: %w", err)
		}
		if current == nil {
			return fmt.Errorf("prompt %q: %w", origName, pkgerrors.ErrNotFound)
		}
		if name != current.Name || in.Type != current.Type {
			clash, err := ps.promptRepo.GetInScope(inner, userID, scope, name, in.Type)
			if err != nil {
				return fmt.Errorf("check prompt: %w", err)
			}
			if clash != nil {
				return fmt.Errorf("prompt %q: %w", name, pkgerrors.ErrConflict)
			}
		}
		current.Name = name
		current.Type = in.Type
		current.Content = in.Content
		if err := ps.promptRepo.Update(inner, current); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("prompt %q: %w", origName, pkgerrors.ErrNotFound)
			}
			return fmt.Errorf("update prompt: %w", err)
		}

		// Templates cache the sections of their prompt for listing.
		sections, err := encodeSections(in.Content)
		if err != nil {
			return err
		}
		n, err := ps.templateRepo.UpdateSectionsByPrompt(inner, userID, current.ID, sections)
		if err != nil {
			return fmt.Errorf("refresh template sections: %w", err)
		}
		if n > 0 {
			ps.log.Debug("Template sections refreshed", "prompt_id", current.ID, "templates", n)
		}
		out = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
