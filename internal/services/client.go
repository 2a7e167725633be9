package services

import (
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

type CreateClientInput struct {
	ClientKey     string
	Name          string
	PromptName    string
	PromptContent string
}

type ClientService interface {
	ListClients(dbc dbctx.Context) ([]*types.Client, error)
	// CreateClient adds a client and, when PromptName and PromptContent are both
	// set, a template prompt scoped to it. The returned prompt is nil otherwise.
	CreateClient(dbc dbctx.Context, in CreateClientInput) (*types.Client, *types.Prompt, error)
}

type clientService struct {
	db         *gorm.DB
	log        *logger.Logger
	clientRepo repos.ClientRepo
	promptRepo repos.PromptRepo
}

func NewClientService(db *gorm.DB, log *logger.Logger, clientRepo repos.ClientRepo, promptRepo repos.PromptRepo) ClientService {
	return &clientService{
		db:         db,
		log:        log.With("service", "ClientService"),
		clientRepo: clientRepo,
		promptRepo: promptRepo,
	}
}

func (cs *clientService) ListClients(dbc dbctx.Context) ([]*types.Client, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	return cs.clientRepo.ListByUser(dbc, userID)
}

func (cs *clientService) CreateClient(dbc dbctx.Context, in CreateClientInput) (*types.Client, *types.Prompt, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, nil, err
	}
	key := strings.TrimSpace(in.ClientKey)
	name := strings.TrimSpace(in.Name)
	if key == "" || name == "" {
		return nil, nil, fmt.Errorf("client_id and name required: %w", pkgerrors.ErrInvalidArgument)
	}
	promptName := strings.TrimSpace(in.PromptName)
	if promptName == types.CustomPromptName {
		return nil, nil, fmt.Errorf("prompt name %q is reserved: %w", promptName, pkgerrors.ErrInvalidArgument)
	}

	var client *types.Client
	var prompt *types.Prompt
	err = inTx(cs.db, dbc, func(inner dbctx.Context) error {
		exists, err := cs.clientRepo.KeyExists(inner, userID, key)
		if err != nil {
			return fmt.Errorf("check client key: %w", err)
		}
		if exists {
			return fmt.Errorf("client %q: %w", key, pkgerrors.ErrConflict)
		}
		created, err := cs.clientRepo.Create(inner, []*types.Client{{
			ID:        uuid.New(),
			UserID:    userID,
			ClientKey: key,
			Name:      name,
		}})
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		client = created[0]

		if promptName == "" || strings.TrimSpace(in.PromptContent) == "" {
			return nil
		}
		prompts, err := cs.promptRepo.Create(inner, []*types.Prompt{{
			ID:       uuid.New(),
			UserID:   userID,
			ClientID: clientIDOf(client),
			Name:     promptName,
			Type:     types.PromptTypeTemplate,
			Content:  in.PromptContent,
		}})
		if err != nil {
			return fmt.Errorf("create default prompt: %w", err)
		}
		prompt = prompts[0]
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	cs.log.Info("Client created", "client_key", client.ClientKey, "with_prompt", prompt != nil)
	return client, prompt, nil
}
