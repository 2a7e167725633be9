package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

type PromptRepo interface {
	Create(dbc dbctx.Context, prompts []*types.Prompt) ([]*types.Prompt, error)
	// Update writes Name, Type and Content of p.
	Update(dbc dbctx.Context, p *types.Prompt) error
	GetByIDs(dbc dbctx.Context, userID uuid.UUID, promptIDs []uuid.UUID) ([]*types.Prompt, error)
	// FindVisibleByName returns the prompts named name that clientID can see,
	// client-specific rows first and template prompts ahead of conversion ones.
	FindVisibleByName(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID, name string) ([]*types.Prompt, error)
	GetInScope(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID, name string, kind types.PromptType) (*types.Prompt, error)
	ListVisible(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID, kind types.PromptType) ([]*types.Prompt, error)
}

type promptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptRepo(db *gorm.DB, baseLog *logger.Logger) PromptRepo {
	return &promptRepo{db: db, log: baseLog.With("repo", "PromptRepo")}
}

func (r *promptRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *promptRepo) Create(dbc dbctx.Context, prompts []*types.Prompt) ([]*types.Prompt, error) {
	if len(prompts) == 0 {
		return []*types.Prompt{}, nil
	}
	if err := r.tx(dbc).Omit("Client").Create(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *promptRepo) Update(dbc dbctx.Context, p *types.Prompt) error {
	res := r.tx(dbc).
		Model(&types.Prompt{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"prompt_name": p.Name,
			"prompt_type": p.Type,
			"content":     p.Content,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *promptRepo) GetByIDs(dbc dbctx.Context, userID uuid.UUID, promptIDs []uuid.UUID) ([]*types.Prompt, error) {
	var results []*types.Prompt
	if len(promptIDs) == 0 {
		return results, nil
	}
	if err := r.tx(dbc).
		Where("user_id = ? AND id IN ?", userID, promptIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *promptRepo) FindVisibleByName(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID, name string) ([]*types.Prompt, error) {
	var results []*types.Prompt
	q := r.tx(dbc).Where("user_id = ? AND prompt_name = ?", userID, name)
	q = visibleTo(q, "client_id", clientID)
	if err := q.
		Order(clientFirst("client_id")).
		Order("CASE WHEN prompt_type = 'template' THEN 0 ELSE 1 END").
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *promptRepo) GetInScope(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID, name string, kind types.PromptType) (*types.Prompt, error) {
	var results []*types.Prompt
	q := r.tx(dbc).Where("user_id = ? AND prompt_name = ? AND prompt_type = ?", userID, name, kind)
	q = exactScope(q, "client_id", clientID)
	if err := q.Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *promptRepo) ListVisible(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID, kind types.PromptType) ([]*types.Prompt, error) {
	var results []*types.Prompt
	q := r.tx(dbc).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("prompt_type = ?", kind)
	}
	q = visibleTo(q, "client_id", clientID)
	if err := q.
		Order("prompt_name ASC").
		Order(clientFirst("client_id")).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
