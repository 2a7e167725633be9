package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

type ClientRepo interface {
	Create(dbc dbctx.Context, clients []*types.Client) ([]*types.Client, error)
	GetByKeys(dbc dbctx.Context, userID uuid.UUID, keys []string) ([]*types.Client, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Client, error)
	KeyExists(dbc dbctx.Context, userID uuid.UUID, key string) (bool, error)
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

func (r *clientRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *clientRepo) Create(dbc dbctx.Context, clients []*types.Client) ([]*types.Client, error) {
	if len(clients) == 0 {
		return []*types.Client{}, nil
	}
	if err := r.tx(dbc).Create(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepo) GetByKeys(dbc dbctx.Context, userID uuid.UUID, keys []string) ([]*types.Client, error) {
	var results []*types.Client
	if len(keys) == 0 {
		return results, nil
	}
	if err := r.tx(dbc).
		Where("user_id = ? AND client_key IN ?", userID, keys).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *clientRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Client, error) {
	var results []*types.Client
	if err := r.tx(dbc).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *clientRepo) KeyExists(dbc dbctx.Context, userID uuid.UUID, key string) (bool, error) {
	var count int64
	if err := r.tx(dbc).
		Model(&types.Client{}).
		Where("user_id = ? AND client_key = ?", userID, key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
