package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/promptdesk-backend/internal/data/repos/auth"
	"github.com/yungbote/promptdesk-backend/internal/data/repos/catalog"
	"github.com/yungbote/promptdesk-backend/internal/data/repos/user"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type ClientRepo = catalog.ClientRepo
type PromptRepo = catalog.PromptRepo
type TemplateRepo = catalog.TemplateRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return catalog.NewClientRepo(db, baseLog)
}
func NewPromptRepo(db *gorm.DB, baseLog *logger.Logger) PromptRepo {
	return catalog.NewPromptRepo(db, baseLog)
}
func NewTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TemplateRepo {
	return catalog.NewTemplateRepo(db, baseLog)
}
