package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/promptdesk-backend/internal/data/repos"
	httpserver "github.com/yungbote/promptdesk-backend/internal/http"
	httpH "github.com/yungbote/promptdesk-backend/internal/http/handlers"
	httpMW "github.com/yungbote/promptdesk-backend/internal/http/middleware"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
	"github.com/yungbote/promptdesk-backend/internal/platform/openai"
	"github.com/yungbote/promptdesk-backend/internal/services"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Client    repos.ClientRepo
	Prompt    repos.PromptRepo
	Template  repos.TemplateRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Client:    repos.NewClientRepo(db, log),
		Prompt:    repos.NewPromptRepo(db, log),
		Template:  repos.NewTemplateRepo(db, log),
	}
}

type Services struct {
	Auth       services.AuthService
	Client     services.ClientService
	Prompt     services.PromptService
	Template   services.TemplateService
	Content    services.ContentService
	Conversion services.ConversionService
}

// wireServices builds the service layer. ai may be nil, in which case
// conversions and file generation fail with an upstream error and everything
// else works.
func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, ai openai.Client) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:       services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Client:     services.NewClientService(db, log, r.Client, r.Prompt),
		Prompt:     services.NewPromptService(db, log, r.Client, r.Prompt, r.Template),
		Template:   services.NewTemplateService(db, log, r.Client, r.Prompt, r.Template, ai),
		Content:    services.NewContentService(log, r.Client, r.Prompt, r.Template),
		Conversion: services.NewConversionService(log, r.Template, ai),
	}
}

func wireServer(log *logger.Logger, cfg Config, s Services, health func(context.Context) error) *httpserver.Server {
	log.Info("Wiring handlers...")
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		AuthHandler:     httpH.NewAuthHandler(s.Auth),
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, s.Auth),
		ContentHandler:  httpH.NewContentHandler(s.Content),
		ClientHandler:   httpH.NewClientHandler(s.Client),
		PromptHandler:   httpH.NewPromptHandler(s.Prompt),
		TemplateHandler: httpH.NewTemplateHandler(s.Template),
		ConvertHandler:  httpH.NewConvertHandler(s.Conversion),
		HealthHandler:   httpH.NewHealthHandler(health),
	})
}
