package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/promptdesk-backend/internal/http/handlers"
	httpMW "github.com/yungbote/promptdesk-backend/internal/http/middleware"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	ContentHandler  *httpH.ContentHandler
	ClientHandler   *httpH.ClientHandler
	PromptHandler   *httpH.PromptHandler
	TemplateHandler *httpH.TemplateHandler
	ConvertHandler  *httpH.ConvertHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Content lookup used by the form loader
		if cfg.ContentHandler != nil {
			protected.POST("/load_client", cfg.ContentHandler.LoadClient)
		}

		if cfg.ClientHandler != nil {
			protected.GET("/clients", cfg.ClientHandler.ListClients)
			protected.POST("/clients", cfg.ClientHandler.CreateClient)
		}

		if cfg.PromptHandler != nil {
			protected.GET("/prompts", cfg.PromptHandler.ListPrompts)
			protected.POST("/prompts", cfg.PromptHandler.CreatePrompt)
			protected.PUT("/prompts", cfg.PromptHandler.UpdatePrompt)
		}

		if cfg.TemplateHandler != nil {
			protected.GET("/templates", cfg.TemplateHandler.ListTemplates)
			protected.POST("/templates", cfg.TemplateHandler.CreateTemplate)
			protected.POST("/templates/:id/file", cfg.TemplateHandler.UploadFile)
			protected.GET("/templates/:id/file", cfg.TemplateHandler.DownloadFile)
			protected.POST("/templates/:id/file/generate", cfg.TemplateHandler.GenerateFile)
			protected.POST("/templates/:id/prompt_from_file", cfg.TemplateHandler.CreatePromptFromFile)
			protected.DELETE("/templates/:id", cfg.TemplateHandler.DeleteTemplate)
		}

		if cfg.ConvertHandler != nil {
			protected.POST("/convert", cfg.ConvertHandler.Convert)
		}
	}

	return r
}
