package domain

import (
	"github.com/yungbote/promptdesk-backend/internal/domain/auth"
	"github.com/yungbote/promptdesk-backend/internal/domain/catalog"
	"github.com/yungbote/promptdesk-backend/internal/domain/user"
)

type (
	User      = user.User
	UserToken = auth.UserToken

	Client             = catalog.Client
	Prompt             = catalog.Prompt
	PromptType         = catalog.PromptType
	Template           = catalog.Template
	TemplateConversion = catalog.TemplateConversion
	TemplateSummary    = catalog.TemplateSummary
	Section            = catalog.Section
)

const (
	PromptTypeTemplate   = catalog.PromptTypeTemplate
	PromptTypeConversion = catalog.PromptTypeConversion
	CustomPromptName     = catalog.CustomPromptName
)
