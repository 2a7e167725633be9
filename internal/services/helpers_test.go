package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/promptdesk-backend/internal/data/repos"
	"github.com/yungbote/promptdesk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/promptdesk-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptdesk-backend/internal/platform/docx"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
	"github.com/yungbote/promptdesk-backend/internal/platform/openai"
)

type fixture struct {
	db        *gorm.DB
	log       *logger.Logger
	users     repos.UserRepo
	tokens    repos.UserTokenRepo
	clients   repos.ClientRepo
	prompts   repos.PromptRepo
	templates repos.TemplateRepo
	user      *types.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	f := &fixture{
		db:        db,
		log:       log,
		users:     repos.NewUserRepo(db, log),
		tokens:    repos.NewUserTokenRepo(db, log),
		clients:   repos.NewClientRepo(db, log),
		prompts:   repos.NewPromptRepo(db, log),
		templates: repos.NewTemplateRepo(db, log),
	}
	f.user = testutil.SeedUser(t, context.Background(), db, "operator-"+uuid.NewString()[:8]+"@example.com")
	return f
}

// dbc returns a request-scoped context authenticated as the fixture user.
func (f *fixture) dbc() dbctx.Context {
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: f.user.ID})
	return dbctx.From(ctx)
}

func (f *fixture) authService() AuthService {
	return NewAuthService(f.db, f.log, f.users, f.tokens, "test-secret", 15*time.Minute, time.Hour)
}

func (f *fixture) clientService() ClientService {
	return NewClientService(f.db, f.log, f.clients, f.prompts)
}

func (f *fixture) promptService() PromptService {
	return NewPromptService(f.db, f.log, f.clients, f.prompts, f.templates)
}

func (f *fixture) templateService() TemplateService {
	return NewTemplateService(f.db, f.log, f.clients, f.prompts, f.templates, nil)
}

func (f *fixture) templateServiceWith(ai openai.Client) TemplateService {
	return NewTemplateService(f.db, f.log, f.clients, f.prompts, f.templates, ai)
}

func (f *fixture) contentService() ContentService {
	return NewContentService(f.log, f.clients, f.prompts, f.templates)
}

// docxOf builds a .docx holding the given paragraphs.
func docxOf(t *testing.T, paras ...docx.Paragraph) []byte {
	t.Helper()
	var d docx.Document
	for _, p := range paras {
		d.AddParagraph(p)
	}
	data, err := docx.Build(&d)
	if err != nil {
		t.Fatalf("build docx: %v", err)
	}
	return data
}
