package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
	"github.com/yungbote/promptdesk-backend/internal/services"
)

// File is the on-disk seed document. Client keys left empty mean global scope.
type File struct {
	Clients   []Client   `yaml:"clients"`
	Prompts   []Prompt   `yaml:"prompts"`
	Templates []Template `yaml:"templates"`
}

type Client struct {
	Key  string `yaml:"client_id"`
	Name string `yaml:"name"`
}

type Prompt struct {
	ClientKey string `yaml:"client_id"`
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Content   string `yaml:"content"`
}

type Template struct {
	ClientKey        string `yaml:"client_id"`
	Name             string `yaml:"name"`
	TemplatePrompt   string `yaml:"template_prompt"`
	ConversionPrompt string `yaml:"conversion_prompt"`
}

type Stats struct {
	Created int
	Skipped int
}

func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	return &f, nil
}

func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

type Seeder struct {
	log       *logger.Logger
	clients   services.ClientService
	prompts   services.PromptService
	templates services.TemplateService
}

func NewSeeder(log *logger.Logger, clients services.ClientService, prompts services.PromptService, templates services.TemplateService) *Seeder {
	return &Seeder{
		log:       log.With("component", "Seeder"),
		clients:   clients,
		prompts:   prompts,
		templates: templates,
	}
}

// Apply creates everything in f for userID. Rows that already exist are
// skipped, so applying the same file twice is harmless.
func (s *Seeder) Apply(ctx context.Context, userID uuid.UUID, f *File) (Stats, error) {
	var stats Stats
	if f == nil {
		return stats, nil
	}
	dbc := dbctx.From(ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: userID}))

	count := func(err error, what string) error {
		switch {
		case err == nil:
			stats.Created++
			return nil
		case errors.Is(err, pkgerrors.ErrConflict):
			stats.Skipped++
			s.log.Debug("Seed row exists, skipping", "row", what)
			return nil
		default:
			return fmt.Errorf("seed %s: %w", what, err)
		}
	}

	for _, c := range f.Clients {
		_, _, err := s.clients.CreateClient(dbc, services.CreateClientInput{ClientKey: c.Key, Name: c.Name})
		if err := count(err, "client "+c.Key); err != nil {
			return stats, err
		}
	}
	for _, p := range f.Prompts {
		kind := types.PromptType(strings.TrimSpace(p.Type))
		if kind == "" {
			kind = types.PromptTypeTemplate
		}
		_, err := s.prompts.CreatePrompt(dbc, services.PromptInput{
			ClientKey: p.ClientKey,
			Name:      p.Name,
			Type:      kind,
			Content:   p.Content,
		})
		if err := count(err, "prompt "+p.Name); err != nil {
			return stats, err
		}
	}
	for _, t := range f.Templates {
		in, err := s.templateInput(dbc, t)
		if err != nil {
			return stats, err
		}
		_, err = s.templates.CreateTemplate(dbc, in)
		if err := count(err, "template "+t.Name); err != nil {
			return stats, err
		}
	}
	s.log.Info("Seed applied", "created", stats.Created, "skipped", stats.Skipped)
	return stats, nil
}

func (s *Seeder) templateInput(dbc dbctx.Context, t Template) (services.CreateTemplateInput, error) {
	in := services.CreateTemplateInput{ClientKey: t.ClientKey, Name: t.Name}
	tp, err := s.findPrompt(dbc, t.ClientKey, t.TemplatePrompt, types.PromptTypeTemplate)
	if err != nil {
		return in, err
	}
	in.TemplatePromptID = tp.ID
	if strings.TrimSpace(t.ConversionPrompt) != "" {
		cp, err := s.findPrompt(dbc, t.ClientKey, t.ConversionPrompt, types.PromptTypeConversion)
		if err != nil {
			return in, err
		}
		in.ConversionPromptID = &cp.ID
	}
	return in, nil
}

// findPrompt resolves a prompt by name the same way lookups do: the client's
// own prompt first, then a global one.
func (s *Seeder) findPrompt(dbc dbctx.Context, clientKey, name string, kind types.PromptType) (*types.Prompt, error) {
	name = strings.TrimSpace(name)
	prompts, err := s.prompts.ListPrompts(dbc, clientKey, kind)
	if err != nil {
		return nil, fmt.Errorf("list prompts for %q: %w", clientKey, err)
	}
	for _, p := range prompts {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("seed %s prompt %q for client %q: %w", kind, name, clientKey, pkgerrors.ErrNotFound)
}
