package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
)

func strp(s string) *string { return &s }

func TestContentLookup(t *testing.T) {
	f := newFixture(t)
	dbc := f.dbc()
	_, _, err := f.clientService().CreateClient(dbc, CreateClientInput{ClientKey: "C1", Name: "Client One", PromptName: "Greeting", PromptContent: "Hello"})
	require.NoError(t, err)
	_, _, err = f.clientService().CreateClient(dbc, CreateClientInput{ClientKey: "C2", Name: "Client Two"})
	require.NoError(t, err)

	ps := f.promptService()
	_, err = ps.CreatePrompt(dbc, PromptInput{Name: "Greeting", Content: "Global hello"})
	require.NoError(t, err)
	tp, err := ps.CreatePrompt(dbc, PromptInput{ClientKey: "C1", Name: "Letter", Content: "Hi"})
	require.NoError(t, err)
	cp, err := ps.CreatePrompt(dbc, PromptInput{Name: "Brief", Type: types.PromptTypeConversion, Content: "be brief"})
	require.NoError(t, err)

	tmpl, err := f.templateService().CreateTemplate(dbc, CreateTemplateInput{
		ClientKey:          "C1",
		Name:               "T1",
		TemplatePromptID:   tp.ID,
		ConversionPromptID: &cp.ID,
	})
	require.NoError(t, err)

	svc := f.contentService()
	cases := []struct {
		name string
		in   LookupInput
		want LookupResult
	}{
		{"client prompt wins", LookupInput{ClientKey: "C1", PromptName: "Greeting"}, LookupResult{Prompt: strp("Hello"), PromptName: strp("Greeting")}},
		{"global prompt", LookupInput{ClientKey: "C2", PromptName: "Greeting"}, LookupResult{Prompt: strp("Global hello"), PromptName: strp("Greeting")}},
		{"missing prompt", LookupInput{ClientKey: "C1", PromptName: "Nope"}, LookupResult{}},
		{"unknown client", LookupInput{ClientKey: "ZZ", PromptName: "Greeting"}, LookupResult{}},
		{"template by name", LookupInput{ClientKey: "C1", TemplateName: "T1"}, LookupResult{Prompt: strp("Hi"), PromptName: strp("Letter")}},
		{"template out of scope", LookupInput{ClientKey: "C2", TemplateName: "T1"}, LookupResult{}},
		{"template by id", LookupInput{TemplateID: tmpl.ID.String()}, LookupResult{Prompt: strp("Hi"), Conversion: strp("be brief")}},
		{"unknown template id", LookupInput{TemplateID: uuid.NewString()}, LookupResult{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Lookup(dbc, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
		})
	}

	_, err = svc.Lookup(dbc, LookupInput{ClientKey: "C1"})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "no selector: %v", err)
	_, err = svc.Lookup(dbc, LookupInput{ClientKey: "C1", PromptName: "a", TemplateName: "b"})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "two selectors: %v", err)
	_, err = svc.Lookup(dbc, LookupInput{TemplateID: "not-a-uuid"})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "bad uuid: %v", err)
}
