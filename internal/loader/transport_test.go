package loader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
)

func TestHTTPTransportLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/load_client", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "C1", r.PostForm.Get("client_id"))
		assert.Equal(t, "T1", r.PostForm.Get("template_name"))
		assert.Empty(t, r.PostForm.Get("prompt_name"))
		assert.Empty(t, r.PostForm.Get("template_id"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"prompt": "Hi", "prompt_name": "Greeting"})
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL+"/", "tok", srv.Client())
	resp, err := tr.Lookup(context.Background(), LookupRequest{ClientID: "C1", TemplateName: "T1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Prompt)
	require.NotNil(t, resp.PromptName)
	assert.Equal(t, "Hi", *resp.Prompt)
	assert.Equal(t, "Greeting", *resp.PromptName)
	assert.Nil(t, resp.Conversion)
}

func TestHTTPTransportErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"internal server error","code":"internal"}}`))
		},
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			tr := NewHTTPTransport(srv.URL, "", srv.Client())
			_, err := tr.Lookup(context.Background(), LookupRequest{ClientID: "C1", PromptName: "Greeting"})
			assert.Error(t, err)

			l := NewLoader(Form{
				ClientID:   &MemoryField{val: "C1"},
				PromptName: &MemoryField{val: "Greeting"},
			}, tr, nil, nil)
			assert.ErrorIs(t, l.LoadForPrompt(context.Background()), ErrTransport)
		})
	}
}

func TestHTTPTransportListTemplates(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/templates", r.URL.Path)
		assert.Equal(t, "C1", r.URL.Query().Get("client_id"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"templates": []*types.TemplateSummary{{ID: id, Name: "T1", TemplatePromptContent: "a\nb"}},
		})
	}))
	defer srv.Close()

	got, err := NewHTTPTransport(srv.URL, "", nil).ListTemplates(context.Background(), "C1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, `a\nb`, OptionFromTemplate(got[0]).Data[DataTemplatePrompt])
}

func TestLookupRequestValues(t *testing.T) {
	v := LookupRequest{TemplateID: "tid"}.Values()
	assert.Equal(t, "client_id=&template_id=tid", v.Encode())
}
