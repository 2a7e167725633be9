package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/promptdesk-backend/internal/loader"
)

func run(t *testing.T, args ...string) (loader.Snapshot, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()

	var snap loader.Snapshot
	if stdout.Len() > 0 {
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &snap))
	}
	return snap, stderr.String(), err
}

func TestPromptCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseForm()) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("prompt_name") == "Greeting" {
			_, _ = w.Write([]byte(`{"prompt":"Hello","prompt_name":"Greeting"}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	snap, stderr, err := run(t, "--base-url", srv.URL, "-c", "C1", "prompt", "Greeting")
	require.NoError(t, err)
	assert.Equal(t, "Hello", snap.Content)
	assert.Empty(t, stderr)

	snap, stderr, err = run(t, "--base-url", srv.URL, "-c", "C1", "prompt", "Other")
	assert.ErrorIs(t, err, loader.ErrEmptyResult)
	assert.Empty(t, snap.Content)
	assert.Contains(t, stderr, "Failed to load prompt content")
}

func TestToggleUploadCommand(t *testing.T) {
	snap, _, err := run(t, "toggle-upload", "-n", "3")
	require.NoError(t, err)
	assert.True(t, snap.UploadPanelVisible)
	assert.True(t, snap.PromptNameVisible)
	assert.Equal(t, "Custom", snap.PromptName)
}

func TestUpdatePromptsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/templates", r.URL.Path)
		_, _ = w.Write([]byte(`{"templates":[{"id":"8f7c0c52-5f1e-4c53-9b8e-3b1f4d7f0a11","template_name":"T1","template_prompt_content":"a\nb","conversion_prompt_content":"short","has_file":false}]}`))
	}))
	defer srv.Close()

	snap, _, err := run(t, "--base-url", srv.URL, "update-prompts", "8f7c0c52-5f1e-4c53-9b8e-3b1f4d7f0a11")
	require.NoError(t, err)
	assert.Equal(t, "a\nb", snap.TemplatePrompt)
	assert.Equal(t, "short", snap.ConversionPrompt)
}
