package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
)

const lookupPath = "/api/load_client"

// HTTPTransport talks to the content lookup endpoint of a running backend.
// It never retries and relies on ctx for deadlines.
type HTTPTransport struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPTransport targets baseURL (scheme and host, optionally a path prefix).
// A non-empty token is sent as a Bearer credential. A nil client uses
// http.DefaultClient.
func NewHTTPTransport(baseURL, token string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  client,
	}
}

func (t *HTTPTransport) Lookup(ctx context.Context, req LookupRequest) (ContentResponse, error) {
	var out ContentResponse
	body := strings.NewReader(req.Values().Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+lookupPath, body)
	if err != nil {
		return out, fmt.Errorf("build lookup request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := t.do(httpReq, &out); err != nil {
		return ContentResponse{}, err
	}
	return out, nil
}

// ListTemplates fetches the template summaries visible under clientID, the
// data template selector options are built from.
func (t *HTTPTransport) ListTemplates(ctx context.Context, clientID string) ([]*types.TemplateSummary, error) {
	u := t.baseURL + "/api/templates"
	if clientID != "" {
		u += "?" + url.Values{"client_id": {clientID}}.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build templates request: %w", err)
	}
	var out struct {
		Templates []*types.TemplateSummary `json:"templates"`
	}
	if err := t.do(httpReq, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

func (t *HTTPTransport) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(status int, raw []byte) error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
		return fmt.Errorf("status %d (%s): %s", status, envelope.Error.Code, envelope.Error.Message)
	}
	return fmt.Errorf("status %d", status)
}
