package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
	"github.com/yungbote/promptdesk-backend/internal/platform/promptstyle"
)

// Client is the chat-completions client used by the rest of the backend.
type Client interface {
	// GenerateJSON asks for a JSON object and decodes it.
	GenerateJSON(ctx context.Context, system string, user string) (map[string]any, error)
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type client struct {
	log         *logger.Logger
	api         *goopenai.Client
	model       string
	temperature float32
	maxRetries  int
}

// Config carries the connection settings. app.LoadConfig fills it from the
// OPENAI_* environment variables.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	apiCfg := goopenai.DefaultConfig(apiKey)
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		apiCfg.BaseURL = baseURL + "/v1"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = goopenai.GPT4o
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &client{
		log:         log.With("service", "OpenAIClient"),
		api:         goopenai.NewClientWithConfig(apiCfg),
		model:       model,
		temperature: float32(cfg.Temperature),
		maxRetries:  maxRetries,
	}, nil
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string) (map[string]any, error) {
	system = promptstyle.ApplySystem(system, "json")
	text, err := c.complete(ctx, system, user, &goopenai.ChatCompletionResponseFormat{
		Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
	})
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return obj, nil
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	system = promptstyle.ApplySystem(system, "text")
	return c.complete(ctx, system, user, nil)
}

func (c *client) complete(ctx context.Context, system, user string, format *goopenai.ChatCompletionResponseFormat) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: format,
	}

	backoff := 1 * time.Second
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("no choices in response")
			}
			text := resp.Choices[0].Message.Content
			if strings.TrimSpace(text) == "" {
				return "", fmt.Errorf("empty completion")
			}
			c.log.Debug("OpenAI completion",
				"model", resp.Model,
				"prompt_tokens", resp.Usage.PromptTokens,
				"completion_tokens", resp.Usage.CompletionTokens,
			)
			return text, nil
		}
		if !isRetryable(err) || attempt >= c.maxRetries {
			return "", err
		}
		c.log.Warn("OpenAI request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", backoff.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func isRetryable(err error) bool {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return false
}
