package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
)

const (
	DefaultModel = openai.GPT3Dot5Turbo
	providerName = "openai"
)

var _ ports.NameGenerator = (*Client)(nil)

// Config holds the connection settings for the chat completions API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client asks an OpenAI-compatible chat model for a JSON object of names.
type Client struct {
	api   *openai.Client
	model string
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	conf := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		conf.BaseURL = base
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: openai.NewClientWithConfig(conf), model: model}, nil
}

func (c *Client) Provider() string { return providerName }

// Complete sends one chat completion. High temperature and penalties keep the names varied.
func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature:      1.0,
		MaxTokens:        150,
		PresencePenalty:  1.5,
		FrequencyPenalty: 1.5,
		ResponseFormat:   &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// classify splits provider failures into retryable transport errors and permanent rejections.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if isPermanentStatus(apiErr.HTTPStatusCode) {
			return fmt.Errorf("%w: status %d: %w", ports.ErrUpstreamRejected, apiErr.HTTPStatusCode, err)
		}
		return fmt.Errorf("%w: status %d: %w", ports.ErrUpstreamUnavailable, apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && isPermanentStatus(reqErr.HTTPStatusCode) {
		return fmt.Errorf("%w: status %d: %w", ports.ErrUpstreamRejected, reqErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("%w: %w", ports.ErrUpstreamUnavailable, err)
}

func isPermanentStatus(status int) bool {
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests {
		return false
	}
	return status >= 400 && status < 500
}
