package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
)

const (
	DefaultModel = "gemini-1.5-flash"
	providerName = "gemini"
)

var _ ports.NameGenerator = (*Client)(nil)

type Config struct {
	APIKey string
	Model  string
}

// Client asks a Gemini model for names, constrained to a JSON response.
type Client struct {
	api   *genai.Client
	model string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	api, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: api, model: model}, nil
}

func (c *Client) Provider() string { return providerName }

func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	model := c.api.GenerativeModel(c.model)
	model.SetTemperature(1.0)
	model.SetMaxOutputTokens(256)
	model.ResponseMIMEType = "application/json"
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", classify(err)
	}
	return responseText(resp), nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.api == nil {
		return nil
	}
	return c.api.Close()
}

// responseText joins the text parts of the first candidate that has any.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	switch status.Code(err) {
	case codes.InvalidArgument, codes.PermissionDenied, codes.Unauthenticated, codes.NotFound, codes.FailedPrecondition:
		return fmt.Errorf("%w: %w", ports.ErrUpstreamRejected, err)
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("%w: %w", ports.ErrUpstreamRejected, err)
	}
	return fmt.Errorf("%w: %w", ports.ErrUpstreamUnavailable, err)
}
