// Package anthropic adapts the Claude Messages API to the JSON completion
// contract used by the reasoning chains.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"vocabsub/internal/services/llm"
)

const (
	defaultMaxTokens = 4096
	defaultTimeout   = 60 * time.Second
	jsonInstruction  = "Respond with a single JSON object and nothing else."
)

// Config captures the runtime settings for the Claude backend.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int64
	TimeoutSeconds int
	MaxAttempts    int
}

// Client issues JSON-only requests through the Anthropic SDK.
type Client struct {
	api       sdk.Client
	model     string
	maxTokens int64

	mu    sync.Mutex
	usage llm.Usage
}

// NewClient builds a client. Extra request options are appended after the
// ones derived from cfg, so tests can point the SDK at a local server.
func NewClient(cfg Config, opts ...option.RequestOption) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	retries := cfg.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	requestOpts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(retries),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(base))
	}
	requestOpts = append(requestOpts, opts...)

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		api:       sdk.NewClient(requestOpts...),
		model:     strings.TrimSpace(cfg.Model),
		maxTokens: maxTokens,
	}
}

// Model reports the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Usage returns the accumulated token counts.
func (c *Client) Usage() llm.Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// CompleteJSON sends the prompts and returns the JSON object found in the
// first text block of the reply.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if systemPrompt == "" {
		return "", errors.New("claude complete: system prompt required")
	}
	if userPrompt == "" {
		return "", errors.New("claude complete: user prompt required")
	}
	msg, err := c.api.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: sdk.Float(0),
		System: []sdk.TextBlockParam{
			{Text: systemPrompt + "\n\n" + jsonInstruction},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude complete: %w", err)
	}

	text := firstText(msg)
	if text == "" {
		return "", fmt.Errorf("claude complete: empty content (stop_reason=%q)", string(msg.StopReason))
	}
	c.mu.Lock()
	c.usage.Requests++
	c.usage.PromptTokens += int(msg.Usage.InputTokens)
	c.usage.CompletionTokens += int(msg.Usage.OutputTokens)
	c.mu.Unlock()
	return llm.SanitizeJSONPayload(text), nil
}

// HealthCheck verifies the API key and model with a tiny request.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.CompleteJSON(ctx, "You must respond with JSON only.", "Respond with {\"ok\":true}")
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := llm.DecodeLLMJSON(content, &parsed); err != nil {
		return fmt.Errorf("claude health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("claude health: unexpected response")
	}
	return nil
}

func firstText(msg *sdk.Message) string {
	if msg == nil {
		return ""
	}
	for _, block := range msg.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return strings.TrimSpace(block.Text)
		}
	}
	return ""
}
