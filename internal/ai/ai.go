// Package ai generates chat completions for the /ask command.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultSystemPrompt is used when Options.SystemPrompt is empty.
const DefaultSystemPrompt = "You are a helpful assistant in a Clash of Clans Discord server. " +
	"Keep answers short and use Discord markdown."

var (
	// ErrEmptyPrompt is returned when the prompt is blank.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrNoChoices is returned when the API responds without any choices.
	ErrNoChoices = errors.New("no response from chat completion API")
)

// Options configures a Client.
type Options struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	BaseURL      string
	SystemPrompt string
}

// Client wraps the OpenAI API client
type Client struct {
	client       *openai.Client
	model        string
	maxTokens    int
	temperature  float32
	systemPrompt string
}

// NewClient creates a chat completion client. A BaseURL points it at any
// OpenAI compatible provider.
func NewClient(apiKey string, opts Options) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.Model == "" {
		opts.Model = openai.GPT3Dot5Turbo
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}

	return &Client{
		client:       openai.NewClientWithConfig(cfg),
		model:        opts.Model,
		maxTokens:    opts.MaxTokens,
		temperature:  float32(opts.Temperature),
		systemPrompt: opts.SystemPrompt,
	}
}

// Model returns the model name sent with every request.
func (c *Client) Model() string {
	return c.model
}

// GenerateResponse answers a single prompt.
func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: c.systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
