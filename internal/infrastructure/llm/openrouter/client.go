// Package openrouter is the completion gateway: an OpenAI-compatible chat
// completions client pointed at the OpenRouter API. Calls run under a bounded
// timeout and through the client's own resilience executor; callers treat any
// returned error as a gateway failure to be embedded in the response payload.
package openrouter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/avelkov/study-tutor-backend/internal/core/ports"
	"github.com/avelkov/study-tutor-backend/internal/infrastructure/resilience"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

type Client struct {
	api      *openai.Client
	model    string
	timeout  time.Duration
	executor *resilience.Executor
}

type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	// Resilience enables retries and the circuit breaker around completion
	// calls. Nil means every call goes straight through once.
	Resilience *resilience.Config
}

func New(apiKey string, options Options) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = options.BaseURL
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	model := options.Model
	if model == "" {
		model = "openai/gpt-3.5-turbo"
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	var executor *resilience.Executor
	if options.Resilience != nil {
		executor = resilience.NewExecutor("openrouter.complete", *options.Resilience, classifyCompletionError)
	}

	return &Client{
		api:      openai.NewClientWithConfig(cfg),
		model:    model,
		timeout:  timeout,
		executor: executor,
	}
}

func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	call := func(callCtx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(callCtx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
			},
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("chat completion: empty choices")
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	if c.executor == nil {
		return call(ctx)
	}

	var content string
	err := c.executor.Execute(ctx, func(execCtx context.Context) error {
		var callErr error
		content, callErr = call(execCtx)
		return callErr
	})
	if err != nil {
		return "", err
	}
	return content, nil
}
