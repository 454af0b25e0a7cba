package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/config"
	"github.com/GoArmGo/ContentGenius/internal/domain"
)

const maxErrorBody = 2048

// Client calls an OpenAI-compatible chat-completions endpoint.
// It implements usecase.ContentGenerator.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	organization string
	model        string
	maxTokens    int
	temperature  float64
	logger       *slog.Logger
}

// NewClient builds a client whose every request is bounded by cfg.Timeout.
func NewClient(cfg config.OpenAIConfig, logger *slog.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		organization: cfg.Organization,
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		logger:       logger,
	}
}

// Complete sends the system and user messages and returns the first choice.
// Non-2xx responses, transport errors and timeouts are returned as errors.
func (c *Client) Complete(ctx context.Context, prompt domain.Prompt) (*domain.Completion, error) {
	start := time.Now()

	body, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("openai request failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("openai API error",
			"status", resp.StatusCode,
			"body", string(raw),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("openai: API request failed with status %d: %s", resp.StatusCode, errorMessage(raw))
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai: response contained no choices")
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}

	c.logger.Info("openai completion received",
		"model", model,
		"total_tokens", parsed.Usage.TotalTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &domain.Completion{
		Content: parsed.Choices[0].Message.Content,
		Model:   model,
		Usage: domain.TokenUsage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		},
	}, nil
}

// errorMessage prefers the structured API message over the raw body.
func errorMessage(raw []byte) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
