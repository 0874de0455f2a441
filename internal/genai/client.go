// internal/genai/client.go

// Package genai wraps the OpenAI-compatible chat-completions backend behind
// a generate(prompt) -> text contract with bounded retries.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appconfig "astrogen/internal/common/config"
	"astrogen/internal/common/logger"
)

const completionsPath = "/chat/completions"

var (
	ErrGenerationTimeout = errors.New("GENERATION_TIMEOUT")
	ErrGenerationFailed  = errors.New("GENERATION_FAILED")
	ErrRequestRejected   = errors.New("GENERATION_REJECTED")
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
}

// ConfigFromApp converts the application config section (milliseconds on the
// wire) into the client config.
func ConfigFromApp(cfg appconfig.GenAIConfig) Config {
	return Config{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     appconfig.GetDuration(cfg.Timeout),
		MaxRetries:  cfg.MaxRetries,
	}
}

type Client struct {
	config Config
	// No client-level timeout: the per-call context owns the deadline.
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(config Config, log logger.Logger) *Client {
	return &Client{
		config:     config,
		httpClient: &http.Client{},
		logger: log.With(map[string]interface{}{
			"component": "genai",
			"model":     config.Model,
		}),
	}
}

// Generate renders one prompt into generated text. Safe for concurrent use;
// every call is a fresh request. Transient failures (timeouts, 429, 5xx,
// transport errors) are retried with exponential backoff up to MaxRetries
// extra attempts; other HTTP errors fail immediately.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, err := json.Marshal(c.buildRequestBody(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			c.logger.Warn("retrying generation request", map[string]interface{}{
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   lastErr.Error(),
			})
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrGenerationTimeout, lastErr)
			}
		}

		text, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return text, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrGenerationTimeout, lastErr)
		}
	}

	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w: %v", ErrGenerationTimeout, lastErr)
	}
	return "", fmt.Errorf("%w: %v", ErrGenerationFailed, lastErr)
}

// doRequest performs a single attempt. The second return reports whether the
// failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(c.config.BaseURL, "/")+completionsPath, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", true, fmt.Errorf("%w: %v", ErrGenerationTimeout, err)
		}
		return "", true, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", true, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		return "", false, fmt.Errorf("%w: %v", ErrRequestRejected, err)
	}

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", false, fmt.Errorf("%w: decode error: %v", ErrGenerationFailed, err)
	}
	if len(apiResponse.Choices) == 0 {
		return "", false, fmt.Errorf("%w: response has no choices", ErrGenerationFailed)
	}

	return apiResponse.Choices[0].Message.Content, false, nil
}

func (c *Client) buildRequestBody(prompt string) map[string]interface{} {
	body := map[string]interface{}{
		"model": c.config.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": c.config.Temperature,
	}

	// Newer model families renamed the token cap; gpt-5-mini additionally
	// only accepts the default temperature.
	if strings.Contains(c.config.Model, "gpt-4o") || strings.Contains(c.config.Model, "gpt-5") {
		body["max_completion_tokens"] = c.config.MaxTokens
		if strings.Contains(c.config.Model, "gpt-5-mini") {
			delete(body, "temperature")
		}
	} else {
		body["max_tokens"] = c.config.MaxTokens
	}

	return body
}

// WithModel returns a copy of the client configured for a different model
// and sampling settings, sharing the underlying transport. Used by the
// translator, which runs at reduced temperature.
func (c *Client) WithModel(model string, temperature float64, maxTokens int) *Client {
	cfg := c.config
	cfg.Model = model
	cfg.Temperature = temperature
	cfg.MaxTokens = maxTokens
	return &Client{
		config:     cfg,
		httpClient: c.httpClient,
		logger: c.logger.With(map[string]interface{}{
			"model": model,
		}),
	}
}
