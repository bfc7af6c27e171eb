package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"stratforge/internal/app/ports"
)

// Config configures the chat-completions client used as the decision
// oracle. Any OpenAI-compatible endpoint works.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
}

// NewClient builds a decision oracle backed by a chat-completions API.
func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Client{cfg: cfg}
}

var _ ports.DecisionOracle = (*Client)(nil)

func (c *Client) Propose(ctx context.Context, prompt ports.OraclePrompt) (string, error) {
	apiKey := strings.TrimSpace(c.cfg.APIKey)
	model := strings.TrimSpace(c.cfg.Model)
	if apiKey == "" {
		return "", fmt.Errorf("api key is required")
	}
	if model == "" {
		return "", fmt.Errorf("model is required")
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": prompt.System},
			{"role": "user", "content": prompt.User},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal oracle request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material is sent only as an Authorization header and is
	// never echoed in errors or response payloads.
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("read oracle error body: %w", err)
		}
		return "", fmt.Errorf("oracle request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode oracle response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("oracle response has no choices")
	}
	return payload.Choices[0].Message.Content, nil
}
