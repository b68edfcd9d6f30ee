// Package modelollama completes ReAct prompts against a local Ollama server
// using the non-streaming /api/generate endpoint.
package modelollama

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

	"github.com/Gurpartap/reactagent/agent"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	defaultTimeout = 120 * time.Second
)

type Config struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Client handles communication with the Ollama API.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ agent.ModelClient = (*Client)(nil)

// generateRequest is the payload for /api/generate.
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Options map[string]any `json:"options,omitempty"`
	Stream  bool           `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func New(cfg Config) (*Client, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("new ollama client: model is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, model: model, httpClient: httpClient}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string, stop []string) (string, error) {
	options := map[string]any{"temperature": 0}
	if len(stop) > 0 {
		options["stop"] = stop
	}
	data, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Options: options,
	})
	if err != nil {
		return "", fmt.Errorf("ollama request encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("ollama request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: ollama request execute: %v", agent.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return "", fmt.Errorf("%w: ollama error (status %d): %s", agent.ErrModelUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: ollama response decode: %v", agent.ErrModelUnavailable, err)
	}
	return out.Response, nil
}
