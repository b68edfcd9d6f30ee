// Package modelopenai completes ReAct prompts with the OpenAI chat
// completions API. The prompt is sent as a single user message.
package modelopenai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Gurpartap/reactagent/agent"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/"
	defaultTimeout = 60 * time.Second
)

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type Adapter struct {
	model   string
	service openai.ChatCompletionService
}

var _ agent.ModelClient = (*Adapter)(nil)

func New(cfg Config) (*Adapter, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("new model adapter: api key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("new model adapter: model is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	// Retries belong to the reasoning loop's model policy.
	opts := []option.RequestOption{
		option.WithHTTPClient(httpClient),
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &Adapter{
		model:   model,
		service: openai.NewChatCompletionService(opts...),
	}, nil
}

func (a *Adapter) Complete(ctx context.Context, prompt string, stop []string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
	}
	if len(stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: append([]string(nil), stop...)}
	}

	completion, err := a.service.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: provider response status=%d: %s", agent.ErrModelUnavailable, apiErr.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%w: provider request execute: %v", agent.ErrModelUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: provider response decode: no choices", agent.ErrModelUnavailable)
	}
	return completion.Choices[0].Message.Content, nil
}
