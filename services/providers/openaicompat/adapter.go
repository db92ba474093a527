// Package openaicompat implements the provider contract against any
// endpoint speaking the OpenAI chat-completions wire format. Groq,
// OpenRouter, DeepSeek, Mistral, and the GitHub Models API all expose
// compatible endpoints, so one adapter parameterized by base URL covers
// every catalog provider.
package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lumni-ai/lumni-gateway/services"
	"github.com/lumni-ai/lumni-gateway/services/providers"
)

// Config holds adapter construction parameters.
type Config struct {
	// Name is the provider name reported upstream (e.g., "groq").
	Name string

	// BaseURL is the API root, e.g. "https://api.groq.com/openai/v1".
	BaseURL string

	// APIKey is sent as a bearer token.
	APIKey string

	// Timeout bounds each HTTP call.
	Timeout time.Duration

	// Headers are added to every request.
	Headers map[string]string
}

// Adapter is an OpenAI-compatible HTTP provider.
type Adapter struct {
	cfg        Config
	httpClient *http.Client
}

// New creates an adapter for one provider endpoint.
func New(cfg Config) *Adapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Adapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return a.cfg.Name
}

// ChatCompletion performs a chat completion request
func (a *Adapter) ChatCompletion(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	start := time.Now()

	body, err := json.Marshal(a.buildWireRequest(req))
	if err != nil {
		return nil, services.NewInternalError("marshal provider request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, services.NewInternalError("build provider request", err)
	}
	a.setHeaders(httpReq)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, services.NewProviderError(a.cfg.Name, req.Model, "provider call failed", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, services.NewProviderError(a.cfg.Name, req.Model, "read provider response", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, a.errorFromResponse(req.Model, httpResp.StatusCode, respBody)
	}

	var wire wireResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, services.NewProviderError(a.cfg.Name, req.Model, "decode provider response", err)
	}

	return a.toUnifiedResponse(&wire, time.Since(start)), nil
}

// Ping performs a lightweight reachability probe against the models
// listing endpoint.
func (a *Adapter) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL+"/models", nil)
	if err != nil {
		return services.NewInternalError("build probe request", err)
	}
	a.setHeaders(httpReq)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return services.NewProviderError(a.cfg.Name, "", "health probe failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return services.NewProviderError(a.cfg.Name, "",
			fmt.Sprintf("health probe returned status %d", resp.StatusCode), nil)
	}
	return nil
}

func (a *Adapter) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if a.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	}
	for k, v := range a.cfg.Headers {
		req.Header.Set(k, v)
	}
}

func (a *Adapter) buildWireRequest(req *providers.ChatRequest) *wireRequest {
	wire := &wireRequest{
		Model:    req.Model,
		Messages: make([]wireMessage, len(req.Messages)),
		Stream:   req.Stream,
	}
	for i, msg := range req.Messages {
		wire.Messages[i] = wireMessage{Role: msg.Role, Content: msg.Content}
	}
	if req.MaxTokens > 0 {
		wire.MaxTokens = &req.MaxTokens
	}
	if req.Temperature > 0 {
		wire.Temperature = &req.Temperature
	}
	if req.TopP > 0 {
		wire.TopP = &req.TopP
	}
	return wire
}

func (a *Adapter) toUnifiedResponse(wire *wireResponse, latency time.Duration) *providers.ChatResponse {
	resp := &providers.ChatResponse{
		ID:       wire.ID,
		Provider: a.cfg.Name,
		Model:    wire.Model,
		Choices:  make([]providers.Choice, len(wire.Choices)),
		Usage: providers.Usage{
			PromptTokens:     wire.Usage.PromptTokens,
			CompletionTokens: wire.Usage.CompletionTokens,
			TotalTokens:      wire.Usage.TotalTokens,
		},
		Latency: latency,
		Created: time.Unix(wire.Created, 0),
	}
	for i, c := range wire.Choices {
		resp.Choices[i] = providers.Choice{
			Index:        c.Index,
			Message:      providers.Message{Role: c.Message.Role, Content: c.Message.Content},
			FinishReason: c.FinishReason,
		}
	}
	return resp
}

func (a *Adapter) errorFromResponse(model string, statusCode int, body []byte) error {
	var wire wireErrorResponse
	message := string(body)
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error.Message != "" {
		message = wire.Error.Message
	}
	return services.ClassifyProviderFailure(a.cfg.Name, model, statusCode, message, nil)
}

// Wire-format request/response types

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []wireChoice `json:"choices"`
	Usage   wireUsage    `json:"usage"`
}

type wireChoice struct {
	Index        int         `json:"index"`
	Message      wireMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type wireUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type wireErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
