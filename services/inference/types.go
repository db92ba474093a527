package inference

import (
	"time"

	"github.com/lumni-ai/lumni-gateway/catalog"
	"github.com/lumni-ai/lumni-gateway/services/classifier"
	"github.com/lumni-ai/lumni-gateway/services/providers"
)

// CompletionRequest is the gateway's inbound chat completion request.
// Provider, Model, and Tier are all optional; anything left blank is
// resolved by classification and selection.
type CompletionRequest struct {
	// Messages in the conversation
	Messages []providers.Message `json:"messages" validate:"required,min=1,max=100,dive"`

	// Provider pins the request to one provider (optional).
	Provider string `json:"provider,omitempty"`

	// Model pins the request to one model (optional).
	Model string `json:"model,omitempty"`

	// Tier requests a model class: fast, powerful, or auto.
	Tier catalog.Tier `json:"tier,omitempty" validate:"omitempty,oneof=fast powerful auto"`

	// MaxTokens limits the response length
	MaxTokens int `json:"max_tokens,omitempty" validate:"omitempty,min=1,max=1000000"`

	// Temperature controls randomness (0.0 to 2.0)
	Temperature float64 `json:"temperature,omitempty" validate:"omitempty,min=0,max=2"`

	// TopP controls nucleus sampling
	TopP float64 `json:"top_p,omitempty" validate:"omitempty,min=0,max=1"`
}

// Routing explains how the gateway dispatched a request.
type Routing struct {
	Provider        string                     `json:"provider"`
	Model           string                     `json:"model"`
	Tier            catalog.Tier               `json:"tier"`
	Reason          string                     `json:"reason"`
	Classification  *classifier.Classification `json:"classification,omitempty"`
	Attempts        int                        `json:"attempts"`
	ProviderHealthy bool                       `json:"provider_healthy"`
}

// CompletionResponse is the gateway's outbound response: the provider
// result plus the routing decision that produced it.
type CompletionResponse struct {
	RequestID string             `json:"request_id"`
	Choices   []providers.Choice `json:"choices"`
	Usage     providers.Usage    `json:"usage"`
	Latency   time.Duration      `json:"latency_ms"`
	Created   time.Time          `json:"created"`
	Routing   Routing            `json:"routing"`
}
