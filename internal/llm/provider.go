package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive structured JSON.
type Provider interface {
	// Generate sends a prompt to the LLM and returns a structured response.
	// When the request carries a Schema, Content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the default model this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// Model overrides the provider's configured model for this request.
	Model string

	// System is the system prompt.
	System string

	// Messages is the conversation history. Course generation sends a
	// single user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When nil, the response Content is the raw model text.
	Schema *Schema

	// MaxTokens caps the response length. Zero leaves the provider default.
	MaxTokens int

	// Sampling parameters. Zero values are not sent, except TopP which is
	// only sent when in (0, 1).
	Temperature      float64
	TopP             float64
	PresencePenalty  float64
	FrequencyPenalty float64

	// LogitBias maps token ids to a bias in [-100, 100]. Only OpenAI
	// honors it.
	LogitBias map[string]int
}

// model returns the model to call: the request override or fallback.
func (r Request) model(fallback string) string {
	if r.Model != "" {
		return r.Model
	}
	return fallback
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// validation). Kebab-case, e.g. "course-structures".
	Name string

	// Description is sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
