// Package llm is a small provider-neutral client for structured JSON
// generation. Narration is its only consumer; the question engine never
// depends on it.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a response for a Request.
type Provider interface {
	// Generate sends the request. When req.Schema is set the returned
	// Content is JSON that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the provider for JSON conforming to it using
	// the provider's native structured output.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one conversation turn.
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

// UserMessage is a single-turn conversation.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name is kebab-case, e.g. "word-problem". It doubles as the cache key
	// for the compiled schema.
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons, normalised across providers.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response holds the LLM's output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Decode unmarshals the response content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	return nil
}

// finish turns raw provider output into a Response. Truncated output is an
// ErrMaxTokensExceeded; otherwise the content is checked against the
// request schema.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through as direct model IDs.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
