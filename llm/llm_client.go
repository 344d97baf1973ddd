package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
)

type Capability uint8

const (
	NativeToolCalling Capability = 1 << iota
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

type LLMClient interface {
	GenerateInference(
		ctx context.Context,
		messages []Message,
		callback func(chunk string) error,
		opts ...LLMOption,
	) error

	// GenerateInferenceWithTools calls exactly one of the callbacks: contentCallback
	// with the answer text, or toolCallback with the requested invocations.
	GenerateInferenceWithTools(
		ctx context.Context,
		messages []Message,
		contentCallback func(chunk string) error,
		toolCallback func(toolCalls []ToolCall) error,
		opts ...LLMOption,
	) error

	Capabilities() Capability

	GetModel() string
}

type LLMSettings struct {
	model       string     // model name
	temperature float64    // randomness (0.0 to 1.0)
	maxTokens   int        // maximum tokens to generate
	system      string     // system prompt
	stream      bool       // whether to stream response
	tools       []api.Tool // tools to use for tool calling
}

type LLMOption func(*LLMSettings)

func newSettings(model string, opts []LLMOption) LLMSettings {
	settings := LLMSettings{
		model:       model,
		temperature: 0,
		maxTokens:   800,
	}
	for _, opt := range opts {
		opt(&settings)
	}
	return settings
}

// Common options for all LLM providers
func WithTemperature(temp float64) LLMOption {
	return func(s *LLMSettings) { s.temperature = temp }
}

func WithMaxTokens(tokens int) LLMOption {
	return func(s *LLMSettings) { s.maxTokens = tokens }
}

func WithSystemPrompt(prompt string) LLMOption {
	return func(s *LLMSettings) { s.system = prompt }
}

func WithStreaming(stream bool) LLMOption {
	return func(s *LLMSettings) { s.stream = stream }
}

func WithTools(tools []api.Tool) LLMOption {
	return func(s *LLMSettings) { s.tools = tools }
}

// ToolCall is a model's request to run a tool. ID must be echoed back on the
// tool message that carries the result.
type ToolCall struct {
	ID       string               `json:"id"`
	Function api.ToolCallFunction `json:"function"`
}

type Message struct {
	Role       string     `json:"role"`    // "user", "assistant", "system", "tool"
	Content    string     `json:"content"` // the message content
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on "tool" messages
	Name       string     `json:"name,omitempty"`         // tool name on "tool" messages
}

func NewToolResultMessage(call ToolCall, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: call.ID, Name: call.Function.Name}
}

// NewClient builds a client for the named provider.
func NewClient(provider, model string) (LLMClient, error) {
	switch strings.ToLower(provider) {
	case "anthropic":
		return NewAnthropicClient(model), nil
	case "groq":
		return NewGroqClient(model), nil
	case "ollama":
		return NewOllamaClient(model)
	case "openai":
		return NewOpenAICompatClient(model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
