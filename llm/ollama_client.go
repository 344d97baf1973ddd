package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaChatter interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// OllamaClient talks to a local Ollama server. Ollama assigns no invocation ids,
// so ids are synthesized from the tool call position.
type OllamaClient struct {
	client ollamaChatter
	model  string
}

func NewOllamaClient(model string) (LLMClient, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("error creating ollama client: %w", err)
	}
	return &OllamaClient{client: client, model: model}, nil
}

func (c *OllamaClient) Capabilities() Capability {
	return NativeToolCalling
}

func (c *OllamaClient) GetModel() string {
	return c.model
}

func (c *OllamaClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	return c.GenerateInferenceWithTools(ctx, messages, callback, nil, opts...)
}

func (c *OllamaClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []ToolCall) error,
	opts ...LLMOption,
) error {
	settings := newSettings(c.model, opts)
	stream := false

	req := &api.ChatRequest{
		Model:  settings.model,
		Stream: &stream,
		Options: map[string]any{
			"temperature": settings.temperature,
			"num_predict": settings.maxTokens,
		},
	}
	if settings.system != "" {
		req.Messages = append(req.Messages, api.Message{Role: RoleSystem, Content: settings.system})
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, toOllamaMessage(m))
	}
	if toolCallback != nil {
		req.Tools = settings.tools
	}

	var (
		content strings.Builder
		calls   []ToolCall
	)
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		for _, tc := range resp.Message.ToolCalls {
			calls = append(calls, ToolCall{
				ID:       fmt.Sprintf("call_%d", len(calls)),
				Function: tc.Function,
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}

	if len(calls) > 0 && toolCallback != nil {
		return toolCallback(calls)
	}
	return contentCallback(content.String())
}

func toOllamaMessage(m Message) api.Message {
	out := api.Message{Role: m.Role, Content: m.Content}
	for _, tc := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, api.ToolCall{Function: tc.Function})
	}
	return out
}
