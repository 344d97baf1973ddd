package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAICompatClient drives any OpenAI-compatible chat endpoint through langchaingo.
// OPENAI_BASE_URL selects the endpoint and OPENAI_API_KEY the credentials.
type OpenAICompatClient struct {
	llm   llms.Model
	model string
}

func NewOpenAICompatClient(model string) (LLMClient, error) {
	opts := []openai.Option{openai.WithModel(model)}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		opts = append(opts, openai.WithToken(strings.TrimPrefix(key, "Bearer ")))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing openai client: %w", err)
	}
	return &OpenAICompatClient{llm: llm, model: model}, nil
}

func (c *OpenAICompatClient) Capabilities() Capability {
	return NativeToolCalling
}

func (c *OpenAICompatClient) GetModel() string {
	return c.model
}

func (c *OpenAICompatClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	return c.GenerateInferenceWithTools(ctx, messages, callback, nil, opts...)
}

func (c *OpenAICompatClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []ToolCall) error,
	opts ...LLMOption,
) error {
	settings := newSettings(c.model, opts)

	callOpts := []llms.CallOption{
		llms.WithMaxTokens(settings.maxTokens),
		llms.WithTemperature(settings.temperature),
	}
	if toolCallback != nil && len(settings.tools) > 0 {
		callOpts = append(callOpts, llms.WithTools(toLangchainTools(settings.tools)))
	}

	resp, err := c.llm.GenerateContent(ctx, toMessageContent(settings.system, messages), callOpts...)
	if err != nil {
		return fmt.Errorf("error generating content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0]
	if len(choice.ToolCalls) > 0 && toolCallback != nil {
		calls := make([]ToolCall, 0, len(choice.ToolCalls))
		for _, tc := range choice.ToolCalls {
			if tc.FunctionCall == nil {
				continue
			}
			var args map[string]any
			if tc.FunctionCall.Arguments != "" {
				if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
					return fmt.Errorf("error parsing tool call arguments: %w", err)
				}
			}
			calls = append(calls, ToolCall{
				ID:       tc.ID,
				Function: api.ToolCallFunction{Name: tc.FunctionCall.Name, Arguments: args},
			})
		}
		return toolCallback(calls)
	}

	return contentCallback(choice.Content)
}

func toMessageContent(system string, messages []Message) []llms.MessageContent {
	var out []llms.MessageContent
	if system != "" {
		out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}

	for _, m := range messages {
		switch m.Role {
		case RoleTool:
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: m.ToolCallID,
					Name:       m.Name,
					Content:    m.Content,
				}},
			})

		case RoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if m.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				args, _ := json.Marshal(tc.Function.Arguments)
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:           tc.ID,
					Type:         "function",
					FunctionCall: &llms.FunctionCall{Name: tc.Function.Name, Arguments: string(args)},
				})
			}
			out = append(out, mc)

		case RoleSystem:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))

		default:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		}
	}
	return out
}

func toLangchainTools(tools []api.Tool) []llms.Tool {
	out := make([]llms.Tool, len(tools))
	for i, t := range tools {
		out[i] = llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  t.Function.Parameters,
			},
		}
	}
	return out
}
