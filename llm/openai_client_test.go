package llm

import (
	"context"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	messages []llms.MessageContent
	resp     *llms.ContentResponse
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	return f.resp, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

func TestOpenAICompatClient_ToolCalls(t *testing.T) {
	fake := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{{
			ID:           "call_9",
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: "search_course_content", Arguments: `{"query":"rag","lesson_number":2}`},
		}},
	}}}}
	client := &OpenAICompatClient{llm: fake, model: "gpt-test"}

	var calls []ToolCall
	err := client.GenerateInferenceWithTools(context.Background(),
		[]Message{{Role: RoleUser, Content: "q"}},
		func(string) error { t.Fatal("unexpected content"); return nil },
		func(tc []ToolCall) error { calls = tc; return nil },
		WithTools([]api.Tool{searchTool()}),
		WithSystemPrompt("sys"),
	)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "call_9", calls[0].ID)
	assert.Equal(t, float64(2), calls[0].Function.Arguments["lesson_number"])

	require.Len(t, fake.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[1].Role)
}

func TestToMessageContent_ToolRound(t *testing.T) {
	call := ToolCall{ID: "call_1", Function: api.ToolCallFunction{Name: "get_course_outline", Arguments: api.ToolCallFunctionArguments{"course_name": "MCP"}}}
	out := toMessageContent("", []Message{
		{Role: RoleUser, Content: "outline?"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{call}},
		NewToolResultMessage(call, "Course: MCP"),
	})

	require.Len(t, out, 3)
	assert.Equal(t, llms.ChatMessageTypeAI, out[1].Role)
	tc, ok := out[1].Parts[0].(llms.ToolCall)
	require.True(t, ok)
	assert.Equal(t, "call_1", tc.ID)
	assert.JSONEq(t, `{"course_name":"MCP"}`, tc.FunctionCall.Arguments)

	assert.Equal(t, llms.ChatMessageTypeTool, out[2].Role)
	assert.Equal(t, llms.ToolCallResponse{ToolCallID: "call_1", Name: "get_course_outline", Content: "Course: MCP"}, out[2].Parts[0])
}

func TestOpenAICompatClient_Content(t *testing.T) {
	fake := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "plain answer"}}}}
	client := &OpenAICompatClient{llm: fake, model: "gpt-test"}

	var got string
	require.NoError(t, client.GenerateInference(context.Background(),
		[]Message{{Role: RoleUser, Content: "q"}}, func(s string) error { got = s; return nil }))
	assert.Equal(t, "plain answer", got)
}
