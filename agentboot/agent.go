package agentboot

import (
	"context"
	"errors"

	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/course-rag/llm"
	"github.com/SaiNageswarS/course-rag/tools"
	"github.com/ollama/ollama/api"
)

// maxRounds caps model calls per turn. It bounds latency and cost against a billed
// service, so it is not configurable.
const maxRounds = 2

var ErrGeneration = errors.New("text generation failed")

// ToolExecutor runs tools by name and exposes their schemas.
type ToolExecutor interface {
	Definitions() []api.Tool
	Execute(ctx context.Context, name string, args api.ToolCallFunctionArguments) tools.Result
}

// AgentConfig holds configuration for the agent
type AgentConfig struct {
	Model       llm.LLMClient
	Tools       ToolExecutor
	MaxTokens   int
	Temperature float64
}

// Agent answers one question per Execute call, letting the model search before it answers.
type Agent struct {
	config AgentConfig
}

type GenerateRequest struct {
	Question string
	History  []llm.Message
}

type Answer struct {
	Text           string
	Sources        []course.Source
	ToolsUsed      []string
	Rounds         int
	ProcessingTime int64
}
