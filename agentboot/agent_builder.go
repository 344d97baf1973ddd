package agentboot

import (
	"github.com/SaiNageswarS/course-rag/llm"
)

type AgentBuilder struct {
	config AgentConfig
}

func NewAgentBuilder() *AgentBuilder {
	return &AgentBuilder{
		config: AgentConfig{
			MaxTokens:   800,
			Temperature: 0,
		},
	}
}

func (b *AgentBuilder) WithModel(client llm.LLMClient) *AgentBuilder {
	b.config.Model = client
	return b
}

func (b *AgentBuilder) WithTools(executor ToolExecutor) *AgentBuilder {
	b.config.Tools = executor
	return b
}

func (b *AgentBuilder) WithMaxTokens(max int) *AgentBuilder {
	b.config.MaxTokens = max
	return b
}

func (b *AgentBuilder) WithTemperature(temp float64) *AgentBuilder {
	b.config.Temperature = temp
	return b
}

func (b *AgentBuilder) Build() *Agent {
	return &Agent{config: b.config}
}
