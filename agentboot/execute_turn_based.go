package agentboot

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/course-rag/llm"
	"github.com/SaiNageswarS/course-rag/prompts"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

// Execute runs at most two model rounds. A text reply ends the turn. Tool requests in
// round one are executed and their results fed back for round two. Tool requests in
// round two are executed and the answer is built from their results without calling
// the model again.
func (a *Agent) Execute(ctx context.Context, reporter ProgressReporter, req *GenerateRequest) (*Answer, error) {
	startTime := getCurrentTimeMs()
	if reporter == nil {
		reporter = &NoOpProgressReporter{}
	}
	if a.config.Model == nil {
		return nil, fmt.Errorf("%w: no model configured", ErrGeneration)
	}

	answer := &Answer{Sources: []course.Source{}, ToolsUsed: []string{}}

	messages := make([]llm.Message, 0, len(req.History)+4)
	messages = append(messages, req.History...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Question})

	for round := 1; round <= maxRounds; round++ {
		answer.Rounds = round
		reporter.Send(NewProgressUpdate(StageModelCall, fmt.Sprintf("Model round %d of %d", round, maxRounds)))

		text, calls, err := a.callModel(ctx, messages, round)
		if err != nil {
			logger.Error("Failed to run inference", zap.Int("round", round), zap.Error(err))
			reporter.Send(NewStreamError(err.Error(), "inference_failed"))
			return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
		}

		if len(calls) == 0 {
			answer.Text = text
			break
		}

		results := a.RunTools(ctx, reporter, calls)
		answer.ToolsUsed = append(answer.ToolsUsed, toolNames(calls)...)
		for _, r := range results {
			answer.Sources = append(answer.Sources, r.Sources...)
		}

		if round == maxRounds {
			answer.Text = synthesizeAnswer(results)
			break
		}

		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: text, ToolCalls: calls})
		for i, call := range calls {
			messages = append(messages, llm.NewToolResultMessage(call, results[i].Text))
		}
	}

	// an abandoned turn must not produce an answer that gets persisted
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	answer.ProcessingTime = getCurrentTimeMs() - startTime
	reporter.Send(NewProgressUpdate(StageAnswerComplete,
		fmt.Sprintf("Answered in %d rounds using %d sources", answer.Rounds, len(answer.Sources))))
	return answer, nil
}

func (a *Agent) callModel(ctx context.Context, messages []llm.Message, round int) (string, []llm.ToolCall, error) {
	systemPrompt, err := prompts.RenderSystemPrompt(round, maxRounds)
	if err != nil {
		return "", nil, fmt.Errorf("error rendering system prompt: %w", err)
	}

	var (
		text  strings.Builder
		calls []llm.ToolCall
	)
	opts := []llm.LLMOption{
		llm.WithSystemPrompt(systemPrompt),
		llm.WithMaxTokens(a.config.MaxTokens),
		llm.WithTemperature(a.config.Temperature),
	}
	if a.config.Tools != nil {
		opts = append(opts, llm.WithTools(a.config.Tools.Definitions()))
	}

	err = a.config.Model.GenerateInferenceWithTools(
		ctx, messages,
		func(chunk string) error {
			text.WriteString(chunk)
			return nil
		},
		func(toolCalls []llm.ToolCall) error {
			calls = append(calls, toolCalls...)
			return nil
		},
		opts...,
	)
	if err != nil {
		return "", nil, err
	}
	return text.String(), calls, nil
}
