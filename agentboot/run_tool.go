package agentboot

import (
	"context"
	"fmt"

	"github.com/SaiNageswarS/course-rag/llm"
	"github.com/SaiNageswarS/course-rag/tools"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.uber.org/zap"
)

// RunTools executes a batch of tool calls concurrently. Results come back in call order
// regardless of which lookup finishes first.
func (a *Agent) RunTools(ctx context.Context, reporter ProgressReporter, calls []llm.ToolCall) []tools.Result {
	tasks := make([]<-chan async.Result[tools.Result], len(calls))
	for i, call := range calls {
		tasks[i] = a.runTool(ctx, reporter, call)
	}

	results, err := async.AwaitAll(tasks...)
	if err != nil {
		// runTool never fails, so this only guards against a short result set
		logger.Error("Failed to collect tool results", zap.Error(err))
	}
	if len(results) != len(calls) {
		results = make([]tools.Result, len(calls))
		for i := range results {
			results[i] = tools.Result{Text: tools.ExecutionFailed}
		}
	}
	return results
}

func (a *Agent) runTool(ctx context.Context, reporter ProgressReporter, call llm.ToolCall) <-chan async.Result[tools.Result] {
	return async.Go(func() (result tools.Result, err error) {
		name := call.Function.Name
		reporter.Send(NewProgressUpdate(
			StageToolExecutionStart,
			fmt.Sprintf("Running tool %s with arguments: %s", name, formatToolArgs(call.Function.Arguments))))

		defer func() {
			if p := recover(); p != nil {
				logger.Error("Tool execution failed", zap.String("tool", name), zap.Any("panic", p))
				reporter.Send(NewStreamError(fmt.Sprintf("tool %s failed", name), "tool_execution_failed"))
				result, err = tools.Result{Text: tools.ExecutionFailed}, nil
			}
		}()

		if a.config.Tools == nil {
			return tools.Result{Text: fmt.Sprintf("Tool '%s' not found", name)}, nil
		}
		result = a.config.Tools.Execute(ctx, name, call.Function.Arguments)

		reporter.Send(NewProgressUpdate(
			StageToolExecutionDone,
			fmt.Sprintf("Tool %s completed with %d sources", name, len(result.Sources))))
		return result, nil
	})
}
