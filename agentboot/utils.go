package agentboot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SaiNageswarS/course-rag/llm"
	"github.com/SaiNageswarS/course-rag/tools"
	"github.com/ollama/ollama/api"
)

func getCurrentTimeMs() int64 {
	return time.Now().UnixMilli()
}

// formatToolArgs renders arguments as sorted key=value pairs for progress messages.
func formatToolArgs(params api.ToolCallFunctionArguments) string {
	if len(params) == 0 {
		return "(no parameters)"
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, params[k])
	}
	return strings.Join(pairs, ", ")
}

func toolNames(calls []llm.ToolCall) []string {
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Function.Name
	}
	return names
}

// synthesizeAnswer builds the final answer from tool output when no model round is left.
func synthesizeAnswer(results []tools.Result) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		if t := strings.TrimSpace(r.Text); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return "No relevant content found."
	}
	return strings.Join(texts, "\n\n")
}
