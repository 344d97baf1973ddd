package handlers

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/SaiNageswarS/course-rag/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
)

// ToolRunner is the tool registry seen from the MCP side.
type ToolRunner interface {
	Definitions() []api.Tool
	Execute(ctx context.Context, name string, args api.ToolCallFunctionArguments) tools.Result
}

// CourseToolHandler serves one course tool over MCP.
type CourseToolHandler struct {
	runner ToolRunner
	Tool   mcp.Tool
}

// ProvideCourseToolHandlers returns one handler per registered tool, in registration order.
func ProvideCourseToolHandlers(runner ToolRunner) []*CourseToolHandler {
	defs := runner.Definitions()
	out := make([]*CourseToolHandler, 0, len(defs))
	for _, def := range defs {
		out = append(out, &CourseToolHandler{runner: runner, Tool: toMCPTool(def)})
	}
	return out
}

func (h *CourseToolHandler) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := h.runner.Execute(ctx, h.Tool.Name, api.ToolCallFunctionArguments(req.GetArguments()))
	if result.Text == tools.ExecutionFailed {
		return mcp.NewToolResultError(result.Text), nil
	}
	return mcp.NewToolResultText(withSources(result)), nil
}

func withSources(result tools.Result) string {
	if len(result.Sources) == 0 {
		return result.Text
	}

	var sb strings.Builder
	sb.WriteString(result.Text)
	sb.WriteString("\n\nSources:")
	for _, src := range result.Sources {
		if src.Link != "" {
			fmt.Fprintf(&sb, "\n- %s (%s)", src.Display, src.Link)
		} else {
			fmt.Fprintf(&sb, "\n- %s", src.Display)
		}
	}
	return sb.String()
}

func toMCPTool(def api.Tool) mcp.Tool {
	params := def.Function.Parameters
	names := make([]string, 0, len(params.Properties))
	for name := range params.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := []mcp.ToolOption{mcp.WithDescription(def.Function.Description)}
	for _, name := range names {
		prop := params.Properties[name]
		propOpts := []mcp.PropertyOption{mcp.Description(prop.Description)}
		if slices.Contains(params.Required, name) {
			propOpts = append(propOpts, mcp.Required())
		}

		if slices.Contains(prop.Type, "integer") || slices.Contains(prop.Type, "number") {
			opts = append(opts, mcp.WithNumber(name, propOpts...))
		} else {
			opts = append(opts, mcp.WithString(name, propOpts...))
		}
	}
	return mcp.NewTool(def.Function.Name, opts...)
}
