package tools

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/SaiNageswarS/course-rag/course"
	"github.com/SaiNageswarS/course-rag/index"
	"github.com/ollama/ollama/api"
)

// Tool is a callable function offered to the model.
type Tool interface {
	Definition() api.Tool
	Execute(ctx context.Context, args api.ToolCallFunctionArguments) Result
}

// Result is the text handed back to the model together with the sources it was built from.
type Result struct {
	Text    string
	Sources []course.Source
}

func textResult(format string, a ...any) Result {
	return Result{Text: fmt.Sprintf(format, a...)}
}

// CourseSearcher is the part of the course index the tools read from.
type CourseSearcher interface {
	SearchContent(ctx context.Context, query string, filter index.Filter, topK int) ([]index.ScoredChunk, error)
	ResolveCourse(ctx context.Context, partialName string) (index.CourseMatch, bool)
	GetCourse(ctx context.Context, title string) (*course.Course, error)
}

// Builder defines a tool schema.
type Builder struct {
	tool api.Tool
}

func NewBuilder(name, description string) *Builder {
	b := &Builder{
		tool: api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        name,
				Description: description,
			},
		},
	}

	b.tool.Function.Parameters.Type = "object"
	b.tool.Function.Parameters.Properties = make(map[string]api.ToolProperty, 4)
	return b
}

func (b *Builder) StringParam(name, desc string, required bool) *Builder {
	b.setProp(name, api.ToolProperty{Type: api.PropertyType{"string"}, Description: desc}, required)
	return b
}

func (b *Builder) IntParam(name, desc string, required bool) *Builder {
	b.setProp(name, api.ToolProperty{Type: api.PropertyType{"integer"}, Description: desc}, required)
	return b
}

func (b *Builder) Build() api.Tool {
	return b.tool
}

func (b *Builder) setProp(name string, p api.ToolProperty, required bool) {
	b.tool.Function.Parameters.Properties[name] = p
	if required && !slices.Contains(b.tool.Function.Parameters.Required, name) {
		b.tool.Function.Parameters.Required = append(b.tool.Function.Parameters.Required, name)
	}
}

func stringArg(args api.ToolCallFunctionArguments, name string) string {
	switch v := args[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// intArg accepts JSON numbers and numeric strings, since models send either.
func intArg(args api.ToolCallFunctionArguments, name string) (*int, error) {
	var n int
	switch v := args[name].(type) {
	case nil:
		return nil, nil
	case float64:
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("parameter '%s' must be an integer", name)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("parameter '%s' must be an integer", name)
	}
	return &n, nil
}
