package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const (
	ExecutionFailed    = "Tool execution failed"
	SearchUnavailable  = "Course search is unavailable right now."
	OutlineUnavailable = "Course outline is unavailable right now."
)

// Registry maps tool names to tools. It is fixed once built.
type Registry struct {
	tools map[string]Tool
	defs  []api.Tool
}

func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		def := t.Definition()
		name := def.Function.Name
		if name == "" {
			return nil, errors.New("tool must have a name")
		}
		if _, dup := r.tools[name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}
		r.tools[name] = t
		r.defs = append(r.defs, def)
	}
	return r, nil
}

// Definitions returns tool schemas in registration order.
func (r *Registry) Definitions() []api.Tool {
	return r.defs
}

// Execute runs the named tool. It never fails: unknown tools and panics become result text.
func (r *Registry) Execute(ctx context.Context, name string, args api.ToolCallFunctionArguments) (result Result) {
	t, ok := r.tools[name]
	if !ok {
		return textResult("Tool '%s' not found", name)
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("Tool panicked", zap.String("tool", name), zap.Any("panic", p))
			result = Result{Text: ExecutionFailed}
		}
	}()

	return t.Execute(ctx, args)
}
