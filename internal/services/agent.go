package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

type AgentKind int

const (
	ToolBacked AgentKind = iota
	ModelBacked
)

// ToolFunc is a deterministic substitute for a model call. It receives the
// accumulated context mapping and returns structured output.
type ToolFunc func(contextData map[string]any) (any, error)

// Agent is a named role that either prompts the model gateway or delegates
// to a deterministic tool. Execution never panics; failures come back as an
// empty result plus the underlying error, so callers can either treat empty
// as the degradation signal or surface the error in strict mode.
type Agent struct {
	Name      string
	Role      string
	Goal      string
	Backstory string

	kind    AgentKind
	tool    ToolFunc
	gateway LLMGateway
}

func NewModelAgent(name, role, goal, backstory string, gateway LLMGateway) *Agent {
	return &Agent{
		Name:      name,
		Role:      role,
		Goal:      goal,
		Backstory: backstory,
		kind:      ModelBacked,
		gateway:   gateway,
	}
}

func NewToolAgent(name, role string, tool ToolFunc) *Agent {
	return &Agent{
		Name: name,
		Role: role,
		kind: ToolBacked,
		tool: tool,
	}
}

func (a *Agent) Kind() AgentKind {
	return a.kind
}

// ExecuteObject runs a task expected to yield a JSON object. On failure the
// returned map is empty and the error carries the cause.
func (a *Agent) ExecuteObject(ctx context.Context, task string, contextData map[string]any) (map[string]any, error) {
	log.Printf("🤖 [%s] Working on: %s", a.Role, truncateText(task, 50))

	switch a.kind {
	case ToolBacked:
		result, err := a.runTool(contextData)
		if err != nil {
			return map[string]any{}, err
		}
		obj, ok := result.(map[string]any)
		if !ok {
			return map[string]any{}, fmt.Errorf("%w: tool returned non-object result", ErrShapeMismatch)
		}
		return obj, nil

	default:
		raw, err := a.generate(ctx, task, contextData)
		if err != nil {
			return map[string]any{}, err
		}
		obj, err := NormalizeObject(raw)
		if err != nil {
			log.Printf("⚠️  [%s] Failed to normalize response: %v", a.Role, err)
			return map[string]any{}, err
		}
		return obj, nil
	}
}

// ExecuteList runs a task expected to yield a JSON list. On failure the
// returned slice is empty and the error carries the cause.
func (a *Agent) ExecuteList(ctx context.Context, task string, contextData map[string]any) ([]any, error) {
	log.Printf("🤖 [%s] Working on: %s", a.Role, truncateText(task, 50))

	switch a.kind {
	case ToolBacked:
		result, err := a.runTool(contextData)
		if err != nil {
			return []any{}, err
		}
		list, ok := result.([]any)
		if !ok {
			return []any{}, fmt.Errorf("%w: tool returned non-list result", ErrShapeMismatch)
		}
		return list, nil

	default:
		raw, err := a.generate(ctx, task, contextData)
		if err != nil {
			return []any{}, err
		}
		list, err := NormalizeList(raw)
		if err != nil {
			log.Printf("⚠️  [%s] Failed to normalize response: %v", a.Role, err)
			return []any{}, err
		}
		return list, nil
	}
}

func (a *Agent) runTool(contextData map[string]any) (any, error) {
	if a.tool == nil {
		return nil, fmt.Errorf("%w: agent %s has no tool", ErrInvalidInput, a.Name)
	}
	if contextData == nil {
		contextData = map[string]any{}
	}
	return a.tool(contextData)
}

func (a *Agent) generate(ctx context.Context, task string, contextData map[string]any) (string, error) {
	prompt := a.buildPrompt(task, contextData)

	raw, err := a.gateway.Generate(ctx, prompt, FormatJSON)
	if err != nil {
		log.Printf("⚠️  [%s] Generation failed: %v", a.Role, err)
		return "", err
	}
	return raw, nil
}

func (a *Agent) buildPrompt(task string, contextData map[string]any) string {
	contextJSON := "{}"
	if len(contextData) > 0 {
		if buf, err := json.MarshalIndent(contextData, "", "  "); err == nil {
			contextJSON = string(buf)
		}
	}

	return fmt.Sprintf(`You are %s, a %s.
Goal: %s
Backstory: %s

Task: %s

Context Data:
%s

IMPORTANT: Output must be valid JSON only. No markdown formatting.`,
		a.Name, a.Role, a.Goal, a.Backstory, task, contextJSON)
}

func truncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
