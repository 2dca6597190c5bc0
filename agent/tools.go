package agent

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ToolDeclaration describes a callable tool to the model: a unique name, a
// natural-language description, and a JSON Schema for its parameters.
type ToolDeclaration struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolHandler executes a tool with validated arguments and returns an
// acknowledgement mapping that is fed back to the model. Handlers must not
// call back into the session.
type ToolHandler func(args map[string]interface{}) (map[string]interface{}, error)

// Tool pairs a declaration with its handler.
type Tool struct {
	Declaration ToolDeclaration
	Handler     ToolHandler
}

// Registry holds the fixed tool set. The set is established at construction
// and never changes; unknown names produce a typed error rather than a
// lookup miss.
type Registry struct {
	tools []Tool
	index map[string]int
}

// NewRegistry creates a registry over the given tools. Declaration order is
// preserved and stable across Declarations calls.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools: tools,
		index: make(map[string]int, len(tools)),
	}
	for i, tool := range tools {
		if tool.Declaration.Name == "" {
			return nil, fmt.Errorf("tool at position %d has no name", i)
		}
		if _, dup := r.index[tool.Declaration.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name: %s", tool.Declaration.Name)
		}
		if tool.Handler == nil {
			return nil, fmt.Errorf("tool %s has no handler", tool.Declaration.Name)
		}
		r.index[tool.Declaration.Name] = i
	}
	return r, nil
}

// Declarations returns the tool declarations in registration order.
func (r *Registry) Declarations() []ToolDeclaration {
	decls := make([]ToolDeclaration, len(r.tools))
	for i, tool := range r.tools {
		decls[i] = tool.Declaration
	}
	return decls
}

// Dispatch validates the raw arguments against the declared schema and runs
// the handler. Unknown names return *UnknownToolError; schema violations
// return *InvalidArgumentsError. Handler errors pass through unchanged.
func (r *Registry) Dispatch(name string, raw json.RawMessage) (map[string]interface{}, error) {
	idx, ok := r.index[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	tool := r.tools[idx]

	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}

	if schema := tool.Declaration.Parameters; schema != nil {
		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(schema),
			gojsonschema.NewBytesLoader(raw),
		)
		if err != nil {
			return nil, &InvalidArgumentsError{
				Tool:     name,
				Problems: []string{err.Error()},
			}
		}
		if !result.Valid() {
			problems := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
			}
			return nil, &InvalidArgumentsError{Tool: name, Problems: problems}
		}
	}

	var args map[string]interface{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, &InvalidArgumentsError{
			Tool:     name,
			Problems: []string{fmt.Sprintf("arguments are not a JSON object: %v", err)},
		}
	}

	return tool.Handler(args)
}
