package agent

import (
	"fmt"
	"strings"
)

// UnknownToolError reports a dispatch against a name that is not in the
// registry. It is fed back to the model as a tool-result error, never
// surfaced raw to the end user.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// InvalidArgumentsError reports arguments that fail the declared parameter
// schema. Problems holds one human-readable description per violation.
type InvalidArgumentsError struct {
	Tool     string
	Problems []string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(e.Problems, "; "))
}

// ToolLoopExceededError ends a turn whose model kept requesting tools past
// the configured round limit. The session stays alive for future turns.
type ToolLoopExceededError struct {
	Rounds int
}

func (e *ToolLoopExceededError) Error() string {
	return fmt.Sprintf("tool dispatch loop exceeded %d rounds", e.Rounds)
}

// ModelUnavailableError wraps a model transport failure that survived the
// retry policy. The turn fails; resubmitting the same user text is safe.
type ModelUnavailableError struct {
	Err error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model unavailable: %v", e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }
