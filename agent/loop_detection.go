package agent

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// toolCallSignature computes a deterministic signature for a tool call
// (name + hash of arguments).
func toolCallSignature(name string, arguments json.RawMessage) string {
	h := sha256.Sum256(arguments)
	return fmt.Sprintf("%s:%x", name, h[:8])
}

// repeatTracker remembers the tool calls seen within one user turn so the
// session can flag when the model re-requests an identical call. The model
// is still allowed to proceed; the signal is a warning event, with the round
// bound as the hard stop.
type repeatTracker struct {
	seen map[string]int
}

func newRepeatTracker() *repeatTracker {
	return &repeatTracker{seen: make(map[string]int)}
}

// Observe records a tool call and reports how many times the identical call
// (same name, same arguments) has been seen before in this turn.
func (t *repeatTracker) Observe(name string, arguments json.RawMessage) int {
	sig := toolCallSignature(name, arguments)
	prior := t.seen[sig]
	t.seen[sig] = prior + 1
	return prior
}
