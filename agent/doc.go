// Package agent implements the conversation core: a Session owning an
// append-only transcript, a bounded dispatch loop that alternates between
// model calls and tool execution, a fixed tool registry with schema
// validation, and the prompt builder that pins the model to its grounding
// material.
//
// The session talks to the model through the llmclient.Completer interface,
// so tests substitute a scripted completer and production wires a real
// provider adapter. One user turn runs to completion before the next may be
// submitted; all tool and transport failures are contained within the turn
// that produced them.
package agent
