package agent

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/atelierhq/concierge/llmclient"
)

// DefaultMaxToolRounds bounds the number of tool-dispatch rounds one user
// turn may trigger before the turn is failed.
const DefaultMaxToolRounds = 8

// apologyMessage is returned to the caller when a turn fails in a way the
// end user should not see raw.
const apologyMessage = "Sorry, something went wrong while handling that. Please try again in a moment."

// SessionConfig holds per-session configuration.
type SessionConfig struct {
	Model         string
	Provider      string
	MaxToolRounds int
	Temperature   *float64
	RetryPolicy   *llmclient.RetryPolicy
}

// DefaultSessionConfig returns the default configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxToolRounds: DefaultMaxToolRounds,
	}
}

// Session owns one conversation transcript and the model capability handle.
// A session processes one user turn at a time; the dispatch loop for a turn
// runs to completion before the next Submit may proceed. Multiple sessions
// may run concurrently, sharing only read-only grounding and the append-only
// capture logs.
type Session struct {
	id           string
	systemPrompt string
	registry     *Registry
	client       llmclient.Completer
	config       SessionConfig
	history      []Turn
	emitter      *EventEmitter
	mu           sync.Mutex
}

// NewSession creates a session over the given model capability, system
// instruction, and tool registry. The system instruction is fixed for the
// session's lifetime.
func NewSession(client llmclient.Completer, systemPrompt string, registry *Registry, config *SessionConfig) *Session {
	sessionID := uuid.New().String()

	cfg := DefaultSessionConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}

	return &Session{
		id:           sessionID,
		systemPrompt: systemPrompt,
		registry:     registry,
		client:       client,
		config:       cfg,
		history:      make([]Turn, 0),
		emitter:      NewEventEmitter(sessionID, 256),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Events returns the event channel for the host application.
func (s *Session) Events() <-chan SessionEvent {
	return s.emitter.Events()
}

// History returns a copy of the conversation transcript.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := make([]Turn, len(s.history))
	copy(h, s.history)
	return h
}

// Close releases the session's event channel. The transcript is discarded
// with the session.
func (s *Session) Close() {
	s.emitter.Emit(EventSessionEnd, nil)
	s.emitter.Close()
}

// Submit processes one user turn through the dispatch loop and returns the
// final assistant answer. The call blocks until the turn completes; a
// concurrent Submit on the same session waits its turn.
//
// Failure modes: *ToolLoopExceededError when the model keeps requesting
// tools past the round limit (a generic apology is still returned for
// display), *ModelUnavailableError for transport failures that survive the
// retry policy (resubmitting the same text is safe). Tool-level failures
// never reach the caller; they are fed back to the model as error-carrying
// tool results.
func (s *Session) Submit(ctx context.Context, userText string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, NewUserTurn(userText))
	s.emitter.Emit(EventUserInput, map[string]interface{}{
		"content": userText,
	})

	policy := llmclient.DefaultRetryPolicy()
	if s.config.RetryPolicy != nil {
		policy = *s.config.RetryPolicy
	}

	repeats := newRepeatTracker()
	rounds := 0

	for {
		if rounds >= s.config.MaxToolRounds {
			s.emitter.Emit(EventTurnLimit, map[string]interface{}{
				"rounds": rounds,
			})
			return apologyMessage, &ToolLoopExceededError{Rounds: rounds}
		}

		request := llmclient.Request{
			Model:       s.config.Model,
			Provider:    s.config.Provider,
			Messages:    s.buildMessages(),
			ToolDefs:    s.toolDefs(),
			Temperature: s.config.Temperature,
		}

		response, err := llmclient.Retry(ctx, policy, func(ctx context.Context) (*llmclient.Response, error) {
			return s.client.Complete(ctx, request)
		})
		if err != nil {
			s.emitter.Emit(EventError, map[string]interface{}{
				"error": err.Error(),
			})
			return "", classifyModelError(err)
		}

		toolCalls := response.ToolCalls()
		s.history = append(s.history, NewAssistantTurn(
			response.Text(), toolCalls, response.Usage, response.ID))
		s.emitter.Emit(EventAssistantReply, map[string]interface{}{
			"text":       response.Text(),
			"tool_calls": len(toolCalls),
		})

		if len(toolCalls) == 0 {
			return response.Text(), nil
		}

		rounds++
		results := make([]ToolResult, len(toolCalls))
		for i, call := range toolCalls {
			results[i] = s.dispatchCall(call, repeats)
		}
		s.history = append(s.history, NewToolResultsTurn(results))
	}
}

// buildMessages converts the transcript into model messages with the system
// instruction prepended. The instruction itself is not a transcript turn.
func (s *Session) buildMessages() []llmclient.Message {
	messages := []llmclient.Message{llmclient.SystemMessage(s.systemPrompt)}
	return append(messages, ConvertHistoryToMessages(s.history)...)
}

func (s *Session) toolDefs() []llmclient.ToolDefinition {
	decls := s.registry.Declarations()
	defs := make([]llmclient.ToolDefinition, len(decls))
	for i, decl := range decls {
		defs[i] = llmclient.ToolDefinition{
			Name:        decl.Name,
			Description: decl.Description,
			Parameters:  decl.Parameters,
		}
	}
	return defs
}

// dispatchCall runs one tool call through the registry. Dispatch failures
// become error-carrying result maps so the model can self-correct or
// apologize instead of the session halting.
func (s *Session) dispatchCall(call llmclient.ToolCall, repeats *repeatTracker) ToolResult {
	s.emitter.Emit(EventToolCallStart, map[string]interface{}{
		"tool_name": call.Name,
		"call_id":   call.ID,
	})

	if prior := repeats.Observe(call.Name, call.Arguments); prior > 0 {
		s.emitter.Emit(EventRepeatedToolCall, map[string]interface{}{
			"tool_name":  call.Name,
			"call_id":    call.ID,
			"seen_times": prior + 1,
		})
	}

	ack, err := s.registry.Dispatch(call.Name, call.Arguments)
	if err != nil {
		s.emitter.Emit(EventToolCallEnd, map[string]interface{}{
			"call_id": call.ID,
			"error":   err.Error(),
		})
		return ToolResult{
			CallID:  call.ID,
			Name:    call.Name,
			Content: map[string]interface{}{"ok": false, "error": err.Error()},
			IsError: true,
		}
	}

	s.emitter.Emit(EventToolCallEnd, map[string]interface{}{
		"call_id": call.ID,
		"ack":     ack,
	})
	return ToolResult{
		CallID:  call.ID,
		Name:    call.Name,
		Content: ack,
	}
}

// classifyModelError maps a post-retry model failure into the session's
// error taxonomy. Misconfiguration surfaces as-is; everything else is a
// retryable ModelUnavailableError for this turn only.
func classifyModelError(err error) error {
	var authErr *llmclient.AuthenticationError
	var accessErr *llmclient.AccessDeniedError
	var configErr *llmclient.ConfigurationError
	if errors.As(err, &authErr) || errors.As(err, &accessErr) || errors.As(err, &configErr) {
		return err
	}
	return &ModelUnavailableError{Err: err}
}
