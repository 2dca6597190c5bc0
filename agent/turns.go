package agent

import (
	"time"

	"github.com/atelierhq/concierge/llmclient"
)

// TurnKind discriminates between turn types.
type TurnKind string

const (
	TurnUser        TurnKind = "user"
	TurnAssistant   TurnKind = "assistant"
	TurnToolResults TurnKind = "tool_results"
)

// Turn is a single entry in the conversation transcript. The transcript is
// append-only; turns are never reordered or mutated in place.
type Turn struct {
	Kind        TurnKind         `json:"kind"`
	Timestamp   time.Time        `json:"timestamp"`
	User        *UserTurn        `json:"user,omitempty"`
	Assistant   *AssistantTurn   `json:"assistant,omitempty"`
	ToolResults *ToolResultsTurn `json:"tool_results,omitempty"`
}

// UserTurn holds user input.
type UserTurn struct {
	Content string `json:"content"`
}

// AssistantTurn holds the model's response: text, any tool invocation
// requests, and token usage for the round.
type AssistantTurn struct {
	Content    string               `json:"content"`
	ToolCalls  []llmclient.ToolCall `json:"tool_calls,omitempty"`
	Usage      llmclient.Usage      `json:"usage"`
	ResponseID string               `json:"response_id,omitempty"`
}

// ToolResult is the outcome of one tool dispatch, keyed back to the call
// that requested it.
type ToolResult struct {
	CallID  string                 `json:"call_id"`
	Name    string                 `json:"name"`
	Content map[string]interface{} `json:"content"`
	IsError bool                   `json:"is_error"`
}

// ToolResultsTurn holds the results for one dispatch round.
type ToolResultsTurn struct {
	Results []ToolResult `json:"results"`
}

// NewUserTurn creates a Turn wrapping user input.
func NewUserTurn(content string) Turn {
	return Turn{
		Kind:      TurnUser,
		Timestamp: time.Now(),
		User:      &UserTurn{Content: content},
	}
}

// NewAssistantTurn creates a Turn wrapping a model response.
func NewAssistantTurn(content string, toolCalls []llmclient.ToolCall, usage llmclient.Usage, responseID string) Turn {
	return Turn{
		Kind:      TurnAssistant,
		Timestamp: time.Now(),
		Assistant: &AssistantTurn{
			Content:    content,
			ToolCalls:  toolCalls,
			Usage:      usage,
			ResponseID: responseID,
		},
	}
}

// NewToolResultsTurn creates a Turn wrapping a round of tool results.
func NewToolResultsTurn(results []ToolResult) Turn {
	return Turn{
		Kind:        TurnToolResults,
		Timestamp:   time.Now(),
		ToolResults: &ToolResultsTurn{Results: results},
	}
}

// ConvertHistoryToMessages converts the turn-based transcript into model
// messages. The system instruction is not part of the transcript; callers
// prepend it per request.
func ConvertHistoryToMessages(history []Turn) []llmclient.Message {
	var messages []llmclient.Message
	for _, turn := range history {
		switch turn.Kind {
		case TurnUser:
			if turn.User != nil {
				messages = append(messages, llmclient.UserMessage(turn.User.Content))
			}
		case TurnAssistant:
			if turn.Assistant != nil {
				msg := llmclient.Message{Role: llmclient.RoleAssistant}
				if turn.Assistant.Content != "" {
					msg.Content = append(msg.Content, llmclient.TextPart(turn.Assistant.Content))
				}
				for _, tc := range turn.Assistant.ToolCalls {
					msg.Content = append(msg.Content,
						llmclient.ToolCallPart(tc.ID, tc.Name, tc.Arguments))
				}
				if len(msg.Content) > 0 {
					messages = append(messages, msg)
				}
			}
		case TurnToolResults:
			if turn.ToolResults != nil {
				for _, result := range turn.ToolResults.Results {
					messages = append(messages, llmclient.ToolResultMessage(
						result.CallID, result.Name, result.Content, result.IsError))
				}
			}
		}
	}
	return messages
}
