// Package llmclient is the model capability layer for the concierge agent.
//
// It presents a provider-agnostic chat interface: callers build a Request
// from messages and tool declarations, and receive a Response containing
// either plain assistant text or structured tool-call requests. The package
// does not implement inference; it routes requests to a registered
// ProviderAdapter.
//
// Two adapters ship with the package:
//
//   - GeminiAdapter speaks the generateContent REST protocol directly,
//     including function calling (the concierge's native backend).
//   - GollmAdapter wraps gollm.LLM for OpenAI- and Anthropic-style backends.
//
// Errors are classified into a typed hierarchy so callers can decide whether
// a failure is worth retrying; Retry applies exponential backoff to the
// retryable subset. Middleware wraps Complete calls; LoggingMiddleware emits
// one structured log line per model round.
package llmclient
