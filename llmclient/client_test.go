package llmclient

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

// mockAdapter is a test double for ProviderAdapter.
type mockAdapter struct {
	name     string
	response *Response
	err      error
	calls    int
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func newMockAdapter(name, text string) *mockAdapter {
	return &mockAdapter{
		name: name,
		response: &Response{
			ID:           "test_resp",
			Model:        "test-model",
			Provider:     name,
			Message:      Message{Role: RoleAssistant, Content: []ContentPart{TextPart(text)}},
			FinishReason: FinishReason{Reason: "stop"},
			Usage:        Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30},
		},
	}
}

func TestClientComplete(t *testing.T) {
	mock := newMockAdapter("gemini", "Hello!")
	client := NewClient(WithProvider("gemini", mock))

	resp, err := client.Complete(context.Background(), Request{
		Model:    "gemini-2.5-flash",
		Messages: []Message{UserMessage("Hi")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Hello!" {
		t.Errorf("expected text %q, got %q", "Hello!", resp.Text())
	}
	if resp.Provider != "gemini" {
		t.Errorf("expected provider gemini, got %q", resp.Provider)
	}
}

func TestClientProviderRouting(t *testing.T) {
	gemini := newMockAdapter("gemini", "gemini says hi")
	openai := newMockAdapter("openai", "openai says hi")

	client := NewClient(
		WithProvider("gemini", gemini),
		WithProvider("openai", openai),
		WithDefaultProvider("gemini"),
	)

	// Explicit provider wins.
	resp, err := client.Complete(context.Background(), Request{
		Model:    "gpt-4o-mini",
		Provider: "openai",
		Messages: []Message{UserMessage("Hi")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "openai says hi" {
		t.Errorf("expected openai response, got %q", resp.Text())
	}

	// Default provider otherwise.
	resp, err = client.Complete(context.Background(), Request{
		Model:    "gemini-2.5-flash",
		Messages: []Message{UserMessage("Hi")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "gemini says hi" {
		t.Errorf("expected gemini response, got %q", resp.Text())
	}
}

func TestClientInfersProviderFromModel(t *testing.T) {
	gemini := newMockAdapter("gemini", "inferred")
	client := NewClient(
		WithProvider("gemini", gemini),
		WithProvider("openai", newMockAdapter("openai", "wrong")),
	)

	resp, err := client.Complete(context.Background(), Request{
		Model:    "gemini-2.5-flash",
		Messages: []Message{UserMessage("Hi")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "inferred" {
		t.Errorf("expected model-based routing to gemini, got %q", resp.Text())
	}
}

func TestClientNoProvider(t *testing.T) {
	client := NewClient()
	_, err := client.Complete(context.Background(), Request{
		Model:    "unknown-model",
		Messages: []Message{UserMessage("Hi")},
	})
	if err == nil {
		t.Fatal("expected error for no provider")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}

func TestClientMiddlewareOrder(t *testing.T) {
	mock := newMockAdapter("gemini", "response")
	var order []string

	first := func(ctx context.Context, req Request, next func(context.Context, Request) (*Response, error)) (*Response, error) {
		order = append(order, "first")
		return next(ctx, req)
	}
	second := func(ctx context.Context, req Request, next func(context.Context, Request) (*Response, error)) (*Response, error) {
		order = append(order, "second")
		return next(ctx, req)
	}

	client := NewClient(
		WithProvider("gemini", mock),
		WithMiddleware(first, second),
	)

	_, err := client.Complete(context.Background(), Request{
		Model:    "gemini-2.5-flash",
		Messages: []Message{UserMessage("Hi")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("middleware ran out of order: %v", order)
	}
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	mock := newMockAdapter("gemini", "logged")
	client := NewClient(
		WithProvider("gemini", mock),
		WithMiddleware(LoggingMiddleware(zap.NewNop())),
	)

	resp, err := client.Complete(context.Background(), Request{
		Model:    "gemini-2.5-flash",
		Messages: []Message{UserMessage("Hi")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "logged" {
		t.Errorf("middleware altered the response: %q", resp.Text())
	}
}

func TestCatalogLookup(t *testing.T) {
	if info := GetModelInfo("gemini-2.5-flash"); info == nil || info.Provider != "gemini" {
		t.Errorf("expected catalog hit for gemini-2.5-flash, got %+v", info)
	}
	if info := GetModelInfo("gemini-flash"); info == nil || info.ID != "gemini-2.5-flash" {
		t.Errorf("expected alias resolution, got %+v", info)
	}
	if info := GetModelInfo("made-up-model"); info != nil {
		t.Errorf("expected nil for unknown model, got %+v", info)
	}
	if p := InferProvider("claude-sonnet-4-5"); p != "anthropic" {
		t.Errorf("expected anthropic, got %q", p)
	}
	if p := InferProvider("mystery"); p != "" {
		t.Errorf("expected empty provider for unknown naming, got %q", p)
	}
	if m := DefaultModel("gemini"); m != "gemini-2.5-flash" {
		t.Errorf("expected gemini-2.5-flash default, got %q", m)
	}
}
