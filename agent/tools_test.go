package agent

import (
	"encoding/json"
	"errors"
	"testing"
)

func leadSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"email":   map[string]interface{}{"type": "string"},
			"name":    map[string]interface{}{"type": "string"},
			"message": map[string]interface{}{"type": "string"},
		},
		"required": []interface{}{"email", "name", "message"},
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(
		Tool{
			Declaration: ToolDeclaration{
				Name:        "record_customer_interest",
				Description: "Record a sales lead.",
				Parameters:  leadSchema(),
			},
			Handler: func(args map[string]interface{}) (map[string]interface{}, error) {
				return map[string]interface{}{"ok": true, "lead_id": "lead-1"}, nil
			},
		},
		Tool{
			Declaration: ToolDeclaration{
				Name:        "record_feedback",
				Description: "Record an unanswered question.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"question": map[string]interface{}{"type": "string"},
					},
					"required": []interface{}{"question"},
				},
			},
			Handler: func(args map[string]interface{}) (map[string]interface{}, error) {
				return map[string]interface{}{"ok": true, "feedback_id": "fb-1"}, nil
			},
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return registry
}

func TestRegistryDeclarationsStableOrder(t *testing.T) {
	registry := testRegistry(t)
	first := registry.Declarations()
	second := registry.Declarations()
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 declarations, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("declaration order changed between calls: %q vs %q", first[i].Name, second[i].Name)
		}
	}
	if first[0].Name != "record_customer_interest" || first[1].Name != "record_feedback" {
		t.Errorf("declarations out of registration order: %v", []string{first[0].Name, first[1].Name})
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	tool := Tool{
		Declaration: ToolDeclaration{Name: "record_feedback", Description: "x"},
		Handler: func(args map[string]interface{}) (map[string]interface{}, error) {
			return nil, nil
		},
	}
	if _, err := NewRegistry(tool, tool); err == nil {
		t.Fatal("expected error for duplicate tool name")
	}
}

func TestDispatchSuccess(t *testing.T) {
	registry := testRegistry(t)
	ack, err := registry.Dispatch("record_customer_interest",
		json.RawMessage(`{"email":"leila@example.com","name":"Leila","message":"debut novel seeking agent"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack["ok"] != true || ack["lead_id"] != "lead-1" {
		t.Errorf("unexpected ack: %v", ack)
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	registry := testRegistry(t)
	_, err := registry.Dispatch("send_invoice", json.RawMessage(`{}`))
	var unknownErr *UnknownToolError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected *UnknownToolError, got %T (%v)", err, err)
	}
	if unknownErr.Name != "send_invoice" {
		t.Errorf("unexpected tool name in error: %q", unknownErr.Name)
	}
}

func TestDispatchMissingRequiredArgument(t *testing.T) {
	registry := testRegistry(t)
	_, err := registry.Dispatch("record_customer_interest",
		json.RawMessage(`{"email":"leila@example.com"}`))
	var argsErr *InvalidArgumentsError
	if !errors.As(err, &argsErr) {
		t.Fatalf("expected *InvalidArgumentsError, got %T (%v)", err, err)
	}
	if argsErr.Tool != "record_customer_interest" {
		t.Errorf("unexpected tool in error: %q", argsErr.Tool)
	}
	if len(argsErr.Problems) == 0 {
		t.Error("expected at least one problem description")
	}
}

func TestDispatchMistypedArgument(t *testing.T) {
	registry := testRegistry(t)
	_, err := registry.Dispatch("record_feedback",
		json.RawMessage(`{"question": 42}`))
	var argsErr *InvalidArgumentsError
	if !errors.As(err, &argsErr) {
		t.Fatalf("expected *InvalidArgumentsError, got %T (%v)", err, err)
	}
}

func TestDispatchEmptyArguments(t *testing.T) {
	registry := testRegistry(t)
	_, err := registry.Dispatch("record_feedback", nil)
	var argsErr *InvalidArgumentsError
	if !errors.As(err, &argsErr) {
		t.Fatalf("expected *InvalidArgumentsError for missing question, got %T (%v)", err, err)
	}
}
