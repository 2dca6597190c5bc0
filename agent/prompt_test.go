package agent

import (
	"strings"
	"testing"
)

func testPersona() PersonaConfig {
	return PersonaConfig{
		BusinessName:   "Ramadan & Co. Writing Consultancy",
		Identity:       "A Beirut-rooted, tri-lingual writing consultancy.",
		ToneDirectives: []string{"warm", "professional", "editorially precise"},
		PolicyRules: []string{
			"Only store personal information via the approved tools upon user consent.",
			"Default to English; switch naturally if the user writes in Arabic or French.",
		},
	}
}

func TestBuildSystemPromptDeterministic(t *testing.T) {
	persona := testPersona()
	decls := []ToolDeclaration{
		{Name: "record_feedback", Description: "Record an unanswered question.", Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"question": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"question"},
		}},
	}

	first := BuildSystemPrompt(persona, "summary text", "reference text", decls)
	second := BuildSystemPrompt(persona, "summary text", "reference text", decls)
	if first != second {
		t.Fatal("prompt builder output is not byte-stable for identical inputs")
	}
}

func TestBuildSystemPromptEmbedsGroundingAndRules(t *testing.T) {
	persona := testPersona()
	decls := []ToolDeclaration{
		{Name: "record_customer_interest", Description: "Record a sales lead."},
		{Name: "record_feedback", Description: "Record an unanswered question."},
	}

	prompt := BuildSystemPrompt(persona, "We help authors polish manuscripts.", "Full service catalog.", decls)

	for _, want := range []string{
		"Ramadan & Co. Writing Consultancy",
		"We help authors polish manuscripts.",
		"Full service catalog.",
		"do NOT invent facts",
		"record_feedback",
		"record_customer_interest",
		"warm, professional, editorially precise",
		"Only store personal information via the approved tools upon user consent.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptListsDeclarationsInOrder(t *testing.T) {
	persona := testPersona()
	decls := []ToolDeclaration{
		{Name: "record_customer_interest", Description: "a"},
		{Name: "record_feedback", Description: "b"},
	}
	prompt := BuildSystemPrompt(persona, "s", "r", decls)

	leadIdx := strings.Index(prompt, "- record_customer_interest")
	fbIdx := strings.Index(prompt, "- record_feedback")
	if leadIdx == -1 || fbIdx == -1 {
		t.Fatal("expected both declarations in the prompt")
	}
	if leadIdx > fbIdx {
		t.Error("declarations listed out of order")
	}
}
