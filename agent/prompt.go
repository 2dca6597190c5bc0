package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PersonaConfig describes who the agent speaks as. Immutable, supplied at
// startup.
type PersonaConfig struct {
	BusinessName   string   `json:"business_name"`
	Identity       string   `json:"identity,omitempty"`
	ToneDirectives []string `json:"tone_directives"`
	PolicyRules    []string `json:"policy_rules"`
}

// BuildSystemPrompt composes the system instruction from the persona, the
// two grounding texts, and the tool declarations. It is a pure function:
// identical inputs yield byte-identical output. The instruction is the sole
// mechanism enforcing groundedness; there is no post-hoc verification step.
func BuildSystemPrompt(persona PersonaConfig, summary, reference string, decls []ToolDeclaration) string {
	var sb strings.Builder

	sb.WriteString("You are the in-house agent for ")
	sb.WriteString(persona.BusinessName)
	sb.WriteString(".")
	if persona.Identity != "" {
		sb.WriteString(" ")
		sb.WriteString(persona.Identity)
	}
	sb.WriteString("\n\n")

	sb.WriteString("AUTHORITATIVE BUSINESS KNOWLEDGE (use this to answer; do NOT invent facts):\n")
	sb.WriteString("--- SUMMARY ---\n")
	sb.WriteString(summary)
	sb.WriteString("\n\n--- REFERENCE DOCUMENT (extracted) ---\n")
	sb.WriteString(reference)
	sb.WriteString("\n\n")

	sb.WriteString("OPERATING RULES:\n")
	rule := 1
	writeRule := func(text string) {
		sb.WriteString(fmt.Sprintf("%d) %s\n", rule, text))
		rule++
	}
	writeRule(fmt.Sprintf("Stay in character as %s. Tone: %s.",
		persona.BusinessName, strings.Join(persona.ToneDirectives, ", ")))
	writeRule("Ground every factual answer in the BUSINESS KNOWLEDGE above. " +
		"If the user asks for anything not covered or you are unsure, do NOT guess. " +
		"Call the tool record_feedback with the exact user question, then tell the " +
		"user it has been logged and will be followed up once an answer is available.")
	writeRule("Lead capture: if the user expresses interest in services, pricing, " +
		"timelines, or availability, politely collect their name, email, and a short " +
		"note about their project. Once you have email, name, and message, call " +
		"record_customer_interest. If any field is missing, ask for it before calling.")
	for _, policy := range persona.PolicyRules {
		writeRule(policy)
	}

	sb.WriteString("\nAVAILABLE TOOLS:\n")
	for _, decl := range decls {
		sb.WriteString("- ")
		sb.WriteString(decl.Name)
		sb.WriteString(": ")
		sb.WriteString(decl.Description)
		sb.WriteString("\n")
		// json.Marshal sorts map keys, keeping the output deterministic.
		if schema, err := json.Marshal(decl.Parameters); err == nil && decl.Parameters != nil {
			sb.WriteString("  parameters: ")
			sb.Write(schema)
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String())
}
