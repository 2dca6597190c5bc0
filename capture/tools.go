package capture

import (
	"github.com/atelierhq/concierge/agent"
)

// Tools binds the recorder's side effects to the agent's tool registry
// shape. The declared set is fixed; names and schemas are part of the
// system instruction the model is steered by.
func Tools(recorder *Recorder) []agent.Tool {
	return []agent.Tool{
		{
			Declaration: agent.ToolDeclaration{
				Name: "record_customer_interest",
				Description: "Use when the user wants services or follow-up. " +
					"Ask for missing fields first. Do NOT call if email, name, or message are unknown.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"email":   map[string]interface{}{"type": "string", "description": "Customer email address."},
						"name":    map[string]interface{}{"type": "string", "description": "Customer full name."},
						"message": map[string]interface{}{"type": "string", "description": "Short note on project, needs, or context."},
					},
					"required": []interface{}{"email", "name", "message"},
				},
			},
			Handler: func(args map[string]interface{}) (map[string]interface{}, error) {
				return recorder.RecordCustomerInterest(
					stringArg(args, "email"),
					stringArg(args, "name"),
					stringArg(args, "message"),
				), nil
			},
		},
		{
			Declaration: agent.ToolDeclaration{
				Name: "record_feedback",
				Description: "Use when the question is not answered by the provided grounding material " +
					"or confidence is low. Do NOT guess. Pass the user's exact question.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"question": map[string]interface{}{"type": "string", "description": "The user question the agent could not answer."},
					},
					"required": []interface{}{"question"},
				},
			},
			Handler: func(args map[string]interface{}) (map[string]interface{}, error) {
				return recorder.RecordFeedback(stringArg(args, "question")), nil
			},
		},
	}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}
