// Package capture persists the agent's two side effects: sales leads and
// unanswered-question feedback, each appended as one JSON line to its own
// log file. Appends are atomic with respect to concurrent dispatches.
package capture

// LeadRecord is written once per recorded sales lead, never updated.
type LeadRecord struct {
	TS      string `json:"ts"`
	Event   string `json:"event"`
	LeadID  string `json:"lead_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// FeedbackRecord is written once per question the agent could not answer
// from its grounding material.
type FeedbackRecord struct {
	TS         string `json:"ts"`
	Event      string `json:"event"`
	FeedbackID string `json:"feedback_id"`
	Question   string `json:"question"`
}

const (
	eventLeadRecorded     = "lead_recorded"
	eventFeedbackRecorded = "feedback_recorded"
)
