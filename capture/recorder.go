package capture

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	leadsFile    = "leads.jsonl"
	feedbackFile = "feedback.jsonl"

	leadPreviewChars     = 120
	feedbackPreviewChars = 140
)

// Recorder owns the two capture logs and implements the tool side effects.
// Acknowledgement maps are fed back to the model, not shown verbatim to the
// end user; write failures surface as ok=false so the model can inform the
// user honestly instead of claiming success.
type Recorder struct {
	leads    *Appender
	feedback *Appender
	logger   *zap.Logger
}

// NewRecorder opens leads.jsonl and feedback.jsonl under logDir. A nil
// logger disables notices.
func NewRecorder(logDir string, logger *zap.Logger) (*Recorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	leads, err := NewAppender(filepath.Join(logDir, leadsFile))
	if err != nil {
		return nil, err
	}
	feedback, err := NewAppender(filepath.Join(logDir, feedbackFile))
	if err != nil {
		leads.Close()
		return nil, err
	}
	return &Recorder{leads: leads, feedback: feedback, logger: logger}, nil
}

// RecordCustomerInterest validates and persists one sales lead. An invalid
// email produces an ok=false acknowledgement and writes nothing.
func (r *Recorder) RecordCustomerInterest(email, name, message string) map[string]interface{} {
	leadID := uuid.New().String()
	ts := nowISO()

	email = strings.TrimSpace(email)
	if !emailRE.MatchString(email) {
		r.logger.Warn("rejected lead with invalid email",
			zap.String("lead_id", leadID),
			zap.String("email", email))
		return map[string]interface{}{"ok": false, "error": "invalid_email", "lead_id": leadID, "ts": ts}
	}

	record := LeadRecord{
		TS:      ts,
		Event:   eventLeadRecorded,
		LeadID:  leadID,
		Email:   email,
		Name:    strings.TrimSpace(name),
		Message: strings.TrimSpace(message),
	}
	r.logger.Info("lead recorded",
		zap.String("lead_id", leadID),
		zap.String("email", record.Email),
		zap.String("name", record.Name),
		zap.String("message", preview(record.Message, leadPreviewChars)))

	if err := r.leads.Append(record); err != nil {
		r.logger.Error("lead append failed", zap.String("lead_id", leadID), zap.Error(err))
		return map[string]interface{}{"ok": false, "error": "write_failed", "lead_id": leadID, "ts": ts}
	}
	return map[string]interface{}{"ok": true, "lead_id": leadID, "ts": ts}
}

// RecordFeedback persists one unanswered question.
func (r *Recorder) RecordFeedback(question string) map[string]interface{} {
	feedbackID := uuid.New().String()
	ts := nowISO()

	record := FeedbackRecord{
		TS:         ts,
		Event:      eventFeedbackRecorded,
		FeedbackID: feedbackID,
		Question:   strings.TrimSpace(question),
	}
	r.logger.Info("feedback recorded",
		zap.String("feedback_id", feedbackID),
		zap.String("question", preview(record.Question, feedbackPreviewChars)))

	if err := r.feedback.Append(record); err != nil {
		r.logger.Error("feedback append failed", zap.String("feedback_id", feedbackID), zap.Error(err))
		return map[string]interface{}{"ok": false, "error": "write_failed", "feedback_id": feedbackID, "ts": ts}
	}
	return map[string]interface{}{"ok": true, "feedback_id": feedbackID, "ts": ts}
}

// Close closes both log files.
func (r *Recorder) Close() error {
	leadErr := r.leads.Close()
	feedbackErr := r.feedback.Close()
	if leadErr != nil {
		return leadErr
	}
	return feedbackErr
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
