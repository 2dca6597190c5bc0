package capture

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRecorder(t *testing.T) (*Recorder, string) {
	t.Helper()
	dir := t.TempDir()
	recorder, err := NewRecorder(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { recorder.Close() })
	return recorder, dir
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestRecordCustomerInterestAppendsOneLine(t *testing.T) {
	recorder, dir := newTestRecorder(t)

	ack := recorder.RecordCustomerInterest("leila@example.com", "Leila", "debut novel seeking agent")
	assert.Equal(t, true, ack["ok"])
	assert.NotEmpty(t, ack["lead_id"])
	assert.NotEmpty(t, ack["ts"])

	lines := readLines(t, filepath.Join(dir, leadsFile))
	require.Len(t, lines, 1)

	var record LeadRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "lead_recorded", record.Event)
	assert.Equal(t, "leila@example.com", record.Email)
	assert.Equal(t, "Leila", record.Name)
	assert.Equal(t, "debut novel seeking agent", record.Message)
	assert.Equal(t, ack["lead_id"], record.LeadID)
}

func TestLeadIDsAreUnique(t *testing.T) {
	recorder, dir := newTestRecorder(t)

	first := recorder.RecordCustomerInterest("a@example.com", "A", "first")
	second := recorder.RecordCustomerInterest("b@example.com", "B", "second")
	assert.NotEqual(t, first["lead_id"], second["lead_id"])

	lines := readLines(t, filepath.Join(dir, leadsFile))
	require.Len(t, lines, 2)
	seen := make(map[string]bool)
	for _, line := range lines {
		var record LeadRecord
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		assert.False(t, seen[record.LeadID], "duplicate lead_id %s", record.LeadID)
		seen[record.LeadID] = true
	}
}

func TestInvalidEmailWritesNothing(t *testing.T) {
	recorder, dir := newTestRecorder(t)

	ack := recorder.RecordCustomerInterest("not-an-email", "X", "note")
	assert.Equal(t, false, ack["ok"])
	assert.Equal(t, "invalid_email", ack["error"])

	data, err := os.ReadFile(filepath.Join(dir, leadsFile))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRecordFeedback(t *testing.T) {
	recorder, dir := newTestRecorder(t)

	ack := recorder.RecordFeedback("What's your exact 2025 price list per service?")
	assert.Equal(t, true, ack["ok"])

	lines := readLines(t, filepath.Join(dir, feedbackFile))
	require.Len(t, lines, 1)

	var record FeedbackRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "feedback_recorded", record.Event)
	assert.Equal(t, "What's your exact 2025 price list per service?", record.Question)
	assert.Equal(t, ack["feedback_id"], record.FeedbackID)
}

func TestConcurrentFeedbackAppends(t *testing.T) {
	recorder, dir := newTestRecorder(t)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			recorder.RecordFeedback(strings.Repeat("q", 50+n))
		}(i)
	}
	wg.Wait()

	lines := readLines(t, filepath.Join(dir, feedbackFile))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var record FeedbackRecord
		require.NoError(t, json.Unmarshal([]byte(line), &record), "interleaved or truncated line: %q", line)
	}
}

func TestWriteFailureAckIsHonest(t *testing.T) {
	dir := t.TempDir()
	recorder, err := NewRecorder(dir, zap.NewNop())
	require.NoError(t, err)
	// Closing the logs makes every subsequent append fail.
	require.NoError(t, recorder.Close())

	leadAck := recorder.RecordCustomerInterest("leila@example.com", "Leila", "note")
	assert.Equal(t, false, leadAck["ok"])
	assert.Equal(t, "write_failed", leadAck["error"])
	assert.NotEmpty(t, leadAck["lead_id"])
	assert.NotEmpty(t, leadAck["ts"])

	fbAck := recorder.RecordFeedback("unanswered question")
	assert.Equal(t, false, fbAck["ok"])
	assert.Equal(t, "write_failed", fbAck["error"])
	assert.NotEmpty(t, fbAck["feedback_id"])
}

func TestPreviewTruncation(t *testing.T) {
	assert.Equal(t, "short", preview("short", 120))
	long := strings.Repeat("m", 130)
	truncated := preview(long, 120)
	assert.Equal(t, 121, len([]rune(truncated)))
	assert.True(t, strings.HasSuffix(truncated, "…"))
}
