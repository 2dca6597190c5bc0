package capture

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atelierhq/concierge/agent"
)

func TestToolsDeclarations(t *testing.T) {
	recorder, _ := newTestRecorder(t)
	tools := Tools(recorder)
	require.Len(t, tools, 2)
	assert.Equal(t, "record_customer_interest", tools[0].Declaration.Name)
	assert.Equal(t, "record_feedback", tools[1].Declaration.Name)
}

func TestDispatchThroughRegistryWritesLead(t *testing.T) {
	dir := t.TempDir()
	recorder, err := NewRecorder(dir, zap.NewNop())
	require.NoError(t, err)
	defer recorder.Close()

	registry, err := agent.NewRegistry(Tools(recorder)...)
	require.NoError(t, err)

	ack, err := registry.Dispatch("record_customer_interest",
		json.RawMessage(`{"email":"leila@example.com","name":"Leila","message":"debut novel seeking agent"}`))
	require.NoError(t, err)
	assert.Equal(t, true, ack["ok"])

	lines := readLines(t, filepath.Join(dir, leadsFile))
	assert.Len(t, lines, 1)
}

func TestDispatchThroughRegistryValidatesSchema(t *testing.T) {
	recorder, dir := newTestRecorder(t)
	registry, err := agent.NewRegistry(Tools(recorder)...)
	require.NoError(t, err)

	_, err = registry.Dispatch("record_customer_interest",
		json.RawMessage(`{"email":"leila@example.com"}`))
	var argsErr *agent.InvalidArgumentsError
	require.True(t, errors.As(err, &argsErr))

	data, readErr := os.ReadFile(filepath.Join(dir, leadsFile))
	require.NoError(t, readErr)
	assert.Empty(t, data)
}
