package reporunner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionStatusTerminal(t *testing.T) {
	terminal := []ExecutionStatus{StatusSuccess, StatusError, StatusCancelled}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "expected %s to be terminal", s)
	}

	nonTerminal := []ExecutionStatus{StatusPending, StatusRunning, ExecutionStatus("")}
	for _, s := range nonTerminal {
		assert.False(t, s.Terminal(), "expected %s to be non-terminal", s)
	}
}

func TestListWorkflowsOptionsQuery(t *testing.T) {
	tests := []struct {
		name string
		opts ListWorkflowsOptions
		want string
	}{
		{"defaults", ListWorkflowsOptions{}, ""},
		{"all set", ListWorkflowsOptions{Limit: 10, Offset: 5, ActiveOnly: true}, "?limit=10&offset=5&active=true"},
		{"limit only", ListWorkflowsOptions{Limit: 25}, "?limit=25"},
		{"active only", ListWorkflowsOptions{ActiveOnly: true}, "?active=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.query())
		})
	}
}

func TestExecutionHistoryOptionsQuery(t *testing.T) {
	tests := []struct {
		name string
		opts ExecutionHistoryOptions
		want string
	}{
		{"defaults", ExecutionHistoryOptions{}, ""},
		{"all set", ExecutionHistoryOptions{Limit: 10, Offset: 5, Status: StatusError}, "?limit=10&offset=5&status=error"},
		{"status only", ExecutionHistoryOptions{Status: StatusSuccess}, "?status=success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.query())
		})
	}
}

func TestExecutionDecoding(t *testing.T) {
	data := []byte(`{
		"id": "exec-1",
		"workflowId": "wf-1",
		"status": "success",
		"startedAt": "2026-01-02T15:04:05Z",
		"finishedAt": "2026-01-02T15:04:42Z",
		"outputData": {"answer": 42},
		"nodeResults": {"node-1": {"ok": true}},
		"metadata": {"totalNodes": 3, "completedNodes": 3, "failedNodes": 0, "retriedNodes": 1}
	}`)

	var exec Execution
	require.NoError(t, json.Unmarshal(data, &exec))

	assert.Equal(t, "exec-1", exec.ID)
	assert.Equal(t, "wf-1", exec.WorkflowID)
	assert.Equal(t, StatusSuccess, exec.Status)
	require.NotNil(t, exec.FinishedAt)
	assert.Equal(t, 3, exec.Metadata.TotalNodes)
	assert.Equal(t, 1, exec.Metadata.RetriedNodes)
	assert.Empty(t, exec.Error)
}
