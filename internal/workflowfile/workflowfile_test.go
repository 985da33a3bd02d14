package workflowfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDefinition = `
name: Nightly report
description: Builds and mails the nightly report
active: true
nodes:
  - id: trigger-1
    name: Start
    type: trigger
    position: {x: 100, y: 100}
  - id: http-1
    type: http
    position: {x: 300, y: 100}
    parameters:
      url: https://example.com/report
connections:
  - source:
      node: trigger-1
      output: 0
    destination:
      node: http-1
      input: 0
settings:
  retries: 2
`

func TestParseValid(t *testing.T) {
	def, err := Parse([]byte(validDefinition))
	require.NoError(t, err)

	assert.Equal(t, "Nightly report", def.Name)
	require.Len(t, def.Nodes, 2)
	require.Len(t, def.Connections, 1)
	require.NotNil(t, def.Active)
	assert.True(t, *def.Active)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "nodes:\n  - id: a\n    type: trigger\n"},
		{"no nodes", "name: empty\n"},
		{"duplicate node id", "name: dup\nnodes:\n  - id: a\n    type: trigger\n  - id: a\n    type: http\n"},
		{"node without type", "name: untyped\nnodes:\n  - id: a\n"},
		{"unknown connection node", "name: dangling\nnodes:\n  - id: a\n    type: trigger\nconnections:\n  - source: {node: a}\n    destination: {node: ghost}\n"},
		{"not yaml", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestCreateRequest(t *testing.T) {
	def, err := Parse([]byte(validDefinition))
	require.NoError(t, err)

	req := def.CreateRequest()
	assert.Equal(t, "Nightly report", req.Name)
	require.Len(t, req.Nodes, 2)

	// Nodes without an explicit name fall back to their id.
	assert.Equal(t, "http-1", req.Nodes[1].Name)
	assert.Equal(t, float64(300), req.Nodes[1].Position.X)

	require.Len(t, req.Connections, 1)
	conn := req.Connections[0]
	assert.Equal(t, "trigger-1", conn.Source.NodeID)
	require.NotNil(t, conn.Source.OutputIndex)
	assert.Equal(t, 0, *conn.Source.OutputIndex)
	assert.Equal(t, "http-1", conn.Destination.NodeID)
}

func TestUpdateRequest(t *testing.T) {
	def, err := Parse([]byte(validDefinition))
	require.NoError(t, err)

	req := def.UpdateRequest()
	require.NotNil(t, req.Name)
	assert.Equal(t, "Nightly report", *req.Name)
	require.NotNil(t, req.Active)
	assert.True(t, *req.Active)
	assert.Equal(t, map[string]any{"retries": 2}, req.Settings)
}
