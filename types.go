package reporunner

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ExecutionStatus represents the status of a workflow execution.
type ExecutionStatus string

const (
	// StatusPending indicates the execution is queued but not started.
	StatusPending ExecutionStatus = "pending"
	// StatusRunning indicates the execution is currently in progress.
	StatusRunning ExecutionStatus = "running"
	// StatusSuccess indicates the execution completed successfully.
	StatusSuccess ExecutionStatus = "success"
	// StatusError indicates the execution failed with an error.
	StatusError ExecutionStatus = "error"
	// StatusCancelled indicates the execution was cancelled.
	StatusCancelled ExecutionStatus = "cancelled"
)

// Terminal reports whether the status is final. Once a terminal status is
// observed, further polling or streaming for that execution yields nothing.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case StatusSuccess, StatusError, StatusCancelled:
		return true
	}
	return false
}

// Workflow is a workflow definition as stored by the server.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Active      bool           `json:"active"`
	Nodes       []Node         `json:"nodes"`
	Connections []Connection   `json:"connections"`
	Settings    map[string]any `json:"settings,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Node is a single node within a workflow.
type Node struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Position   Position       `json:"position"`
	Parameters map[string]any `json:"parameters"`
}

// Position is a node's position on the workflow canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Connection links the output of one node to the input of another.
type Connection struct {
	Source      ConnectionEndpoint `json:"source"`
	Destination ConnectionEndpoint `json:"destination"`
}

// ConnectionEndpoint identifies one side of a connection.
type ConnectionEndpoint struct {
	NodeID      string `json:"nodeId"`
	OutputIndex *int   `json:"outputIndex,omitempty"`
	InputIndex  *int   `json:"inputIndex,omitempty"`
}

// Execution is a snapshot of one workflow execution. The client never
// mutates it locally; a fresh snapshot is obtained by re-fetching. Once the
// status is terminal the snapshot no longer changes server-side.
type Execution struct {
	ID          string            `json:"id"`
	WorkflowID  string            `json:"workflowId"`
	Status      ExecutionStatus   `json:"status"`
	StartedAt   time.Time         `json:"startedAt"`
	FinishedAt  *time.Time        `json:"finishedAt,omitempty"`
	InputData   map[string]any    `json:"inputData,omitempty"`
	OutputData  map[string]any    `json:"outputData,omitempty"`
	Error       string            `json:"error,omitempty"`
	NodeResults map[string]any    `json:"nodeResults,omitempty"`
	Metadata    ExecutionMetadata `json:"metadata"`
}

// ExecutionMetadata carries per-node counters for an execution.
type ExecutionMetadata struct {
	TotalNodes     int `json:"totalNodes"`
	CompletedNodes int `json:"completedNodes"`
	FailedNodes    int `json:"failedNodes"`
	RetriedNodes   int `json:"retriedNodes"`
}

// ExecutionUpdate is a single event delivered over an execution stream.
// Type identifies the event kind (node-started, node-finished, log, ...)
// and Data carries the type-specific payload.
type ExecutionUpdate struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// CreateWorkflowRequest is the payload for CreateWorkflow.
type CreateWorkflowRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Nodes       []Node         `json:"nodes"`
	Connections []Connection   `json:"connections"`
	Settings    map[string]any `json:"settings,omitempty"`
}

// UpdateWorkflowRequest is the payload for UpdateWorkflow. Nil fields are
// left unchanged server-side.
type UpdateWorkflowRequest struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Active      *bool          `json:"active,omitempty"`
	Nodes       []Node         `json:"nodes,omitempty"`
	Connections []Connection   `json:"connections,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
}

// ListWorkflowsOptions filters and paginates ListWorkflows. The zero value
// applies no filters and produces no query string.
type ListWorkflowsOptions struct {
	Limit      int
	Offset     int
	ActiveOnly bool
}

func (o ListWorkflowsOptions) query() string {
	var params []string
	if o.Limit > 0 {
		params = append(params, "limit="+strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		params = append(params, "offset="+strconv.Itoa(o.Offset))
	}
	if o.ActiveOnly {
		params = append(params, "active=true")
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + strings.Join(params, "&")
}

// ExecutionHistoryOptions filters and paginates ExecutionHistory. The zero
// value applies no filters and produces no query string.
type ExecutionHistoryOptions struct {
	Limit  int
	Offset int
	Status ExecutionStatus
}

func (o ExecutionHistoryOptions) query() string {
	var params []string
	if o.Limit > 0 {
		params = append(params, "limit="+strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		params = append(params, "offset="+strconv.Itoa(o.Offset))
	}
	if o.Status != "" {
		params = append(params, "status="+string(o.Status))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + strings.Join(params, "&")
}
