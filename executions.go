package reporunner

import (
	"context"
	"net/http"
	"net/url"
)

type executeWorkflowRequest struct {
	WorkflowID string         `json:"workflowId"`
	InputData  map[string]any `json:"inputData"`
}

// ExecuteWorkflow submits an execution of the given workflow. With
// wait=false it returns the freshly submitted, typically still pending,
// execution. With wait=true it blocks until the execution reaches a
// terminal status, polling at the client's configured interval (see
// WithPollInterval and WithPollTimeout).
func (c *Client) ExecuteWorkflow(ctx context.Context, workflowID string, input map[string]any, wait bool) (*Execution, error) {
	req := executeWorkflowRequest{WorkflowID: workflowID, InputData: input}

	var exec Execution
	if err := c.request(ctx, http.MethodPost, "/api/executions", req, &exec); err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("workflow_id", workflowID).
		Str("execution_id", exec.ID).
		Msg("Execution submitted")

	if !wait {
		return &exec, nil
	}
	return c.WaitForExecution(ctx, exec.ID)
}

// GetExecution fetches the current snapshot of an execution.
func (c *Client) GetExecution(ctx context.Context, executionID string) (*Execution, error) {
	var exec Execution
	path := "/api/executions/" + url.PathEscape(executionID)
	if err := c.request(ctx, http.MethodGet, path, nil, &exec); err != nil {
		return nil, err
	}
	return &exec, nil
}

// CancelExecution requests cancellation of a running execution. The server
// decides when the execution actually reaches the cancelled status.
func (c *Client) CancelExecution(ctx context.Context, executionID string) error {
	path := "/api/executions/" + url.PathEscape(executionID) + "/cancel"
	return c.request(ctx, http.MethodPost, path, nil, nil)
}

// Ping checks connectivity to the server.
func (c *Client) Ping(ctx context.Context) error {
	return c.request(ctx, http.MethodGet, "/health", nil, nil)
}
