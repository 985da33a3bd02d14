package reporunner

import (
	"context"
	"net/http"
	"net/url"
)

// CreateWorkflow creates a new workflow.
func (c *Client) CreateWorkflow(ctx context.Context, req CreateWorkflowRequest) (*Workflow, error) {
	var wf Workflow
	if err := c.request(ctx, http.MethodPost, "/api/workflows", req, &wf); err != nil {
		return nil, err
	}
	c.log.Debug().Str("workflow_id", wf.ID).Msg("Workflow created")
	return &wf, nil
}

// GetWorkflow fetches a workflow by ID.
func (c *Client) GetWorkflow(ctx context.Context, workflowID string) (*Workflow, error) {
	var wf Workflow
	path := "/api/workflows/" + url.PathEscape(workflowID)
	if err := c.request(ctx, http.MethodGet, path, nil, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// ListWorkflows lists workflows, optionally filtered and paginated.
func (c *Client) ListWorkflows(ctx context.Context, opts ListWorkflowsOptions) ([]Workflow, error) {
	var resp struct {
		Workflows []Workflow `json:"workflows"`
	}
	if err := c.request(ctx, http.MethodGet, "/api/workflows"+opts.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Workflows, nil
}

// UpdateWorkflow applies a partial update to a workflow and returns the
// updated definition.
func (c *Client) UpdateWorkflow(ctx context.Context, workflowID string, req UpdateWorkflowRequest) (*Workflow, error) {
	var wf Workflow
	path := "/api/workflows/" + url.PathEscape(workflowID)
	if err := c.request(ctx, http.MethodPut, path, req, &wf); err != nil {
		return nil, err
	}
	c.log.Debug().Str("workflow_id", workflowID).Msg("Workflow updated")
	return &wf, nil
}

// DeleteWorkflow deletes a workflow.
func (c *Client) DeleteWorkflow(ctx context.Context, workflowID string) error {
	path := "/api/workflows/" + url.PathEscape(workflowID)
	return c.request(ctx, http.MethodDelete, path, nil, nil)
}

// ExecutionHistory lists past executions of a workflow, optionally filtered
// by status and paginated.
func (c *Client) ExecutionHistory(ctx context.Context, workflowID string, opts ExecutionHistoryOptions) ([]Execution, error) {
	var resp struct {
		Executions []Execution `json:"executions"`
	}
	path := "/api/workflows/" + url.PathEscape(workflowID) + "/executions" + opts.query()
	if err := c.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Executions, nil
}
