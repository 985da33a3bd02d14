package reporunner

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-retry"
)

var errExecutionNotFinished = errors.New("execution not finished")

// WaitForExecution blocks until the execution reaches a terminal status and
// returns that snapshot. It fetches the execution at the client's poll
// interval; the first fetch that observes a terminal status returns
// immediately. If the poll timeout elapses first, the call fails with an
// error wrapping ErrTimeout and the last observed snapshot is discarded.
//
// A fetch failure aborts the wait immediately with that fetch's error: only
// a non-terminal status is retried, never an error.
func (c *Client) WaitForExecution(ctx context.Context, executionID string) (*Execution, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	var latest *Execution
	err := retry.Do(ctx, retry.NewConstant(c.pollInterval), func(ctx context.Context) error {
		exec, err := c.GetExecution(ctx, executionID)
		if err != nil {
			return err
		}
		if exec.Status.Terminal() {
			latest = exec
			return nil
		}
		c.log.Debug().
			Str("execution_id", executionID).
			Str("status", string(exec.Status)).
			Msg("Execution still in progress")
		return retry.RetryableError(errExecutionNotFinished)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			return nil, fmt.Errorf("%w %s after %s", ErrTimeout, executionID, c.pollTimeout)
		}
		return nil, err
	}

	c.log.Debug().
		Str("execution_id", executionID).
		Str("status", string(latest.Status)).
		Msg("Execution finished")
	return latest, nil
}
