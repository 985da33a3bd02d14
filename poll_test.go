package reporunner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusSequenceServer returns each status in turn for successive fetches,
// repeating the last one once the sequence is exhausted.
func statusSequenceServer(t *testing.T, calls *atomic.Int32, statuses ...ExecutionStatus) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		fmt.Fprintf(w, `{"id":"exec-1","workflowId":"wf-1","status":%q}`, statuses[n])
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWaitForExecutionImmediateTerminal(t *testing.T) {
	var calls atomic.Int32
	server := statusSequenceServer(t, &calls, StatusSuccess)

	// A long interval proves the first terminal fetch returns without
	// waiting it out.
	client := testClient(t, server.URL,
		WithPollInterval(1*time.Second),
		WithPollTimeout(10*time.Second))

	start := time.Now()
	exec, err := client.WaitForExecution(context.Background(), "exec-1")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, exec.Status)
	assert.Equal(t, int32(1), calls.Load())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWaitForExecutionPollsUntilTerminal(t *testing.T) {
	var calls atomic.Int32
	server := statusSequenceServer(t, &calls, StatusPending, StatusRunning, StatusSuccess)

	client := testClient(t, server.URL,
		WithPollInterval(10*time.Millisecond),
		WithPollTimeout(5*time.Second))

	exec, err := client.WaitForExecution(context.Background(), "exec-1")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, exec.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWaitForExecutionTimeout(t *testing.T) {
	var calls atomic.Int32
	server := statusSequenceServer(t, &calls, StatusRunning)

	client := testClient(t, server.URL,
		WithPollInterval(20*time.Millisecond),
		WithPollTimeout(50*time.Millisecond))

	_, err := client.WaitForExecution(context.Background(), "exec-1")
	require.ErrorIs(t, err, ErrTimeout)
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestWaitForExecutionFetchErrorAborts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			fmt.Fprint(w, `{"id":"exec-1","workflowId":"wf-1","status":"running"}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer server.Close()

	// Generous budget: the abort must come from the fetch error, not the
	// timeout.
	client := testClient(t, server.URL,
		WithPollInterval(10*time.Millisecond),
		WithPollTimeout(10*time.Second))

	start := time.Now()
	_, err := client.WaitForExecution(context.Background(), "exec-1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestWaitForExecutionCancelled(t *testing.T) {
	var calls atomic.Int32
	server := statusSequenceServer(t, &calls, StatusRunning)

	client := testClient(t, server.URL,
		WithPollInterval(10*time.Millisecond),
		WithPollTimeout(10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := client.WaitForExecution(ctx, "exec-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestExecuteWorkflowWithWait(t *testing.T) {
	var fetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			fmt.Fprint(w, `{"id":"exec-1","workflowId":"wf-1","status":"pending"}`)
			return
		}
		status := StatusRunning
		if fetches.Add(1) >= 2 {
			status = StatusSuccess
		}
		fmt.Fprintf(w, `{"id":"exec-1","workflowId":"wf-1","status":%q}`, status)
	}))
	defer server.Close()

	client := testClient(t, server.URL,
		WithPollInterval(10*time.Millisecond),
		WithPollTimeout(5*time.Second))

	exec, err := client.ExecuteWorkflow(context.Background(), "wf-1", nil, true)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, exec.Status)
	assert.Equal(t, int32(2), fetches.Load())
}
