// Package reporunner is the Go client for the Reporunner
// workflow-automation API. It covers workflow CRUD, execution submission
// and cancellation, blocking waits for execution completion via bounded
// polling, and live execution updates over WebSocket.
//
// All failures surface as typed errors (*APIError, *TransportError,
// *SerializationError, *ConnectionError, ErrTimeout) and are per-call:
// nothing in this package is fatal to the process, and the client performs
// no automatic retries or reconnects on behalf of the caller.
package reporunner
