package reporunner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxStreamMessageSize = 512 * 1024

// StreamSession is one open update channel for a single execution. It is
// exclusively owned by the caller that opened it and must be closed when no
// longer needed, including when Recv has already reported the end of the
// stream.
type StreamSession struct {
	// ID identifies the session in log output.
	ID          string
	executionID string
	conn        *websocket.Conn
	log         zerolog.Logger

	mu      sync.Mutex
	closed  bool  // caller called Close
	termErr error // cause of the stream's end, once it has one
}

// StreamExecution opens a live update stream for an execution. The stream
// endpoint is derived from the client's base URL by substituting the ws
// scheme, and the handshake carries the client's bearer token when one is
// configured. Streaming may be opened at any point in the execution's life;
// replay of earlier events is the server's policy.
//
// The session never reconnects on its own: a dropped connection surfaces
// through Recv as a *ConnectionError, and reopening the stream is the
// caller's responsibility.
func (c *Client) StreamExecution(ctx context.Context, executionID string) (*StreamSession, error) {
	wsURL := c.streamURL(executionID)

	opts := &websocket.DialOptions{}
	if c.apiKey != "" {
		opts.HTTPHeader = http.Header{"Authorization": {"Bearer " + c.apiKey}}
	}

	conn, resp, err := websocket.Dial(ctx, wsURL, opts)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("dialing %s: %w", wsURL, err)}
	}
	conn.SetReadLimit(maxStreamMessageSize)

	sessionID := uuid.New().String()
	sess := &StreamSession{
		ID:          sessionID,
		executionID: executionID,
		conn:        conn,
		log: c.log.With().
			Str("session_id", sessionID).
			Str("execution_id", executionID).
			Logger(),
	}
	sess.log.Debug().Str("url", wsURL).Msg("Execution stream opened")
	return sess, nil
}

// streamURL swaps the request scheme for the streaming scheme. The base URL
// was validated as http or https in New.
func (c *Client) streamURL(executionID string) string {
	u, _ := url.Parse(c.baseURL)
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	return u.String() + "/ws/execution/" + url.PathEscape(executionID)
}

// Recv returns the next update from the stream. Events arrive in server
// emission order. The error return distinguishes how the stream ends:
// io.EOF after a clean remote close, ErrSessionClosed once the caller has
// called Close, and *ConnectionError when the connection drops. A message
// that cannot be decoded is reported as a per-item *SerializationError and
// does not end the session.
func (s *StreamSession) Recv(ctx context.Context) (*ExecutionUpdate, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.termErr != nil {
		s.mu.Unlock()
		return nil, s.termErr
	}
	s.mu.Unlock()

	_, data, err := s.conn.Read(ctx)
	if err != nil {
		return nil, s.terminate(err)
	}

	var update ExecutionUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		s.log.Warn().Err(err).Msg("Malformed stream message")
		return nil, &SerializationError{Err: err}
	}
	s.log.Debug().Str("type", update.Type).Msg("Stream update received")
	return &update, nil
}

// terminate records why the stream ended and returns the error Recv should
// report. A read failure leaves the connection unusable, so the cause is
// sticky for subsequent Recv calls.
func (s *StreamSession) terminate(readErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.termErr == nil {
		if websocket.CloseStatus(readErr) == websocket.StatusNormalClosure {
			s.log.Debug().Msg("Stream closed by server")
			s.termErr = io.EOF
		} else {
			s.log.Debug().Err(readErr).Msg("Stream connection lost")
			s.termErr = &ConnectionError{Err: readErr}
		}
	}
	return s.termErr
}

// Close ends the session and releases the underlying connection. It is
// idempotent and safe to call concurrently with Recv; a Recv blocked on the
// connection unblocks with ErrSessionClosed.
func (s *StreamSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ended := s.termErr != nil
	s.mu.Unlock()

	s.log.Debug().Msg("Stream session closed")
	err := s.conn.Close(websocket.StatusNormalClosure, "client closing")
	if ended {
		// The connection already went away; closing it again is a no-op.
		return nil
	}
	return err
}
