package reporunner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// request performs a single HTTP exchange against the API. The body, when
// non-nil, is sent as JSON; the response body is decoded into result when
// non-nil. Failures map onto the package's error kinds: *TransportError
// for network failures, *APIError for non-2xx responses and
// *SerializationError for undecodable bodies. The transport never retries;
// transient failures surface to the caller.
func (c *Client) request(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := send(req, method, path)
	if err != nil {
		if errors.Is(err, ErrInvalidMethod) {
			return err
		}
		return &TransportError{Err: err}
	}

	if resp.IsError() {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Message:    strings.TrimSpace(string(resp.Body())),
		}
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			return &SerializationError{Err: err}
		}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Msg("API request completed")
	return nil
}

func send(req *resty.Request, method, path string) (*resty.Response, error) {
	switch method {
	case http.MethodGet:
		return req.Get(path)
	case http.MethodPost:
		return req.Post(path)
	case http.MethodPut:
		return req.Put(path)
	case http.MethodDelete:
		return req.Delete(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMethod, method)
	}
}
