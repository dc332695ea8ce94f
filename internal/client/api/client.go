// Package api wraps the backend REST API in two façades (auth operations and
// complaint operations). Every method reads the bearer token fresh from the
// session store, attaches it when present, and normalizes all failures to
// *APIError.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/singleflight"

	"complaint_portal/internal/client/session"
)

// DefaultBaseURL is the development backend address, matching the server's
// default port and versioned prefix.
const DefaultBaseURL = "http://localhost:8080/api/v1"

// Client talks to the complaint portal backend. Identical in-flight GET
// requests are coalesced into a single round trip.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *session.Store
	inflight   singleflight.Group
}

// NewClient creates a client against baseURL, reading tokens from store.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, store *session.Store) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		sessions:   store,
	}
}

// do issues one request and decodes a 2xx response body into out (when out
// is non-nil). The token is read per call; when absent the request goes out
// without an Authorization header and the backend's 401 is surfaced as-is.
// Concurrent GETs for the same path and token share one round trip; each
// caller decodes the shared payload into its own out value.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	token := c.sessions.Token()

	var res response
	var err error
	if method == http.MethodGet {
		var shared any
		shared, err, _ = c.inflight.Do(token+" "+path, func() (any, error) {
			res, rtErr := c.roundTrip(ctx, method, path, body, contentType, token)
			return res, rtErr
		})
		if err == nil {
			res = shared.(response)
		}
	} else {
		res, err = c.roundTrip(ctx, method, path, body, contentType, token)
	}
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(res.payload, out); err != nil {
			return &APIError{StatusCode: res.status, Message: fmt.Sprintf("failed to decode response: %v", err)}
		}
	}
	return nil
}

type response struct {
	status  int
	payload []byte
}

// roundTrip performs the HTTP exchange and returns the 2xx body. Transport
// failures come back as network-class errors, non-2xx responses as backend
// errors.
func (c *Client) roundTrip(ctx context.Context, method, path string, body io.Reader, contentType, token string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, networkError(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, networkError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response{}, backendError(resp.StatusCode, payload)
	}
	return response{status: resp.StatusCode, payload: payload}, nil
}
