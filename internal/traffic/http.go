package traffic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// requestIDHeader matches the header echoed by the API.
const requestIDHeader = "X-Request-ID"

// Result is the outcome of one request. Status is zero when no response was
// received.
type Result struct {
	Endpoint  string
	RequestID string
	Status    int
	Latency   time.Duration
	Err       error
}

// client wraps http.Client with the API base URL.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// send issues one request for ep and drains the response.
func (c *client) send(ctx context.Context, ep Endpoint, seq int) Result {
	res := Result{Endpoint: ep.Name, RequestID: uuid.NewString()}

	var body io.Reader = http.NoBody
	if ep.Method == http.MethodPost {
		payload, err := json.Marshal(map[string]any{
			"name":  fmt.Sprintf("Traffic User %d", seq),
			"email": fmt.Sprintf("user%d@example.com", seq),
		})
		if err != nil {
			res.Err = fmt.Errorf("failed to marshal request body: %w", err)
			return res
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, c.baseURL+ep.Path, body)
	if err != nil {
		res.Err = fmt.Errorf("failed to create request: %w", err)
		return res
	}
	req.Header.Set(requestIDHeader, res.RequestID)
	if ep.Method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		res.Latency = time.Since(start)
		res.Err = fmt.Errorf("%s %s: %w", ep.Method, ep.Path, err)
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	res.Latency = time.Since(start)
	res.Status = resp.StatusCode
	return res
}
