package decision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"obot/internal/logger"
)

// Client talks to the prediction service over HTTP. One instance is shared
// by all bars; requests are serialized by the controller so no internal
// locking is needed.
type Client struct {
	predictURL string
	httpClient *http.Client
}

func NewClient(apiURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		predictURL: strings.TrimRight(apiURL, "/") + "/predict",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Query sends one per-bar request and returns the sanitized decision. Any
// failure, transport, HTTP status, or parse, yields SafeHold plus the error
// so the caller can log it; the returned decision is always usable.
func (c *Client) Query(ctx context.Context, req Request) (Decision, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return SafeHold("ERROR"), fmt.Errorf("encoding predict request failed: %w", err)
	}
	logger.DumpDecision(req.Symbol, "request", string(payload))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.predictURL, bytes.NewReader(payload))
	if err != nil {
		return SafeHold("ERROR"), fmt.Errorf("building predict request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return SafeHold("ERROR"), fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return SafeHold("ERROR"), fmt.Errorf("reading predict response failed: %w", err)
	}
	logger.DumpDecision(req.Symbol, "response", string(body))

	if resp.StatusCode != http.StatusOK {
		return SafeHold("ERROR"), fmt.Errorf("predict returned status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	d, err := ParseResponse(body)
	if err != nil {
		return SafeHold("BAD_JSON"), fmt.Errorf("predict response unusable: %w", err)
	}
	return d, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
