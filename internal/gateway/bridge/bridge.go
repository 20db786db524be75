// Package bridge implements the exchange gateway against the terminal-side
// REST bridge: market snapshots come from GET /snapshot and orders go out
// through POST /orders/*.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"obot/internal/gateway/exchange"
	"obot/internal/logger"
)

type Gateway struct {
	baseURL    string
	httpClient *http.Client
}

var _ exchange.Gateway = (*Gateway)(nil)

func New(apiURL string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{
		baseURL:    strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *Gateway) Name() string { return "bridge" }

func (g *Gateway) GetSnapshot(ctx context.Context, symbol string) (*exchange.Snapshot, error) {
	endpoint := g.baseURL + "/snapshot?symbol=" + url.QueryEscape(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building snapshot request failed: %w", err)
	}
	body, err := g.do(req)
	if err != nil {
		return nil, err
	}
	var snap exchange.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot failed: %w", err)
	}
	if snap.Symbol == "" {
		snap.Symbol = symbol
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}
	return &snap, nil
}

func (g *Gateway) OpenPosition(ctx context.Context, req exchange.OpenRequest) (*exchange.OpenResult, error) {
	var res exchange.OpenResult
	if err := g.post(ctx, "/orders/open", req, &res); err != nil {
		return nil, err
	}
	logger.Infof("[bridge] opened %s %s %.2f lots, ticket=%d", req.Symbol, req.Side, req.Lots, res.Ticket)
	return &res, nil
}

func (g *Gateway) ClosePosition(ctx context.Context, req exchange.CloseRequest) (*exchange.CloseResult, error) {
	var res exchange.CloseResult
	if err := g.post(ctx, "/orders/close", req, &res); err != nil {
		return nil, err
	}
	logger.Infof("[bridge] closed %s at %.5f, profit=%.2f", req.Symbol, res.ClosedPrice, res.Profit)
	return &res, nil
}

func (g *Gateway) ModifyStopLoss(ctx context.Context, req exchange.ModifyStopLossRequest) error {
	return g.post(ctx, "/orders/modify_sl", req, nil)
}

func (g *Gateway) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request failed: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request failed: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	raw, err := g.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s response failed: %w", path, err)
	}
	return nil
}

func (g *Gateway) do(req *http.Request) ([]byte, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading bridge response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge returned status %d on %s: %s", resp.StatusCode, req.URL.Path, firstBytes(body, 256))
	}
	return body, nil
}

func firstBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
