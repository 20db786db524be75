// Package paper is an in-process gateway for dry runs and tests. It fills
// orders instantly at the current quote and marks equity to the midpoint.
// Price data must be fed in by the host (tests, or a replay loop).
package paper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"obot/internal/gateway/exchange"
	"obot/internal/logger"
	"obot/internal/types"
)

type Gateway struct {
	mu         sync.Mutex
	symbol     string
	balance    float64
	bid, ask   float64
	series     map[types.Timeframe][]types.Candle
	position   *types.PositionSnapshot
	pointValue float64
	nextTicket int64
}

var _ exchange.Gateway = (*Gateway)(nil)

func New(symbol string, startBalance, pointValue float64) *Gateway {
	if pointValue <= 0 {
		pointValue = 1
	}
	return &Gateway{
		symbol:     symbol,
		balance:    startBalance,
		series:     make(map[types.Timeframe][]types.Candle),
		pointValue: pointValue,
		nextTicket: 1,
	}
}

func (g *Gateway) Name() string { return "paper" }

// SetQuote updates the simulated top of book.
func (g *Gateway) SetQuote(bid, ask float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bid, g.ask = bid, ask
}

// SetSeries replaces the candle history for one timeframe.
func (g *Gateway) SetSeries(tf types.Timeframe, candles []types.Candle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.series[tf] = candles
}

func (g *Gateway) GetSnapshot(_ context.Context, symbol string) (*exchange.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if symbol != g.symbol {
		return nil, fmt.Errorf("unknown symbol %q", symbol)
	}
	series := make(map[types.Timeframe][]types.Candle, len(g.series))
	for tf, candles := range g.series {
		series[tf] = append([]types.Candle(nil), candles...)
	}
	snap := &exchange.Snapshot{
		Symbol:       g.symbol,
		Bid:          g.bid,
		Ask:          g.ask,
		SpreadPoints: (g.ask - g.bid) * g.pointValue,
		Series:       series,
		TakenAt:      time.Now(),
		Account: types.AccountSnapshot{
			Balance:   g.balance,
			Equity:    g.equityLocked(),
			Currency:  "USD",
			UpdatedAt: time.Now(),
		},
	}
	if g.position != nil {
		pos := *g.position
		snap.Position = &pos
	}
	return snap, nil
}

func (g *Gateway) OpenPosition(_ context.Context, req exchange.OpenRequest) (*exchange.OpenResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.position != nil {
		return nil, fmt.Errorf("position already open on %s", g.symbol)
	}
	if req.Side != types.SideLong && req.Side != types.SideShort {
		return nil, fmt.Errorf("invalid side %v", req.Side)
	}
	price := g.ask
	if req.Side == types.SideShort {
		price = g.bid
	}
	if price <= 0 {
		return nil, fmt.Errorf("no quote available")
	}
	ticket := g.nextTicket
	g.nextTicket++
	g.position = &types.PositionSnapshot{
		Symbol:      req.Symbol,
		Side:        req.Side,
		Lots:        req.Lots,
		EntryPrice:  price,
		StopLoss:    req.StopLoss,
		TakeProfit:  req.TakeProfit,
		Ticket:      ticket,
		OpenedAtUTC: time.Now().UTC().Unix(),
	}
	logger.Infof("[paper] opened %s %s %.2f lots at %.5f", req.Symbol, req.Side, req.Lots, price)
	return &exchange.OpenResult{Ticket: ticket, FilledPrice: price}, nil
}

func (g *Gateway) ClosePosition(_ context.Context, req exchange.CloseRequest) (*exchange.CloseResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.position == nil {
		return nil, fmt.Errorf("no open position on %s", req.Symbol)
	}
	price := g.bid
	if g.position.Side == types.SideShort {
		price = g.ask
	}
	profit := g.unrealizedLocked(price)
	g.balance += profit
	g.position = nil
	logger.Infof("[paper] closed %s at %.5f, profit=%.2f", req.Symbol, price, profit)
	return &exchange.CloseResult{Profit: profit, ClosedPrice: price}, nil
}

func (g *Gateway) ModifyStopLoss(_ context.Context, req exchange.ModifyStopLossRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.position == nil || g.position.Ticket != req.Ticket {
		return fmt.Errorf("no position with ticket %d", req.Ticket)
	}
	g.position.StopLoss = req.NewStopLoss
	return nil
}

func (g *Gateway) equityLocked() float64 {
	if g.position == nil {
		return g.balance
	}
	price := g.bid
	if g.position.Side == types.SideShort {
		price = g.ask
	}
	return g.balance + g.unrealizedLocked(price)
}

func (g *Gateway) unrealizedLocked(price float64) float64 {
	pos := g.position
	diff := price - pos.EntryPrice
	if pos.Side == types.SideShort {
		diff = pos.EntryPrice - price
	}
	return diff * pos.Lots * g.pointValue
}
