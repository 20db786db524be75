package sqlite

import (
	"context"

	"obot/internal/store/model"
)

// Flat journal surface consumed by the trading controller.

func (s *Store) SaveTrade(ctx context.Context, trade *model.TradeModel) error {
	return s.Trades().Save(ctx, trade)
}

func (s *Store) FindOpenTrade(ctx context.Context, symbol string) (*model.TradeModel, error) {
	return s.Trades().FindOpen(ctx, symbol)
}

func (s *Store) InsertDecision(ctx context.Context, entry *model.DecisionLogModel) error {
	return s.Decisions().Insert(ctx, entry)
}

func (s *Store) SaveRiskState(ctx context.Context, symbol string, stateJSON []byte) error {
	return s.RiskStates().Save(ctx, symbol, stateJSON)
}

func (s *Store) LoadRiskState(ctx context.Context, symbol string) ([]byte, error) {
	return s.RiskStates().Load(ctx, symbol)
}
