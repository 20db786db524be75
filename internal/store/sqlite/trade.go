package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"obot/internal/store/model"
)

type TradeRepo struct {
	db *gorm.DB
}

func NewTradeRepo(db *gorm.DB) *TradeRepo {
	return &TradeRepo{db: db}
}

// Save inserts or updates a trade keyed by its ticket.
func (r *TradeRepo) Save(ctx context.Context, trade *model.TradeModel) error {
	if trade == nil {
		return errors.New("trade cannot be nil")
	}
	now := time.Now().Unix()
	if trade.CreatedAtUnix == 0 {
		trade.CreatedAtUnix = now
	}
	trade.UpdatedAtUnix = now
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticket"}},
		UpdateAll: true,
	}).Save(trade).Error
}

// FindOpen returns the open trade for a symbol, or nil when flat.
func (r *TradeRepo) FindOpen(ctx context.Context, symbol string) (*model.TradeModel, error) {
	var trade model.TradeModel
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND status = ?", symbol, model.TradeStatusOpen).
		Order("opened_at DESC").
		First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// ListRecent lists recently closed trades, newest first.
func (r *TradeRepo) ListRecent(ctx context.Context, symbol string, limit int) ([]model.TradeModel, error) {
	var trades []model.TradeModel
	if limit <= 0 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Order("closed_at DESC, id DESC").Limit(limit)
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	if err := q.Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}
