package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"obot/internal/store/model"
)

type DecisionLogRepo struct {
	db *gorm.DB
}

func NewDecisionLogRepo(db *gorm.DB) *DecisionLogRepo {
	return &DecisionLogRepo{db: db}
}

func (r *DecisionLogRepo) Insert(ctx context.Context, entry *model.DecisionLogModel) error {
	if entry == nil {
		return errors.New("decision log entry cannot be nil")
	}
	if entry.CreatedAtUnix == 0 {
		entry.CreatedAtUnix = time.Now().Unix()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *DecisionLogRepo) ListRecent(ctx context.Context, symbol string, limit int) ([]model.DecisionLogModel, error) {
	var entries []model.DecisionLogModel
	if limit <= 0 {
		limit = 100
	}
	q := r.db.WithContext(ctx).Order("bar_open DESC, id DESC").Limit(limit)
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
