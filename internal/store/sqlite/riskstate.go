package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"obot/internal/store/model"
)

type RiskStateRepo struct {
	db *gorm.DB
}

func NewRiskStateRepo(db *gorm.DB) *RiskStateRepo {
	return &RiskStateRepo{db: db}
}

// Save upserts the risk state blob for a symbol.
func (r *RiskStateRepo) Save(ctx context.Context, symbol string, stateJSON []byte) error {
	if symbol == "" {
		return errors.New("symbol cannot be empty")
	}
	row := model.RiskStateModel{
		Symbol:        symbol,
		StateJSON:     datatypes.JSON(stateJSON),
		UpdatedAtUnix: time.Now().Unix(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// Load returns the stored blob, or nil when the symbol has no saved state.
func (r *RiskStateRepo) Load(ctx context.Context, symbol string) ([]byte, error) {
	var row model.RiskStateModel
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.StateJSON), nil
}
