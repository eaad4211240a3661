package repository

import (
	"context"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PrizeConfigRepository interface {
	Get(ctx context.Context) (*model.PrizeConfig, error)
	Upsert(ctx context.Context, cfg *model.PrizeConfig) error
}

type prizeConfigRepository struct {
	db *gorm.DB
}

func NewPrizeConfigRepository(db *gorm.DB) PrizeConfigRepository {
	return &prizeConfigRepository{db: db}
}

func (r *prizeConfigRepository) Get(ctx context.Context) (*model.PrizeConfig, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cfg model.PrizeConfig
	if err := r.db.WithContext(ctx).First(&cfg, model.PrizeConfigID).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert writes the singleton row, replacing every column of an existing one.
func (r *prizeConfigRepository) Upsert(ctx context.Context, cfg *model.PrizeConfig) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	cfg.ID = model.PrizeConfigID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"jackpot_amount",
			"first_place_amount",
			"second_place_amount",
			"currency_type",
			"token_contract_address",
			"updated_at",
		}),
	}).Create(cfg).Error
}
