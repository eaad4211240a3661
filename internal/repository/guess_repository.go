package repository

import (
	"context"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"gorm.io/gorm"
)

type GuessRepository interface {
	Create(ctx context.Context, g *model.Guess) error
	ListByRound(ctx context.Context, roundID uint64) ([]model.Guess, error)
	ExistsForUser(ctx context.Context, roundID uint64, fid int64) (bool, error)
}

type guessRepository struct {
	db *gorm.DB
}

func NewGuessRepository(db *gorm.DB) GuessRepository {
	return &guessRepository{db: db}
}

func (r *guessRepository) Create(ctx context.Context, g *model.Guess) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *guessRepository) ListByRound(ctx context.Context, roundID uint64) ([]model.Guess, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Guess
	if err := r.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *guessRepository) ExistsForUser(ctx context.Context, roundID uint64, fid int64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Guess{}).
		Where("round_id = ? AND fid = ?", roundID, fid).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
