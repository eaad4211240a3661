package repository

import (
	"context"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"gorm.io/gorm"
)

type CheckInRepository interface {
	Create(ctx context.Context, c *model.CheckIn) error
	ExistsOnDay(ctx context.Context, userIdentifier string, day int64) (bool, error)
	ListByUser(ctx context.Context, userIdentifier string, limit int) ([]model.CheckIn, error)
	ListSince(ctx context.Context, fromDay int64) ([]model.CheckIn, error)
	CountByUser(ctx context.Context, userIdentifier string) (int64, error)
}

type checkInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

func (r *checkInRepository) Create(ctx context.Context, c *model.CheckIn) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *checkInRepository) ExistsOnDay(ctx context.Context, userIdentifier string, day int64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.CheckIn{}).
		Where("user_identifier = ? AND checkin_day = ?", userIdentifier, day).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *checkInRepository) ListByUser(ctx context.Context, userIdentifier string, limit int) ([]model.CheckIn, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.CheckIn
	if err := r.db.WithContext(ctx).
		Where("user_identifier = ?", userIdentifier).
		Order("checkin_day DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *checkInRepository) ListSince(ctx context.Context, fromDay int64) ([]model.CheckIn, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.CheckIn
	if err := r.db.WithContext(ctx).
		Where("checkin_day >= ?", fromDay).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *checkInRepository) CountByUser(ctx context.Context, userIdentifier string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.CheckIn{}).
		Where("user_identifier = ?", userIdentifier).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}
