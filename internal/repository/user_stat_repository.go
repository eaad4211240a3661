package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserStatRepository interface {
	Get(ctx context.Context, userIdentifier string) (*model.UserStat, error)
	GetForUpdate(ctx context.Context, userIdentifier string) (*model.UserStat, error)
	Save(ctx context.Context, stat *model.UserStat) error
	ListTop(ctx context.Context, limit int) ([]model.UserStat, error)
	ListByUsers(ctx context.Context, userIdentifiers []string) ([]model.UserStat, error)
}

type userStatRepository struct {
	db *gorm.DB
}

func NewUserStatRepository(db *gorm.DB) UserStatRepository {
	return &userStatRepository{db: db}
}

// Get returns nil without error when the user has never checked in.
func (r *userStatRepository) Get(ctx context.Context, userIdentifier string) (*model.UserStat, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	return r.get(r.db.WithContext(ctx), userIdentifier)
}

func (r *userStatRepository) GetForUpdate(ctx context.Context, userIdentifier string) (*model.UserStat, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userIdentifier)
}

func (r *userStatRepository) get(q *gorm.DB, userIdentifier string) (*model.UserStat, error) {
	var stat model.UserStat
	err := q.Where("user_identifier = ?", userIdentifier).First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// Save inserts the row when it has no id yet and overwrites it otherwise.
func (r *userStatRepository) Save(ctx context.Context, stat *model.UserStat) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	if stat.ID == 0 {
		return r.db.WithContext(ctx).Create(stat).Error
	}
	return r.db.WithContext(ctx).Save(stat).Error
}

func (r *userStatRepository) ListTop(ctx context.Context, limit int) ([]model.UserStat, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.UserStat
	if err := r.db.WithContext(ctx).
		Order("total_points DESC").
		Order("longest_streak DESC").
		Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *userStatRepository) ListByUsers(ctx context.Context, userIdentifiers []string) ([]model.UserStat, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if len(userIdentifiers) == 0 {
		return nil, nil
	}
	var list []model.UserStat
	if err := r.db.WithContext(ctx).
		Where("user_identifier IN ?", userIdentifiers).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
