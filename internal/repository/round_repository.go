package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDBNotReady = errors.New("database not initialized")

type RoundRepository interface {
	Create(ctx context.Context, r *model.Round) error
	FindByID(ctx context.Context, id uint64) (*model.Round, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*model.Round, error)
	FindLatestActive(ctx context.Context) (*model.Round, error)
	List(ctx context.Context, limit, offset int, status model.RoundStatus) ([]model.Round, int64, error)
	ListOpenDue(ctx context.Context, now int64) ([]model.Round, error)
	Update(ctx context.Context, r *model.Round) error
	CloseIfOpen(ctx context.Context, ids []uint64, now int64) (int64, error)
}

type roundRepository struct {
	db *gorm.DB
}

func NewRoundRepository(db *gorm.DB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Create(ctx context.Context, round *model.Round) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(round).Error
}

func (r *roundRepository) FindByID(ctx context.Context, id uint64) (*model.Round, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var round model.Round
	if err := r.db.WithContext(ctx).First(&round, id).Error; err != nil {
		return nil, err
	}
	return &round, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
// SQLite has no row locks and ignores the clause.
func (r *roundRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*model.Round, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var round model.Round
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&round, id).Error; err != nil {
		return nil, err
	}
	return &round, nil
}

// FindLatestActive returns the open or closed round with the highest id, or nil.
func (r *roundRepository) FindLatestActive(ctx context.Context) (*model.Round, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var round model.Round
	err := r.db.WithContext(ctx).
		Where("status IN ?", []model.RoundStatus{model.RoundStatusOpen, model.RoundStatusClosed}).
		Order("id DESC").
		First(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepository) List(ctx context.Context, limit, offset int, status model.RoundStatus) ([]model.Round, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var (
		rounds []model.Round
		total  int64
	)
	q := r.db.WithContext(ctx).Model(&model.Round{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rounds).Error; err != nil {
		return nil, 0, err
	}
	return rounds, total, nil
}

// ListOpenDue returns open rounds whose end_time has passed, locked for update.
func (r *roundRepository) ListOpenDue(ctx context.Context, now int64) ([]model.Round, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rounds []model.Round
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status = ? AND end_time <= ?", model.RoundStatusOpen, now).
		Order("id ASC").
		Find(&rounds).Error; err != nil {
		return nil, err
	}
	return rounds, nil
}

func (r *roundRepository) Update(ctx context.Context, round *model.Round) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(round).Error
}

// CloseIfOpen flips the given rounds to closed, skipping any that are no longer open.
func (r *roundRepository) CloseIfOpen(ctx context.Context, ids []uint64, now int64) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Round{}).
		Where("id IN ? AND status = ?", ids, model.RoundStatusOpen).
		Updates(map[string]interface{}{
			"status":     model.RoundStatusClosed,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
