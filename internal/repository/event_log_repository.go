package repository

import (
	"context"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"gorm.io/gorm"
)

type EventLogRepository interface {
	Create(ctx context.Context, e *model.EventLog) error
	List(ctx context.Context, eventType string, limit int) ([]model.EventLog, error)
	ListAfter(ctx context.Context, afterID uint64, limit int) ([]model.EventLog, error)
}

type eventLogRepository struct {
	db *gorm.DB
}

func NewEventLogRepository(db *gorm.DB) EventLogRepository {
	return &eventLogRepository{db: db}
}

func (r *eventLogRepository) Create(ctx context.Context, e *model.EventLog) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(e).Error
}

// List returns the newest entries first, optionally filtered by type.
func (r *eventLogRepository) List(ctx context.Context, eventType string, limit int) ([]model.EventLog, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []model.EventLog
	q := r.db.WithContext(ctx).Model(&model.EventLog{})
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	if err := q.Order("id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListAfter pages through the log oldest first, for exports.
func (r *eventLogRepository) ListAfter(ctx context.Context, afterID uint64, limit int) ([]model.EventLog, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.EventLog
	if err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
