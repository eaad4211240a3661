package repository

import (
	"context"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"gorm.io/gorm"
)

type ChatRepository interface {
	CreateMessage(ctx context.Context, msg *model.ChatMessage) error
	ListMessages(ctx context.Context, roundID string, limit int) ([]model.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns the latest limit messages of a room, oldest first.
func (r *chatRepository) ListMessages(ctx context.Context, roundID string, limit int) ([]model.ChatMessage, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("id DESC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
