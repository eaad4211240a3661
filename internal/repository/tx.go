package repository

import (
	"context"

	"gorm.io/gorm"
)

// Stores groups the repositories a core operation may touch, all bound to one transaction.
type Stores struct {
	Rounds    RoundRepository
	Guesses   GuessRepository
	UserStats UserStatRepository
	CheckIns  CheckInRepository
}

func NewStores(db *gorm.DB) Stores {
	return Stores{
		Rounds:    NewRoundRepository(db),
		Guesses:   NewGuessRepository(db),
		UserStats: NewUserStatRepository(db),
		CheckIns:  NewCheckInRepository(db),
	}
}

// Transactor runs fn as one all-or-nothing unit. A non-nil error from fn rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(s Stores) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTx(ctx context.Context, fn func(s Stores) error) error {
	if t.db == nil {
		return ErrDBNotReady
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}
