package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shinyyama/blockguess-backend/internal/clock"
	"github.com/shinyyama/blockguess-backend/internal/db"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const t0 int64 = 1_700_000_000

type fixture struct {
	db     *gorm.DB
	clock  *clock.Manual
	audit  EventLogService
	rounds RoundService
	checks CheckInService
	prizes PrizeConfigService
	chat   ChatService
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := db.Open(sqlite.Open(dsn), true)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithEvents(t, nil)
}

// newFixtureWithEvents lets a test swap the event log repository, e.g. for one that fails.
func newFixtureWithEvents(t *testing.T, events repository.EventLogRepository) *fixture {
	t.Helper()
	conn := openTestDB(t)
	clk := clock.NewManual(t0)
	if events == nil {
		events = repository.NewEventLogRepository(conn)
	}
	audit := NewEventLogService(events, clk)
	tx := repository.NewTransactor(conn)
	prizeRepo := repository.NewPrizeConfigRepository(conn)
	return &fixture{
		db:     conn,
		clock:  clk,
		audit:  audit,
		rounds: NewRoundService(tx, repository.NewRoundRepository(conn), repository.NewGuessRepository(conn), prizeRepo, audit, clk),
		checks: NewCheckInService(tx, repository.NewUserStatRepository(conn), repository.NewCheckInRepository(conn), audit, clk),
		prizes: NewPrizeConfigService(prizeRepo, audit, clk),
		chat:   NewChatService(repository.NewChatRepository(conn), audit, clk),
	}
}

func (f *fixture) countEvents(t *testing.T, eventType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.EventLog{}).Where("event_type = ?", eventType).Count(&n).Error)
	return n
}

func (f *fixture) countAllEvents(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.EventLog{}).Count(&n).Error)
	return n
}

func (f *fixture) createRound(t *testing.T, minutes int64) *model.Round {
	t.Helper()
	r, err := f.rounds.CreateRound(context.Background(), CreateRoundInput{RoundNumber: 1, DurationMinutes: minutes, Prize: "100 USDC"})
	require.NoError(t, err)
	return r
}

func (f *fixture) guess(t *testing.T, roundID uint64, fid, value int64) *model.Guess {
	t.Helper()
	g, err := f.rounds.SubmitGuess(context.Background(), SubmitGuessInput{RoundID: roundID, FID: fid, Username: "user", Guess: value})
	require.NoError(t, err)
	return g
}

type failingEventLogRepository struct{}

func (failingEventLogRepository) Create(context.Context, *model.EventLog) error {
	return errors.New("audit sink down")
}

func (failingEventLogRepository) List(context.Context, string, int) ([]model.EventLog, error) {
	return nil, errors.New("audit sink down")
}

func (failingEventLogRepository) ListAfter(context.Context, uint64, int) ([]model.EventLog, error) {
	return nil, errors.New("audit sink down")
}
