package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	block := int64(870000)

	r, err := f.rounds.CreateRound(ctx, CreateRoundInput{RoundNumber: 7, DurationMinutes: 60, Prize: "50 USDC", BlockNumber: &block})
	require.NoError(t, err)
	assert.Equal(t, model.RoundStatusOpen, r.Status)
	assert.Equal(t, t0, r.StartTime)
	assert.Equal(t, t0+3600, r.EndTime)
	assert.Equal(t, t0, r.CreatedAt)
	assert.Nil(t, r.ActualTxCount)
	assert.Nil(t, r.WinningFID)
	assert.EqualValues(t, 1, f.countEvents(t, model.EventRoundCreated))

	for _, d := range []int64{0, -5, MaxRoundDurationMinutes + 1, math.MaxInt64 / 30} {
		_, err := f.rounds.CreateRound(ctx, CreateRoundInput{RoundNumber: 8, DurationMinutes: d})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	_, total, err := f.rounds.ListRounds(ctx, 10, 0, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	long, err := f.rounds.CreateRound(ctx, CreateRoundInput{RoundNumber: 9, DurationMinutes: MaxRoundDurationMinutes})
	require.NoError(t, err)
	assert.Equal(t, long.StartTime+MaxRoundDurationMinutes*60, long.EndTime)
	assert.Greater(t, long.EndTime, long.StartTime)
}

func TestSubmitGuessWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.createRound(t, 10)

	// now == start_time is inside the window
	g := f.guess(t, r.ID, 1, 2500)
	assert.Equal(t, t0, g.SubmittedAt)
	assert.EqualValues(t, 1, f.countEvents(t, model.EventGuessSubmitted))

	_, err := f.rounds.SubmitGuess(ctx, SubmitGuessInput{RoundID: r.ID, FID: 1, Guess: 3000})
	assert.ErrorIs(t, err, ErrDuplicateSubmission)

	f.clock.Set(r.EndTime - 1)
	f.guess(t, r.ID, 2, 2600)

	f.clock.Set(r.EndTime)
	_, err = f.rounds.SubmitGuess(ctx, SubmitGuessInput{RoundID: r.ID, FID: 3, Guess: 2700})
	assert.ErrorIs(t, err, ErrWindowClosed)

	guesses, err := f.rounds.ListGuesses(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, guesses, 2)
	assert.EqualValues(t, 2, guesses[0].FID, "newest first")
	assert.EqualValues(t, 2, f.countEvents(t, model.EventGuessSubmitted))
}

func TestSubmitGuessCheckOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.rounds.SubmitGuess(ctx, SubmitGuessInput{RoundID: 999, FID: 1, Guess: 1})
	assert.ErrorIs(t, err, ErrNotFound)
	// a missing round wins over malformed input
	_, err = f.rounds.SubmitGuess(ctx, SubmitGuessInput{RoundID: 999, FID: 0, Guess: -1})
	assert.ErrorIs(t, err, ErrNotFound)

	// A closed round reports InvalidState even though its window has also passed.
	r := f.createRound(t, 1)
	f.guess(t, r.ID, 1, 100)
	f.clock.Advance(2 * time.Minute)
	_, err = f.rounds.CloseRound(ctx, r.ID)
	require.NoError(t, err)
	_, err = f.rounds.SubmitGuess(ctx, SubmitGuessInput{RoundID: r.ID, FID: 1, Guess: 1})
	assert.ErrorIs(t, err, ErrInvalidState)

	future := &model.Round{
		RoundNumber:     2,
		StartTime:       f.clock.Now() + 600,
		EndTime:         f.clock.Now() + 1200,
		DurationMinutes: 10,
		Status:          model.RoundStatusOpen,
	}
	require.NoError(t, repository.NewRoundRepository(f.db).Create(ctx, future))
	_, err = f.rounds.SubmitGuess(ctx, SubmitGuessInput{RoundID: future.ID, FID: 1, Guess: 1})
	assert.ErrorIs(t, err, ErrNotStarted)

	_, err = f.rounds.SubmitGuess(ctx, SubmitGuessInput{RoundID: future.ID, FID: 0, Guess: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCloseRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.createRound(t, 10)

	closed, err := f.rounds.CloseRound(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoundStatusClosed, closed.Status)
	assert.EqualValues(t, 1, f.countEvents(t, model.EventRoundClosed))

	_, err = f.rounds.CloseRound(ctx, r.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = f.rounds.CloseRound(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 1, f.countEvents(t, model.EventRoundClosed))
}

func TestAutoCloseDueIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.rounds.AutoCloseDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, f.countAllEvents(t), "nothing due writes nothing")

	due := f.createRound(t, 5)
	manual := f.createRound(t, 5)
	later := f.createRound(t, 60)
	_, err = f.rounds.CloseRound(ctx, manual.ID)
	require.NoError(t, err)

	f.clock.Advance(5 * time.Minute)
	n, err = f.rounds.AutoCloseDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.EqualValues(t, 1, f.countEvents(t, model.EventAutoCloseRounds))

	got, err := f.rounds.GetRound(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoundStatusClosed, got.Status)
	got, err = f.rounds.GetRound(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoundStatusOpen, got.Status)

	n, err = f.rounds.AutoCloseDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.EqualValues(t, 1, f.countEvents(t, model.EventAutoCloseRounds))
}

func TestFinalizeRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.createRound(t, 10)

	f.guess(t, r.ID, 10, 2990) // distance 10
	f.clock.Advance(time.Second)
	f.guess(t, r.ID, 11, 3010) // distance 10, later
	f.clock.Advance(time.Second)
	f.guess(t, r.ID, 12, 3500)

	_, err := f.rounds.FinalizeRound(ctx, r.ID, 3000, "0xabc")
	assert.ErrorIs(t, err, ErrInvalidState, "open rounds must be closed first")

	_, err = f.rounds.CloseRound(ctx, r.ID)
	require.NoError(t, err)

	out, err := f.rounds.FinalizeRound(ctx, r.ID, 3000, "0xabc")
	require.NoError(t, err)
	require.NotNil(t, out.Winner)
	require.NotNil(t, out.RunnerUp)
	assert.EqualValues(t, 10, out.Winner.FID, "earlier submission wins the tie")
	assert.EqualValues(t, 11, out.RunnerUp.FID)
	assert.Equal(t, model.RoundStatusFinished, out.Round.Status)
	assert.False(t, out.Round.IsJackpot)
	assert.Equal(t, "0xabc", *out.Round.BlockHash)
	assert.Nil(t, out.Payouts, "no prize config saved")

	stored, err := f.rounds.GetRound(ctx, r.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, *stored.WinningFID)
	assert.EqualValues(t, 11, *stored.RunnerUpFID)
	assert.EqualValues(t, 3000, *stored.ActualTxCount)
	assert.EqualValues(t, 1, f.countEvents(t, model.EventRoundFinished))

	_, err = f.rounds.FinalizeRound(ctx, r.ID, 1, "0xdef")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = f.rounds.FinalizeRound(ctx, 999, 1, "0xdef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinalizeRoundJackpotAndPayouts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.prizes.Save(ctx, PrizeConfigInput{JackpotAmount: 1000, FirstPlaceAmount: 100, SecondPlaceAmount: 50, CurrencyType: "USDC"})
	require.NoError(t, err)

	r := f.createRound(t, 10)
	f.guess(t, r.ID, 1, 4200)
	_, err = f.rounds.CloseRound(ctx, r.ID)
	require.NoError(t, err)

	out, err := f.rounds.FinalizeRound(ctx, r.ID, 4200, "0x1")
	require.NoError(t, err)
	assert.True(t, out.Round.IsJackpot)
	assert.Nil(t, out.RunnerUp)
	assert.Nil(t, out.Round.RunnerUpFID)
	require.NotNil(t, out.Payouts)
	assert.EqualValues(t, 1000, out.Payouts.WinnerAmount)
	assert.Zero(t, out.Payouts.RunnerUpAmount)
	assert.Equal(t, "USDC", out.Payouts.Currency)
}

func TestFinalizeRoundWithoutGuesses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.createRound(t, 10)
	_, err := f.rounds.CloseRound(ctx, r.ID)
	require.NoError(t, err)

	out, err := f.rounds.FinalizeRound(ctx, r.ID, 100, "0x0")
	require.NoError(t, err)
	assert.Nil(t, out.Winner)
	assert.Nil(t, out.Round.WinningFID)
	assert.False(t, out.Round.IsJackpot)
	assert.Equal(t, model.RoundStatusFinished, out.Round.Status)
}

func TestActiveRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.rounds.ActiveRound(ctx)
	require.NoError(t, err)
	assert.Nil(t, r)

	first := f.createRound(t, 10)
	second := f.createRound(t, 10)
	_, err = f.rounds.CloseRound(ctx, second.ID)
	require.NoError(t, err)

	before := f.countAllEvents(t)
	r, err = f.rounds.ActiveRound(ctx)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, second.ID, r.ID, "closed but unfinished still counts")
	assert.Equal(t, before, f.countAllEvents(t), "query writes no audit entry")

	_, err = f.rounds.FinalizeRound(ctx, second.ID, 1, "0x")
	require.NoError(t, err)
	r, err = f.rounds.ActiveRound(ctx)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, first.ID, r.ID)
}

func TestRoundLeaderboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.createRound(t, 10)
	f.guess(t, r.ID, 1, 100)
	f.guess(t, r.ID, 2, 205)
	f.guess(t, r.ID, 3, 190)

	_, err := f.rounds.RoundLeaderboard(ctx, r.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	provisional := int64(200)
	board, err := f.rounds.RoundLeaderboard(ctx, r.ID, &provisional)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.EqualValues(t, 2, board[0].Guess.FID)
	assert.EqualValues(t, 5, board[0].Distance)
	assert.True(t, board[0].Winner)
	assert.True(t, board[1].RunnerUp)
	assert.Equal(t, 3, board[2].Rank)
}

func TestAuditFailureDoesNotFailOperation(t *testing.T) {
	f := newFixtureWithEvents(t, failingEventLogRepository{})
	ctx := context.Background()

	r, err := f.rounds.CreateRound(ctx, CreateRoundInput{RoundNumber: 1, DurationMinutes: 10})
	require.NoError(t, err)
	_, err = f.rounds.SubmitGuess(ctx, SubmitGuessInput{RoundID: r.ID, FID: 1, Guess: 1})
	require.NoError(t, err)
	_, err = f.rounds.CloseRound(ctx, r.ID)
	require.NoError(t, err)
	_, err = f.rounds.FinalizeRound(ctx, r.ID, 1, "0x")
	require.NoError(t, err)
	_, err = f.checks.CheckIn(ctx, CheckInInput{UserIdentifier: "fid-1"})
	require.NoError(t, err)

	_, err = f.audit.List(ctx, "", 10)
	assert.ErrorIs(t, err, ErrStorageFailure)
}
