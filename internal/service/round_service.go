package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/shinyyama/blockguess-backend/internal/clock"
	"github.com/shinyyama/blockguess-backend/internal/game"
	"github.com/shinyyama/blockguess-backend/internal/logger"
	"github.com/shinyyama/blockguess-backend/internal/metrics"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/repository"
	"go.uber.org/zap"
)

type RoundService interface {
	CreateRound(ctx context.Context, in CreateRoundInput) (*model.Round, error)
	SubmitGuess(ctx context.Context, in SubmitGuessInput) (*model.Guess, error)
	CloseRound(ctx context.Context, roundID uint64) (*model.Round, error)
	AutoCloseDue(ctx context.Context) (int, error)
	FinalizeRound(ctx context.Context, roundID uint64, actualTxCount int64, blockHash string) (*RoundOutcome, error)
	ActiveRound(ctx context.Context) (*model.Round, error)

	GetRound(ctx context.Context, roundID uint64) (*model.Round, error)
	ListRounds(ctx context.Context, limit, offset int, status model.RoundStatus) ([]model.Round, int64, error)
	ListGuesses(ctx context.Context, roundID uint64) ([]model.Guess, error)
	RoundLeaderboard(ctx context.Context, roundID uint64, provisional *int64) ([]LeaderboardEntry, error)
	Outcome(ctx context.Context, roundID uint64) (*RoundOutcome, error)
}

// MaxRoundDurationMinutes caps a round at one year so end_time stays representable.
const MaxRoundDurationMinutes = 366 * 24 * 60

type CreateRoundInput struct {
	RoundNumber     int64
	DurationMinutes int64
	Prize           string
	BlockNumber     *int64
}

type SubmitGuessInput struct {
	RoundID  uint64
	FID      int64
	Username string
	Guess    int64
	PfpURL   *string
}

// RoundOutcome is a finished round together with its winning guesses and, when a prize
// configuration exists, what each of them is paid.
type RoundOutcome struct {
	Round    *model.Round
	Winner   *model.Guess
	RunnerUp *model.Guess
	Payouts  *Payouts
}

type Payouts struct {
	Currency       string
	TokenContract  string
	WinnerAmount   int64
	RunnerUpAmount int64
}

type LeaderboardEntry struct {
	Rank     int
	Guess    model.Guess
	Distance int64
	Winner   bool
	RunnerUp bool
}

type roundService struct {
	tx     repository.Transactor
	rounds repository.RoundRepository
	guess  repository.GuessRepository
	prizes repository.PrizeConfigRepository
	audit  EventLogService
	clock  clock.Clock
}

func NewRoundService(
	tx repository.Transactor,
	rounds repository.RoundRepository,
	guesses repository.GuessRepository,
	prizes repository.PrizeConfigRepository,
	audit EventLogService,
	clk clock.Clock,
) RoundService {
	return &roundService{tx: tx, rounds: rounds, guess: guesses, prizes: prizes, audit: audit, clock: clk}
}

func (s *roundService) CreateRound(ctx context.Context, in CreateRoundInput) (*model.Round, error) {
	if in.DurationMinutes <= 0 {
		return nil, invalidArg("duration_minutes must be positive")
	}
	if in.DurationMinutes > MaxRoundDurationMinutes {
		return nil, invalidArg("duration_minutes must not exceed %d", MaxRoundDurationMinutes)
	}
	now := s.clock.Now()
	r := &model.Round{
		RoundNumber:     in.RoundNumber,
		Prize:           in.Prize,
		BlockNumber:     in.BlockNumber,
		StartTime:       now,
		EndTime:         now + in.DurationMinutes*60,
		DurationMinutes: in.DurationMinutes,
		Status:          model.RoundStatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.rounds.Create(ctx, r); err != nil {
		return nil, classify(err)
	}
	metrics.RoundsCreated.Inc()
	logger.Info("round created", zap.Uint64("round_id", r.ID), zap.Int64("round_number", r.RoundNumber))
	s.audit.Record(ctx, model.EventRoundCreated, map[string]any{
		"round_id":         r.ID,
		"round_number":     r.RoundNumber,
		"duration_minutes": r.DurationMinutes,
		"end_time":         r.EndTime,
	})
	return r, nil
}

func (s *roundService) SubmitGuess(ctx context.Context, in SubmitGuessInput) (*model.Guess, error) {
	var g *model.Guess
	err := s.tx.WithinTx(ctx, func(st repository.Stores) error {
		r, err := st.Rounds.FindByIDForUpdate(ctx, in.RoundID)
		if err != nil {
			return err
		}
		if in.FID <= 0 {
			return invalidArg("fid must be positive")
		}
		if in.Guess < 0 {
			return invalidArg("guess must not be negative")
		}
		now := s.clock.Now()
		if r.Status != model.RoundStatusOpen {
			return ErrInvalidState
		}
		if now < r.StartTime {
			return ErrNotStarted
		}
		if now >= r.EndTime {
			return ErrWindowClosed
		}
		exists, err := st.Guesses.ExistsForUser(ctx, r.ID, in.FID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateSubmission
		}
		g = &model.Guess{
			RoundID:     r.ID,
			FID:         in.FID,
			Username:    in.Username,
			Guess:       in.Guess,
			PfpURL:      in.PfpURL,
			SubmittedAt: now,
		}
		return st.Guesses.Create(ctx, g)
	})
	if err != nil {
		return nil, classify(err)
	}
	metrics.GuessesSubmitted.Inc()
	s.audit.Record(ctx, model.EventGuessSubmitted, map[string]any{
		"round_id": g.RoundID,
		"fid":      g.FID,
		"guess":    g.Guess,
	})
	return g, nil
}

func (s *roundService) CloseRound(ctx context.Context, roundID uint64) (*model.Round, error) {
	var r *model.Round
	err := s.tx.WithinTx(ctx, func(st repository.Stores) error {
		var err error
		r, err = st.Rounds.FindByIDForUpdate(ctx, roundID)
		if err != nil {
			return err
		}
		if r.Status != model.RoundStatusOpen {
			return ErrInvalidState
		}
		r.Status = model.RoundStatusClosed
		r.UpdatedAt = s.clock.Now()
		return st.Rounds.Update(ctx, r)
	})
	if err != nil {
		return nil, classify(err)
	}
	metrics.RoundsClosed.WithLabelValues("manual").Inc()
	logger.Info("round closed", zap.Uint64("round_id", r.ID))
	s.audit.Record(ctx, model.EventRoundClosed, map[string]any{"round_id": r.ID})
	return r, nil
}

// AutoCloseDue closes every open round whose end time has passed. Running it again
// with nothing due writes nothing.
func (s *roundService) AutoCloseDue(ctx context.Context) (int, error) {
	var (
		ids    []uint64
		closed int64
	)
	err := s.tx.WithinTx(ctx, func(st repository.Stores) error {
		now := s.clock.Now()
		due, err := st.Rounds.ListOpenDue(ctx, now)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			return nil
		}
		for _, r := range due {
			ids = append(ids, r.ID)
		}
		closed, err = st.Rounds.CloseIfOpen(ctx, ids, now)
		return err
	})
	if err != nil {
		return 0, classify(err)
	}
	if closed == 0 {
		return 0, nil
	}
	metrics.RoundsClosed.WithLabelValues("auto").Add(float64(closed))
	logger.Info("rounds auto-closed", zap.Int64("count", closed), zap.Uint64s("round_ids", ids))
	s.audit.Record(ctx, model.EventAutoCloseRounds, map[string]any{
		"count":     closed,
		"round_ids": ids,
	})
	return int(closed), nil
}

func (s *roundService) FinalizeRound(ctx context.Context, roundID uint64, actualTxCount int64, blockHash string) (*RoundOutcome, error) {
	if actualTxCount < 0 {
		return nil, invalidArg("actual_tx_count must not be negative")
	}
	var (
		r   *model.Round
		res game.Result
	)
	err := s.tx.WithinTx(ctx, func(st repository.Stores) error {
		var err error
		r, err = st.Rounds.FindByIDForUpdate(ctx, roundID)
		if err != nil {
			return err
		}
		if r.Status != model.RoundStatusClosed {
			return ErrInvalidState
		}
		guesses, err := st.Guesses.ListByRound(ctx, r.ID)
		if err != nil {
			return err
		}
		res = game.PickWinners(actualTxCount, guesses)

		hash := blockHash
		r.ActualTxCount = &actualTxCount
		r.BlockHash = &hash
		r.IsJackpot = res.Exact
		if res.Winner != nil {
			fid := res.Winner.FID
			r.WinningFID = &fid
		}
		if res.RunnerUp != nil {
			fid := res.RunnerUp.FID
			r.RunnerUpFID = &fid
		}
		r.Status = model.RoundStatusFinished
		r.UpdatedAt = s.clock.Now()
		return st.Rounds.Update(ctx, r)
	})
	if err != nil {
		return nil, classify(err)
	}

	metrics.RoundsFinished.WithLabelValues(strconv.FormatBool(r.IsJackpot)).Inc()
	logger.Info("round finalized",
		zap.Uint64("round_id", r.ID),
		zap.Int64("actual_tx_count", actualTxCount),
		zap.Bool("jackpot", r.IsJackpot),
	)
	s.audit.Record(ctx, model.EventRoundFinished, map[string]any{
		"round_id":        r.ID,
		"actual_tx_count": actualTxCount,
		"block_hash":      blockHash,
		"winning_fid":     r.WinningFID,
		"runner_up_fid":   r.RunnerUpFID,
		"is_jackpot":      r.IsJackpot,
	})
	return &RoundOutcome{
		Round:    r,
		Winner:   res.Winner,
		RunnerUp: res.RunnerUp,
		Payouts:  s.payouts(ctx, r),
	}, nil
}

// ActiveRound returns the newest round that is not finished yet, or nil.
func (s *roundService) ActiveRound(ctx context.Context) (*model.Round, error) {
	r, err := s.rounds.FindLatestActive(ctx)
	if err != nil {
		return nil, classify(err)
	}
	if r == nil {
		logger.Debug("no active round")
		return nil, nil
	}
	logger.Debug("active round", zap.Uint64("round_id", r.ID), zap.String("status", string(r.Status)))
	return r, nil
}

func (s *roundService) GetRound(ctx context.Context, roundID uint64) (*model.Round, error) {
	r, err := s.rounds.FindByID(ctx, roundID)
	if err != nil {
		return nil, classify(err)
	}
	return r, nil
}

func (s *roundService) ListRounds(ctx context.Context, limit, offset int, status model.RoundStatus) ([]model.Round, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	switch status {
	case "", model.RoundStatusOpen, model.RoundStatusClosed, model.RoundStatusFinished:
	default:
		return nil, 0, invalidArg("unknown status %q", status)
	}
	list, total, err := s.rounds.List(ctx, limit, offset, status)
	if err != nil {
		return nil, 0, classify(err)
	}
	return list, total, nil
}

// ListGuesses returns every guess of the round, newest first.
func (s *roundService) ListGuesses(ctx context.Context, roundID uint64) ([]model.Guess, error) {
	if _, err := s.rounds.FindByID(ctx, roundID); err != nil {
		return nil, classify(err)
	}
	list, err := s.guess.ListByRound(ctx, roundID)
	if err != nil {
		return nil, classify(err)
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

// RoundLeaderboard ranks the round's guesses against its actual count once finished, or
// against provisional before that.
func (s *roundService) RoundLeaderboard(ctx context.Context, roundID uint64, provisional *int64) ([]LeaderboardEntry, error) {
	r, err := s.rounds.FindByID(ctx, roundID)
	if err != nil {
		return nil, classify(err)
	}
	var actual int64
	switch {
	case r.Status == model.RoundStatusFinished && r.ActualTxCount != nil:
		actual = *r.ActualTxCount
	case provisional != nil:
		actual = *provisional
	default:
		return nil, invalidArg("actual value is required until the round is finished")
	}
	guesses, err := s.guess.ListByRound(ctx, roundID)
	if err != nil {
		return nil, classify(err)
	}
	ranked := game.Rank(actual, guesses)
	out := make([]LeaderboardEntry, 0, len(ranked))
	for i, rk := range ranked {
		out = append(out, LeaderboardEntry{
			Rank:     i + 1,
			Guess:    rk.Guess,
			Distance: rk.Distance,
			Winner:   i == 0,
			RunnerUp: i == 1,
		})
	}
	return out, nil
}

// Outcome rebuilds the outcome of a finished round.
func (s *roundService) Outcome(ctx context.Context, roundID uint64) (*RoundOutcome, error) {
	r, err := s.rounds.FindByID(ctx, roundID)
	if err != nil {
		return nil, classify(err)
	}
	if r.Status != model.RoundStatusFinished || r.ActualTxCount == nil {
		return nil, ErrInvalidState
	}
	guesses, err := s.guess.ListByRound(ctx, roundID)
	if err != nil {
		return nil, classify(err)
	}
	res := game.PickWinners(*r.ActualTxCount, guesses)
	return &RoundOutcome{
		Round:    r,
		Winner:   res.Winner,
		RunnerUp: res.RunnerUp,
		Payouts:  s.payouts(ctx, r),
	}, nil
}

func (s *roundService) payouts(ctx context.Context, r *model.Round) *Payouts {
	if s.prizes == nil {
		return nil
	}
	cfg, err := s.prizes.Get(ctx)
	if err != nil {
		if !errors.Is(classify(err), ErrNotFound) {
			logger.Warn("prize config lookup failed", zap.Uint64("round_id", r.ID), zap.Error(err))
		}
		return nil
	}
	p := &Payouts{Currency: cfg.CurrencyType, TokenContract: cfg.TokenContractAddress}
	if r.WinningFID != nil {
		p.WinnerAmount = cfg.FirstPlaceAmount
		if r.IsJackpot {
			p.WinnerAmount = cfg.JackpotAmount
		}
	}
	if r.RunnerUpFID != nil {
		p.RunnerUpAmount = cfg.SecondPlaceAmount
	}
	return p
}
