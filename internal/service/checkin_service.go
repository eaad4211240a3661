package service

import (
	"context"
	"strings"

	"github.com/shinyyama/blockguess-backend/internal/clock"
	"github.com/shinyyama/blockguess-backend/internal/game"
	"github.com/shinyyama/blockguess-backend/internal/logger"
	"github.com/shinyyama/blockguess-backend/internal/metrics"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultLeaderboardLimit = 10
	maxListLimit            = 100
)

type CheckInService interface {
	CheckIn(ctx context.Context, in CheckInInput) (*CheckInResult, error)
	Stats(ctx context.Context, userIdentifier string) (*UserStats, error)
	History(ctx context.Context, userIdentifier string, limit int) ([]model.CheckIn, error)
	Leaderboard(ctx context.Context, limit int) ([]model.UserStat, error)
	WeeklyLeaderboard(ctx context.Context, limit int) ([]game.WeeklyEntry, error)
}

type CheckInInput struct {
	UserIdentifier string
	Username       string
	PfpURL         string
}

type CheckInResult struct {
	Streak        int64
	PointsEarned  int64
	TotalPoints   int64
	LongestStreak int64
	TotalCheckins int64
}

// UserStats is a user's totals plus whether today's check-in is still available.
type UserStats struct {
	model.UserStat
	CheckedInToday bool
	NextPoints     int64
}

type checkInService struct {
	tx       repository.Transactor
	stats    repository.UserStatRepository
	checkins repository.CheckInRepository
	audit    EventLogService
	clock    clock.Clock
}

func NewCheckInService(
	tx repository.Transactor,
	stats repository.UserStatRepository,
	checkins repository.CheckInRepository,
	audit EventLogService,
	clk clock.Clock,
) CheckInService {
	return &checkInService{tx: tx, stats: stats, checkins: checkins, audit: audit, clock: clk}
}

func (s *checkInService) CheckIn(ctx context.Context, in CheckInInput) (*CheckInResult, error) {
	userID := strings.TrimSpace(in.UserIdentifier)
	if userID == "" {
		return nil, invalidArg("user_identifier is required")
	}
	var (
		stat    *model.UserStat
		accrual game.Accrual
		today   int64
	)
	err := s.tx.WithinTx(ctx, func(st repository.Stores) error {
		now := s.clock.Now()
		today = game.DayBucket(now)

		prev, err := st.UserStats.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		done, err := st.CheckIns.ExistsOnDay(ctx, userID, today)
		if err != nil {
			return err
		}
		if done {
			return ErrAlreadyCheckedIn
		}

		accrual = game.Accrue(prev, today)
		stat = prev
		if stat == nil {
			stat = &model.UserStat{UserIdentifier: userID}
		}
		if in.Username != "" {
			stat.Username = in.Username
		}
		if in.PfpURL != "" {
			stat.PfpURL = in.PfpURL
		}
		game.Apply(stat, accrual, today, now)
		if err := st.UserStats.Save(ctx, stat); err != nil {
			return err
		}
		return st.CheckIns.Create(ctx, &model.CheckIn{
			UserIdentifier: userID,
			Username:       stat.Username,
			PfpURL:         stat.PfpURL,
			CheckinDay:     today,
			CheckedInAt:    now,
			PointsEarned:   accrual.Points,
			StreakCount:    accrual.Streak,
		})
	})
	if err != nil {
		err = classify(err)
		// A concurrent insert that lost the unique-index race is the same outcome as
		// finding today's row up front.
		if isDuplicate(err) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}

	metrics.CheckIns.Inc()
	logger.Info("daily check-in",
		zap.String("user", userID),
		zap.Int64("streak", accrual.Streak),
		zap.Int64("points", accrual.Points),
	)
	s.audit.Record(ctx, model.EventDailyCheckin, map[string]any{
		"user_identifier": userID,
		"checkin_day":     today,
		"streak":          accrual.Streak,
		"points_earned":   accrual.Points,
	})
	return &CheckInResult{
		Streak:        accrual.Streak,
		PointsEarned:  accrual.Points,
		TotalPoints:   stat.TotalPoints,
		LongestStreak: stat.LongestStreak,
		TotalCheckins: stat.TotalCheckins,
	}, nil
}

func (s *checkInService) Stats(ctx context.Context, userIdentifier string) (*UserStats, error) {
	stat, err := s.stats.Get(ctx, userIdentifier)
	if err != nil {
		return nil, classify(err)
	}
	if stat == nil {
		return nil, ErrNotFound
	}
	today := game.DayBucket(s.clock.Now())
	done, err := s.checkins.ExistsOnDay(ctx, userIdentifier, today)
	if err != nil {
		return nil, classify(err)
	}
	out := &UserStats{UserStat: *stat, CheckedInToday: done}
	if !done {
		out.NextPoints = game.Accrue(stat, today).Points
	}
	return out, nil
}

func (s *checkInService) History(ctx context.Context, userIdentifier string, limit int) ([]model.CheckIn, error) {
	list, err := s.checkins.ListByUser(ctx, userIdentifier, clampLimit(limit, 30))
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}

func (s *checkInService) Leaderboard(ctx context.Context, limit int) ([]model.UserStat, error) {
	list, err := s.stats.ListTop(ctx, clampLimit(limit, defaultLeaderboardLimit))
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}

func (s *checkInService) WeeklyLeaderboard(ctx context.Context, limit int) ([]game.WeeklyEntry, error) {
	today := game.DayBucket(s.clock.Now())
	recent, err := s.checkins.ListSince(ctx, game.WeekStart(today))
	if err != nil {
		return nil, classify(err)
	}
	users := make([]string, 0, len(recent))
	seen := make(map[string]struct{}, len(recent))
	for _, c := range recent {
		if _, ok := seen[c.UserIdentifier]; ok {
			continue
		}
		seen[c.UserIdentifier] = struct{}{}
		users = append(users, c.UserIdentifier)
	}
	stats, err := s.stats.ListByUsers(ctx, users)
	if err != nil {
		return nil, classify(err)
	}
	return game.WeeklyLeaderboard(recent, stats, today, clampLimit(limit, defaultLeaderboardLimit)), nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
