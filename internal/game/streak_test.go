package game

import (
	"testing"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

const day = SecondsPerDay

func TestDayBucket(t *testing.T) {
	tests := []struct {
		ts   int64
		want int64
	}{
		{0, 0},
		{day - 1, 0},
		{day, day},
		{1_700_000_123, 1_699_920_000},
		{-1, -day},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DayBucket(tt.ts), "ts=%d", tt.ts)
	}
}

func TestAccrue(t *testing.T) {
	today := int64(20_000) * day

	tests := []struct {
		name       string
		prev       *model.UserStat
		wantStreak int64
		wantPoints int64
	}{
		{"first check-in", nil, 1, 12},
		{"consecutive day", &model.UserStat{CurrentStreak: 3, LastCheckinDay: today - day, TotalCheckins: 3}, 4, 18},
		{"gap of one day resets", &model.UserStat{CurrentStreak: 9, LastCheckinDay: today - 2*day, TotalCheckins: 9}, 1, 12},
		{"long gap resets", &model.UserStat{CurrentStreak: 2, LastCheckinDay: today - 30*day, TotalCheckins: 5}, 1, 12},
		{"same day keeps streak", &model.UserStat{CurrentStreak: 5, LastCheckinDay: today, TotalCheckins: 5}, 5, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Accrue(tt.prev, today)
			assert.Equal(t, tt.wantStreak, got.Streak)
			assert.Equal(t, tt.wantPoints, got.Points)
		})
	}
}

func TestApply(t *testing.T) {
	today := int64(20_000) * day
	now := today + 3600

	t.Run("first check-in initialises totals", func(t *testing.T) {
		stat := &model.UserStat{UserIdentifier: "fid:1"}
		Apply(stat, Accrue(nil, today), today, now)
		assert.Equal(t, int64(1), stat.CurrentStreak)
		assert.Equal(t, int64(1), stat.LongestStreak)
		assert.Equal(t, int64(12), stat.TotalPoints)
		assert.Equal(t, int64(1), stat.TotalCheckins)
		assert.Equal(t, today, stat.LastCheckinDay)
		assert.Equal(t, now, stat.CreatedAt)
		assert.Equal(t, now, stat.UpdatedAt)
	})

	t.Run("reset keeps longest streak", func(t *testing.T) {
		stat := &model.UserStat{
			UserIdentifier: "fid:1",
			CurrentStreak:  6,
			LongestStreak:  6,
			TotalPoints:    100,
			TotalCheckins:  6,
			LastCheckinDay: today - 3*day,
			CreatedAt:      1,
		}
		Apply(stat, Accrue(stat, today), today, now)
		assert.Equal(t, int64(1), stat.CurrentStreak)
		assert.Equal(t, int64(6), stat.LongestStreak)
		assert.Equal(t, int64(112), stat.TotalPoints)
		assert.Equal(t, int64(7), stat.TotalCheckins)
		assert.Equal(t, int64(1), stat.CreatedAt)
		assert.GreaterOrEqual(t, stat.LongestStreak, stat.CurrentStreak)
	})
}

func TestWeeklyLeaderboard(t *testing.T) {
	today := int64(20_000) * day
	checkins := []model.CheckIn{
		{UserIdentifier: "a", Username: "alice", CheckinDay: today},
		{UserIdentifier: "a", Username: "alice", CheckinDay: today - day},
		{UserIdentifier: "b", Username: "bob", CheckinDay: today - 6*day},
		{UserIdentifier: "b", Username: "bob", CheckinDay: today - 2*day},
		{UserIdentifier: "c", Username: "carol", CheckinDay: today},
		{UserIdentifier: "d", Username: "dave", CheckinDay: today - 7*day},
	}
	stats := []model.UserStat{
		{UserIdentifier: "a", TotalPoints: 30, CurrentStreak: 2},
		{UserIdentifier: "b", TotalPoints: 90, CurrentStreak: 1},
		{UserIdentifier: "c", TotalPoints: 12, CurrentStreak: 1},
		{UserIdentifier: "d", TotalPoints: 500, CurrentStreak: 0},
	}

	got := WeeklyLeaderboard(checkins, stats, today, 10)
	if assert.Len(t, got, 3) {
		assert.Equal(t, "b", got[0].UserIdentifier)
		assert.Equal(t, int64(2), got[0].WeeklyCheckins)
		assert.Equal(t, int64(90), got[0].TotalPoints)
		assert.Equal(t, "a", got[1].UserIdentifier)
		assert.Equal(t, int64(2), got[1].CurrentStreak)
		assert.Equal(t, "c", got[2].UserIdentifier)
	}

	assert.Len(t, WeeklyLeaderboard(checkins, stats, today, 1), 1)
}
