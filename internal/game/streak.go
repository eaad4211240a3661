package game

import "github.com/shinyyama/blockguess-backend/internal/model"

const (
	SecondsPerDay = 86400

	BaseCheckinPoints = 10
	StreakBonusPoints = 2
)

// DayBucket floors ts to the start of its UTC day.
func DayBucket(ts int64) int64 {
	day := ts / SecondsPerDay
	if ts%SecondsPerDay < 0 {
		day--
	}
	return day * SecondsPerDay
}

// Accrual is what one check-in earns.
type Accrual struct {
	Streak int64
	Points int64
}

// CheckinPoints is the reward for a check-in that brings the streak to streak days.
func CheckinPoints(streak int64) int64 {
	return BaseCheckinPoints + StreakBonusPoints*streak
}

// Accrue computes the streak and points for a check-in on day bucket today.
// prev is nil for a user's first check-in.
func Accrue(prev *model.UserStat, today int64) Accrual {
	var streak int64
	yesterday := today - SecondsPerDay
	switch {
	case prev == nil || prev.TotalCheckins == 0:
		streak = 1
	case prev.LastCheckinDay == yesterday:
		streak = prev.CurrentStreak + 1
	case prev.LastCheckinDay < yesterday:
		streak = 1
	default:
		// Same day or a clock that went backwards: the streak neither grows nor resets.
		streak = prev.CurrentStreak
		if streak < 1 {
			streak = 1
		}
	}
	return Accrual{Streak: streak, Points: CheckinPoints(streak)}
}

// Apply folds an accrual into stat. stat must already carry the user's identity.
func Apply(stat *model.UserStat, a Accrual, today, now int64) {
	stat.CurrentStreak = a.Streak
	if a.Streak > stat.LongestStreak {
		stat.LongestStreak = a.Streak
	}
	stat.TotalPoints += a.Points
	stat.TotalCheckins++
	stat.LastCheckinDay = today
	stat.UpdatedAt = now
	if stat.CreatedAt == 0 {
		stat.CreatedAt = now
	}
}
