package game

import (
	"sort"

	"github.com/shinyyama/blockguess-backend/internal/model"
)

// WeekDays is the number of day buckets the weekly leaderboard looks back over, today included.
const WeekDays = 7

type WeeklyEntry struct {
	UserIdentifier string
	Username       string
	PfpURL         string
	WeeklyCheckins int64
	CurrentStreak  int64
	TotalPoints    int64
}

// WeekStart is the first day bucket counted by the weekly leaderboard for today.
func WeekStart(today int64) int64 {
	return today - (WeekDays-1)*SecondsPerDay
}

// WeeklyLeaderboard counts check-ins on or after WeekStart(today) per user and ranks users by
// that count, then by total points. Stats enrich entries with streak and points.
func WeeklyLeaderboard(checkins []model.CheckIn, stats []model.UserStat, today int64, limit int) []WeeklyEntry {
	from := WeekStart(today)
	byUser := make(map[string]*WeeklyEntry)
	var order []string
	for _, c := range checkins {
		if c.CheckinDay < from || c.CheckinDay > today {
			continue
		}
		e, ok := byUser[c.UserIdentifier]
		if !ok {
			e = &WeeklyEntry{UserIdentifier: c.UserIdentifier, Username: c.Username, PfpURL: c.PfpURL}
			byUser[c.UserIdentifier] = e
			order = append(order, c.UserIdentifier)
		}
		e.WeeklyCheckins++
	}
	for _, s := range stats {
		if e, ok := byUser[s.UserIdentifier]; ok {
			e.CurrentStreak = s.CurrentStreak
			e.TotalPoints = s.TotalPoints
			if s.Username != "" {
				e.Username = s.Username
			}
			if s.PfpURL != "" {
				e.PfpURL = s.PfpURL
			}
		}
	}

	out := make([]WeeklyEntry, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WeeklyCheckins != out[j].WeeklyCheckins {
			return out[i].WeeklyCheckins > out[j].WeeklyCheckins
		}
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].UserIdentifier < out[j].UserIdentifier
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
