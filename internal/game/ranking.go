// Package game holds the pure scoring rules: guess ranking and check-in streaks.
package game

import (
	"sort"

	"github.com/shinyyama/blockguess-backend/internal/model"
)

// Ranked pairs a guess with its distance from the actual value.
type Ranked struct {
	Guess    model.Guess
	Distance int64
}

// Result is the outcome of ranking a round's guesses.
type Result struct {
	Winner   *model.Guess
	RunnerUp *model.Guess
	Exact    bool
}

// Rank orders guesses by distance to actual, then by submission time, then by id.
func Rank(actual int64, guesses []model.Guess) []Ranked {
	ranked := make([]Ranked, 0, len(guesses))
	for _, g := range guesses {
		ranked = append(ranked, Ranked{Guess: g, Distance: abs(g.Guess - actual)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Guess.SubmittedAt != b.Guess.SubmittedAt {
			return a.Guess.SubmittedAt < b.Guess.SubmittedAt
		}
		return a.Guess.ID < b.Guess.ID
	})
	return ranked
}

// PickWinners returns the closest guess, the second closest, and whether the winner hit exactly.
// No guesses is not an error; the result is simply empty.
func PickWinners(actual int64, guesses []model.Guess) Result {
	ranked := Rank(actual, guesses)
	var res Result
	if len(ranked) > 0 {
		w := ranked[0].Guess
		res.Winner = &w
		res.Exact = ranked[0].Distance == 0
	}
	if len(ranked) > 1 {
		r := ranked[1].Guess
		res.RunnerUp = &r
	}
	return res
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
