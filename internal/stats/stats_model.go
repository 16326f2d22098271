package stats

import (
	"errors"
	"fmt"
	"math"
)

const (
	MinRating = 0
	MaxRating = 5
)

var ErrInvalidRating = errors.New("invalid rating")

// UserStats are the local user's cumulative counters. TotalRating and RatingCount only exist
// to recompute Rating.
type UserStats struct {
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	GamesPlayed   int     `json:"games_played"`
	Rating        float64 `json:"rating"`
	CurrentStreak int     `json:"current_streak"`
	MVPCount      int     `json:"mvp_count"`
	TotalRating   float64 `json:"total_rating"`
	RatingCount   int     `json:"rating_count"`
}

// Patch overwrites the supplied counters. The rating fields are not patchable.
type Patch struct {
	Goals       *int `json:"goals,omitempty" binding:"omitempty,min=0"`
	Assists     *int `json:"assists,omitempty" binding:"omitempty,min=0"`
	GamesPlayed *int `json:"games_played,omitempty" binding:"omitempty,min=0"`
	MVPCount    *int `json:"mvp_count,omitempty" binding:"omitempty,min=0"`
}

// UpdateRequest is the body of PATCH /stats. Played drives the streak.
type UpdateRequest struct {
	Patch
	Played bool `json:"played"`
}

type RatingRequest struct {
	Rating *float64 `json:"rating" binding:"required"`
}

// GameResult is the user's share of a completed match.
type GameResult struct {
	Goals   int
	Assists int
	MVP     bool
	Rating  *float64
}

func validateRating(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) || r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: %v is outside %d-%d", ErrInvalidRating, r, MinRating, MaxRating)
	}
	return nil
}

// addRating returns st with r accumulated.
func (st UserStats) addRating(r float64) UserStats {
	st.TotalRating += r
	st.RatingCount++
	st.Rating = st.TotalRating / float64(st.RatingCount)
	return st
}
