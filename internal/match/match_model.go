package match

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/futsapp/internal/user"
	"github.com/DhavalSuthar-24/futsapp/internal/venue"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

const (
	MinPlayers = 2
	MaxPlayers = 20

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchFull         = errors.New("match is full")
	ErrAlreadyJoined     = errors.New("user already joined this match")
	ErrMatchClosed       = errors.New("match is no longer scheduled")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidUpdate     = errors.New("invalid match update")
)

// Match is one organized game. Players holds user ids in join order.
type Match struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Location   string    `json:"location"`
	MaxPlayers int       `json:"max_players"`
	Players    []string  `json:"players"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	Status     Status    `json:"status"`

	// Filled in when the match is completed.
	Goals   *int     `json:"goals,omitempty"`
	Assists *int     `json:"assists,omitempty"`
	IsMVP   *bool    `json:"is_mvp,omitempty"`
	Rating  *float64 `json:"rating,omitempty"`
}

// HasPlayer reports whether userID joined the match.
func (m Match) HasPlayer(userID string) bool {
	for _, p := range m.Players {
		if p == userID {
			return true
		}
	}
	return false
}

func (m Match) IsFull() bool {
	return len(m.Players) >= m.MaxPlayers
}

// StartsAt combines Date and Time in loc.
func (m Match) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, m.Date+" "+m.Time, loc)
}

func (m Match) clone() Match {
	cp := m
	cp.Players = append([]string{}, m.Players...)
	if m.Goals != nil {
		v := *m.Goals
		cp.Goals = &v
	}
	if m.Assists != nil {
		v := *m.Assists
		cp.Assists = &v
	}
	if m.IsMVP != nil {
		v := *m.IsMVP
		cp.IsMVP = &v
	}
	if m.Rating != nil {
		v := *m.Rating
		cp.Rating = &v
	}
	return cp
}

// checkRoster enforces capacity and player uniqueness.
func (m Match) checkRoster() error {
	if len(m.Players) > m.MaxPlayers {
		return fmt.Errorf("%w: %d players exceed the maximum of %d", ErrInvalidUpdate, len(m.Players), m.MaxPlayers)
	}
	seen := make(map[string]struct{}, len(m.Players))
	for _, p := range m.Players {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: player %q listed twice", ErrInvalidUpdate, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// canTransition reports whether status may move from -> to. Staying put is allowed.
func canTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return from == StatusScheduled && (to == StatusCompleted || to == StatusCancelled)
}

// CreateMatchData is the input of match creation.
type CreateMatchData struct {
	Date       string `json:"date" validate:"required,calendar_date"`
	Time       string `json:"time" validate:"required,clock_time"`
	Location   string `json:"location" validate:"required"`
	MaxPlayers int    `json:"max_players" validate:"required,min=2,max=20"`
}

// FormErrors maps a field's json name to a user-facing message. Empty means valid.
type FormErrors map[string]string

// ValidationError carries the field errors of a rejected creation.
type ValidationError struct {
	Errors FormErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Errors[k])
	}
	return "invalid match: " + strings.Join(parts, "; ")
}

// Result holds the optional post-match fields recorded on completion.
type Result struct {
	Goals   *int     `json:"goals,omitempty" binding:"omitempty,min=0"`
	Assists *int     `json:"assists,omitempty" binding:"omitempty,min=0"`
	IsMVP   *bool    `json:"is_mvp,omitempty"`
	Rating  *float64 `json:"rating,omitempty" binding:"omitempty,min=0,max=5"`
}

// UpdateMatchRequest is the wholesale replacement sent to PUT /matches/:id.
type UpdateMatchRequest struct {
	Date       string   `json:"date" binding:"required"`
	Time       string   `json:"time" binding:"required"`
	Location   string   `json:"location" binding:"required"`
	MaxPlayers int      `json:"max_players" binding:"required,min=2,max=20"`
	Players    []string `json:"players"`
	CreatedBy  string   `json:"created_by" binding:"required"`
	Status     Status   `json:"status" binding:"required,oneof=scheduled completed cancelled"`
	Goals      *int     `json:"goals,omitempty"`
	Assists    *int     `json:"assists,omitempty"`
	IsMVP      *bool    `json:"is_mvp,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
}

// MatchView is a match as the screens show it.
type MatchView struct {
	Match
	CanEdit bool         `json:"can_edit"`
	Joined  bool         `json:"joined"`
	Image   string       `json:"image"`
	Venue   *venue.Venue `json:"venue,omitempty"`
}

// CompleteResponse is the completed match plus whether it counted towards the user's stats.
type CompleteResponse struct {
	Match    Match `json:"match"`
	Recorded bool  `json:"recorded"`
}

// CurrentUserProvider gives the store read access to the signed-in user.
type CurrentUserProvider interface {
	CurrentUser() (user.User, bool)
}
