package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/futsapp/internal/events"
	"github.com/DhavalSuthar-24/futsapp/internal/metrics"
	"github.com/DhavalSuthar-24/futsapp/internal/storage"
	"github.com/DhavalSuthar-24/futsapp/internal/user"
)

// DefaultUpcomingLimit is how many upcoming matches the dashboard shows.
const DefaultUpcomingLimit = 3

type persistedMatches struct {
	Matches []Match `json:"matches"`
}

// Store owns the match collection. Mutations are serialized and every successful mutation
// queues a snapshot of the whole collection for persistence.
type Store struct {
	mu      sync.RWMutex
	matches []Match

	users     CurrentUserProvider
	clock     clockwork.Clock
	snapshots storage.Snapshotter
	publisher events.Publisher
	metrics   *metrics.Metrics
	location  *time.Location
	seed      bool
}

type Option func(*Store)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

func WithSnapshotter(snapshots storage.Snapshotter) Option {
	return func(s *Store) { s.snapshots = snapshots }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = events.OrDiscard(p) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithLocation sets the zone match dates and times are read in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.location = loc }
}

// WithSeed makes Hydrate install the predefined matches when nothing is stored.
func WithSeed(seed bool) Option {
	return func(s *Store) { s.seed = seed }
}

func NewStore(users CurrentUserProvider, opts ...Option) *Store {
	s := &Store{
		users:     users,
		clock:     clockwork.NewRealClock(),
		publisher: events.Discard,
		location:  time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate restores the persisted collection. With nothing stored it seeds the predefined
// matches when seeding is enabled.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.snapshots == nil {
		if s.seed {
			s.replaceAll(seedMatches(s.clock.Now().UTC()), "seed")
		}
		return nil
	}

	var stored persistedMatches
	found, err := s.snapshots.Restore(ctx, storage.KeyMatches, &stored)
	if errors.Is(err, storage.ErrCorruptRecord) {
		log.Error().Err(err).Msg("Stored matches are unreadable, starting over")
		found, err = false, nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore matches: %w", err)
	}
	if !found {
		if s.seed {
			s.replaceAll(seedMatches(s.clock.Now().UTC()), "seed")
			log.Info().Int("count", len(s.List(""))).Msg("Seeded predefined matches")
		}
		return nil
	}

	for i := range stored.Matches {
		if t, err := NormalizeTime(stored.Matches[i].Time); err == nil {
			stored.Matches[i].Time = t
		}
		if stored.Matches[i].Players == nil {
			stored.Matches[i].Players = []string{}
		}
	}

	s.mu.Lock()
	s.matches = stored.Matches
	s.mu.Unlock()
	log.Info().Int("count", len(stored.Matches)).Msg("Matches restored")
	return nil
}

func (s *Store) replaceAll(matches []Match, op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = matches
	s.commitLocked(op)
}

// commitLocked persists and announces the collection. Callers hold s.mu.
func (s *Store) commitLocked(op string) {
	snapshot := make([]Match, len(s.matches))
	for i, m := range s.matches {
		snapshot[i] = m.clone()
	}
	if s.snapshots != nil {
		s.snapshots.Persist(storage.KeyMatches, persistedMatches{Matches: snapshot})
	}
	s.metrics.StoreMutation("matches", op)
	s.publisher.Publish(events.Event{
		Topic:   events.TopicMatchesUpdated,
		Payload: snapshot,
		At:      s.clock.Now().UTC(),
	})
}

func (s *Store) indexLocked(id string) int {
	for i := range s.matches {
		if s.matches[i].ID == id {
			return i
		}
	}
	return -1
}

// AddMatch appends m as given. Validation is the caller's job.
func (s *Store) AddMatch(m Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, m.clone())
	s.commitLocked("add")
}

// UpdateMatch replaces the match with id wholesale. The replacement must keep the id and the
// creator, respect the status lifecycle and hold a valid roster.
func (s *Store) UpdateMatch(id string, m Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return ErrMatchNotFound
	}
	old := s.matches[i]
	if m.ID != id {
		return fmt.Errorf("%w: id %q does not match %q", ErrInvalidUpdate, m.ID, id)
	}
	if m.CreatedBy != old.CreatedBy {
		return fmt.Errorf("%w: creator cannot change", ErrInvalidUpdate)
	}
	if !canTransition(old.Status, m.Status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidUpdate, old.Status, m.Status)
	}
	if err := m.checkRoster(); err != nil {
		return err
	}

	s.matches[i] = m.clone()
	s.commitLocked("update")
	return nil
}

func (s *Store) DeleteMatch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return ErrMatchNotFound
	}
	s.matches = append(s.matches[:i], s.matches[i+1:]...)
	s.commitLocked("delete")
	return nil
}

// CanEditMatch reports whether the current user created the match or holds an
// organizer or admin role.
func (s *Store) CanEditMatch(id string) bool {
	current, ok := s.users.CurrentUser()
	if !ok {
		return false
	}

	s.mu.RLock()
	i := s.indexLocked(id)
	var createdBy string
	if i >= 0 {
		createdBy = s.matches[i].CreatedBy
	}
	s.mu.RUnlock()
	if i < 0 {
		return false
	}

	return createdBy == current.ID || current.Role == user.RoleAdmin || current.Role == user.RoleOrganizer
}

// Create validates data and adds a scheduled match with the creator as first player.
func (s *Store) Create(data CreateMatchData, creatorID string) (Match, error) {
	if errs := ValidateCreate(data); len(errs) > 0 {
		return Match{}, &ValidationError{Errors: errs}
	}
	data = trimData(data)
	t, err := NormalizeTime(data.Time)
	if err != nil {
		return Match{}, &ValidationError{Errors: FormErrors{"time": messages["time"]["clock_time"]}}
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Match{}, fmt.Errorf("failed to generate match id: %w", err)
	}

	m := Match{
		ID:         id.String(),
		Date:       data.Date,
		Time:       t,
		Location:   data.Location,
		MaxPlayers: data.MaxPlayers,
		Players:    []string{creatorID},
		CreatedBy:  creatorID,
		CreatedAt:  s.clock.Now().UTC(),
		Status:     StatusScheduled,
	}

	s.mu.Lock()
	s.matches = append(s.matches, m)
	s.commitLocked("create")
	s.mu.Unlock()

	log.Info().Str("match_id", m.ID).Str("created_by", creatorID).Msg("Match created")
	return m.clone(), nil
}

// Join appends userID to the roster.
func (s *Store) Join(id, userID string) (Match, error) {
	return s.modify(id, "join", func(m *Match) error {
		if m.Status != StatusScheduled {
			return ErrMatchClosed
		}
		if m.IsFull() {
			return ErrMatchFull
		}
		if m.HasPlayer(userID) {
			return ErrAlreadyJoined
		}
		m.Players = append(m.Players, userID)
		return nil
	})
}

// Leave removes userID from the roster. Leaving a match the user is not in changes nothing.
func (s *Store) Leave(id, userID string) (Match, error) {
	return s.modify(id, "leave", func(m *Match) error {
		if !m.HasPlayer(userID) {
			return errUnchanged
		}
		if m.Status != StatusScheduled {
			return ErrMatchClosed
		}
		players := make([]string, 0, len(m.Players))
		for _, p := range m.Players {
			if p != userID {
				players = append(players, p)
			}
		}
		m.Players = players
		return nil
	})
}

// Complete moves a scheduled match to completed and records the post-match fields.
func (s *Store) Complete(id string, result Result) (Match, error) {
	return s.modify(id, "complete", func(m *Match) error {
		if m.Status != StatusScheduled {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, StatusCompleted)
		}
		m.Status = StatusCompleted
		m.Goals = result.Goals
		m.Assists = result.Assists
		m.IsMVP = result.IsMVP
		m.Rating = result.Rating
		return nil
	})
}

// Cancel moves a scheduled match to cancelled.
func (s *Store) Cancel(id string) (Match, error) {
	return s.modify(id, "cancel", func(m *Match) error {
		if m.Status != StatusScheduled {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, StatusCancelled)
		}
		m.Status = StatusCancelled
		return nil
	})
}

var errUnchanged = errors.New("unchanged")

// modify applies fn to a copy of the match and stores it only when fn succeeds.
func (s *Store) modify(id, op string, fn func(m *Match) error) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Match{}, ErrMatchNotFound
	}
	m := s.matches[i].clone()
	if err := fn(&m); err != nil {
		if errors.Is(err, errUnchanged) {
			return s.matches[i].clone(), nil
		}
		return Match{}, err
	}
	s.matches[i] = m
	s.commitLocked(op)
	return m.clone(), nil
}

func (s *Store) Get(id string) (Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Match{}, ErrMatchNotFound
	}
	return s.matches[i].clone(), nil
}

// List returns the matches in insertion order, optionally filtered by status.
func (s *Store) List(status Status) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Match, 0, len(s.matches))
	for _, m := range s.matches {
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, m.clone())
	}
	return out
}

// Upcoming returns scheduled matches starting after now, soonest first, at most limit.
// Matches with an unparsable date or time are skipped.
func (s *Store) Upcoming(now time.Time, limit int) []Match {
	type dated struct {
		m  Match
		at time.Time
	}
	var candidates []dated
	for _, m := range s.List(StatusScheduled) {
		at, err := m.StartsAt(s.location)
		if err != nil || !at.After(now) {
			continue
		}
		candidates = append(candidates, dated{m: m, at: at})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].at.Before(candidates[j].at) })

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.m)
	}
	return out
}

func seedMatches(now time.Time) []Match {
	return []Match{
		{
			ID:         "1",
			Date:       "2024-04-15",
			Time:       "19:00",
			Location:   "Futsal Arena Downtown",
			MaxPlayers: 10,
			Players:    []string{"1", "2", "3"},
			CreatedBy:  "1",
			CreatedAt:  now,
			Status:     StatusScheduled,
		},
		{
			ID:         "2",
			Date:       "2024-04-16",
			Time:       "20:00",
			Location:   "Sports Center West",
			MaxPlayers: 8,
			Players:    []string{"1", "4"},
			CreatedBy:  "1",
			CreatedAt:  now,
			Status:     StatusScheduled,
		},
		{
			ID:         "3",
			Date:       "2024-04-17",
			Time:       "18:30",
			Location:   "Futsal Club East",
			MaxPlayers: 12,
			Players:    []string{},
			CreatedBy:  "1",
			CreatedAt:  now,
			Status:     StatusScheduled,
		},
	}
}
