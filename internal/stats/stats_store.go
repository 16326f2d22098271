package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/futsapp/internal/events"
	"github.com/DhavalSuthar-24/futsapp/internal/metrics"
	"github.com/DhavalSuthar-24/futsapp/internal/storage"
)

type Store struct {
	mu    sync.RWMutex
	stats UserStats

	clock     clockwork.Clock
	snapshots storage.Snapshotter
	publisher events.Publisher
	metrics   *metrics.Metrics
}

// NewStore creates a store at the all-zero state. Any argument except clock may be nil.
func NewStore(clock clockwork.Clock, snapshots storage.Snapshotter, publisher events.Publisher, m *metrics.Metrics) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:     clock,
		snapshots: snapshots,
		publisher: events.OrDiscard(publisher),
		metrics:   m,
	}
}

func (s *Store) Hydrate(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	var stored UserStats
	found, err := s.snapshots.Restore(ctx, storage.KeyStats, &stored)
	if errors.Is(err, storage.ErrCorruptRecord) {
		log.Error().Err(err).Msg("Stored stats are unreadable, starting from zero")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore stats: %w", err)
	}
	if !found {
		return nil
	}
	if stored.RatingCount > 0 {
		stored.Rating = stored.TotalRating / float64(stored.RatingCount)
	} else {
		stored.Rating = 0
	}

	s.mu.Lock()
	s.stats = stored
	s.mu.Unlock()
	log.Info().Int("games_played", stored.GamesPlayed).Msg("Stats restored")
	return nil
}

func (s *Store) Stats() UserStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// UpdateStats overwrites the supplied counters. played extends the streak, otherwise the
// streak resets.
func (s *Store) UpdateStats(patch Patch, played bool) UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats
	if patch.Goals != nil {
		st.Goals = *patch.Goals
	}
	if patch.Assists != nil {
		st.Assists = *patch.Assists
	}
	if patch.GamesPlayed != nil {
		st.GamesPlayed = *patch.GamesPlayed
	}
	if patch.MVPCount != nil {
		st.MVPCount = *patch.MVPCount
	}
	if played {
		st.CurrentStreak++
	} else {
		st.CurrentStreak = 0
	}

	s.commitLocked(st, "update")
	return st
}

// AddRating accumulates r into the running average.
func (s *Store) AddRating(r float64) (UserStats, error) {
	if err := validateRating(r); err != nil {
		return UserStats{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats.addRating(r)
	s.commitLocked(st, "add_rating")
	return st, nil
}

// RecordGame adds one played game and its result. Nothing changes when the rating is invalid.
func (s *Store) RecordGame(result GameResult) (UserStats, error) {
	if result.Rating != nil {
		if err := validateRating(*result.Rating); err != nil {
			return UserStats{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats
	st.Goals += result.Goals
	st.Assists += result.Assists
	st.GamesPlayed++
	st.CurrentStreak++
	if result.MVP {
		st.MVPCount++
	}
	if result.Rating != nil {
		st = st.addRating(*result.Rating)
	}

	s.commitLocked(st, "record_game")
	return st, nil
}

func (s *Store) ResetStats() UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked(UserStats{}, "reset")
	return UserStats{}
}

func (s *Store) commitLocked(st UserStats, op string) {
	s.stats = st
	if s.snapshots != nil {
		s.snapshots.Persist(storage.KeyStats, st)
	}
	s.metrics.StoreMutation("stats", op)
	s.publisher.Publish(events.Event{
		Topic:   events.TopicStatsUpdated,
		Payload: st,
		At:      s.clock.Now().UTC(),
	})
}
