package user

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/futsapp/internal/events"
	"github.com/DhavalSuthar-24/futsapp/internal/metrics"
)

// Stand-in identity used by SignIn until a real sign-in flow exists.
const (
	DemoUserID    = "1"
	DemoUserName  = "Sefa Yavuz"
	DemoUserEmail = "test@example.com"
)

// Store holds the single current user and its cached permissions. It is not persisted.
type Store struct {
	mu          sync.RWMutex
	current     *User
	permissions *Permissions

	clock     clockwork.Clock
	publisher events.Publisher
	metrics   *metrics.Metrics
}

// NewStore creates an empty store. publisher and m may be nil.
func NewStore(clock clockwork.Clock, publisher events.Publisher, m *metrics.Metrics) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:     clock,
		publisher: events.OrDiscard(publisher),
		metrics:   m,
	}
}

// SetUser replaces the current user. nil clears it.
func (s *Store) SetUser(u *User) {
	s.mu.Lock()
	if u == nil {
		s.current = nil
		s.permissions = nil
	} else {
		cp := *u
		perms := GetRolePermissions(cp.Role)
		s.current = &cp
		s.permissions = &perms
	}
	s.commitLocked("set_user")
	s.mu.Unlock()
}

// SignIn sets the stand-in user with the player role and returns it.
func (s *Store) SignIn() User {
	now := s.clock.Now().UTC()
	u := User{
		ID:        DemoUserID,
		Name:      DemoUserName,
		Email:     DemoUserEmail,
		Role:      RolePlayer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.SetUser(&u)
	log.Info().Str("user_id", u.ID).Msg("User signed in")
	return u
}

func (s *Store) SignOut() {
	s.SetUser(nil)
	log.Info().Msg("User signed out")
}

// UpdateUserRole changes the current user's role. It does nothing without a current user and
// reports whether a user was updated.
func (s *Store) UpdateUserRole(role Role) bool {
	perms := GetRolePermissions(role)

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return false
	}
	updated := *s.current
	updated.Role = role
	updated.UpdatedAt = s.clock.Now().UTC()
	s.current = &updated
	s.permissions = &perms
	s.commitLocked("update_role")
	s.mu.Unlock()

	log.Info().Str("user_id", updated.ID).Str("role", string(role)).Msg("User role updated")
	return true
}

// HasPermission returns the cached flag for capability, false without a current user.
func (s *Store) HasPermission(capability Capability) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.permissions == nil {
		return false
	}
	return s.permissions.Allows(capability)
}

// Permissions returns the cached permission set.
func (s *Store) Permissions() (Permissions, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.permissions == nil {
		return Permissions{}, false
	}
	return *s.permissions, true
}

// CurrentUser returns a copy of the current user.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return User{}, false
	}
	return *s.current, true
}

func (s *Store) CurrentUserID() (string, bool) {
	u, ok := s.CurrentUser()
	return u.ID, ok
}

// commitLocked announces the session state. Callers hold s.mu for writing so the user and
// permissions in the event belong together.
func (s *Store) commitLocked(op string) {
	s.metrics.StoreMutation("user", op)

	var payload interface{}
	if s.current != nil && s.permissions != nil {
		payload = MeResponse{User: *s.current, Permissions: *s.permissions}
	}
	s.publisher.Publish(events.Event{
		Topic:   events.TopicUserUpdated,
		Payload: payload,
		At:      s.clock.Now().UTC(),
	})
}
