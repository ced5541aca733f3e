// Package session holds the observable authenticated-session state. It is an
// explicit state object with a publish-on-change contract: auth events mutate
// it synchronously, profile and role hydration happens off the event path,
// and observers receive a snapshot after every change.
package session

import (
	"context"
	"log/slog"
	"sync"

	"innoport/internal/identity/models"
	id "innoport/pkg/domain"
)

// EventKind names the auth events the external auth boundary reports.
type EventKind string

const (
	EventSignedIn       EventKind = "signed_in"
	EventSignedOut      EventKind = "signed_out"
	EventTokenRefreshed EventKind = "token_refreshed"
)

// Snapshot is an immutable view of the session state at one point in time.
type Snapshot struct {
	// Loading is true from construction until the first session check
	// resolves, whether or not a session exists.
	Loading bool
	// Session is nil when no identity is signed in.
	Session *models.Session
	// Profile is nil until hydration completes.
	Profile *models.Profile
	// Role is only meaningful when RoleResolved is true. An unresolved role
	// with a present session means "still loading", never "forbidden".
	Role         id.Role
	RoleResolved bool
}

// ProfileFetcher hydrates the profile after a sign-in event.
type ProfileFetcher interface {
	FindByUser(ctx context.Context, userID id.UserID) (models.Profile, error)
}

// RoleFetcher resolves the role after a sign-in event. The bool mirrors the
// resolver's fail-soft contract: false means "no role yet", never an error.
type RoleFetcher interface {
	Resolve(ctx context.Context, userID id.UserID) (id.Role, bool)
}

// SessionSource yields the current session, if any, at process start.
type SessionSource interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
}

// NoStoredSession is the server's SessionSource. Access tokens live with
// the client and nothing persists a session across restarts, so a fresh
// process always starts signed out.
type NoStoredSession struct{}

func (NoStoredSession) CurrentSession(context.Context) (*models.Session, error) {
	return nil, nil
}

// State is the session store. All mutations go through its mutex; hydration
// goroutines are sequence-checked so a slow fetch for an older identity can
// never overwrite a newer one.
type State struct {
	profiles ProfileFetcher
	roles    RoleFetcher
	logger   *slog.Logger

	mu          sync.Mutex
	seq         uint64 // bumped on every identity change
	initialized bool   // set by the first InitialSession or auth event
	snapshot    Snapshot
	subscribers []chan Snapshot
}

// New builds an empty, loading session state.
func New(profiles ProfileFetcher, roles RoleFetcher, logger *slog.Logger) *State {
	return &State{
		profiles: profiles,
		roles:    roles,
		logger:   logger,
		snapshot: Snapshot{Loading: true},
	}
}

// Subscribe registers an observer. Each state change delivers one snapshot;
// slow observers miss intermediate snapshots but always receive the latest.
func (s *State) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 16)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Current returns the latest snapshot.
func (s *State) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// publishLocked must be called with s.mu held.
func (s *State) publishLocked() {
	snap := s.snapshot
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot; drain one slot and push the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// OnAuthEvent updates the identity synchronously, then hydrates profile and
// role off the event path. Sign-out clears identity, profile, and role in a
// single critical section so observers never see a mixed state.
func (s *State) OnAuthEvent(event EventKind, sess *models.Session) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.initialized = true
	s.snapshot.Loading = false

	if event == EventSignedOut || sess == nil {
		s.snapshot.Session = nil
		s.snapshot.Profile = nil
		s.snapshot.Role = ""
		s.snapshot.RoleResolved = false
		s.publishLocked()
		s.mu.Unlock()
		return
	}

	s.snapshot.Session = sess
	if event == EventSignedIn {
		// New identity: profile and role are unknown until hydration lands.
		s.snapshot.Profile = nil
		s.snapshot.Role = ""
		s.snapshot.RoleResolved = false
	}
	s.publishLocked()
	userID := sess.UserID
	s.mu.Unlock()

	if event == EventSignedIn {
		go s.hydrate(seq, userID)
	}
}

// hydrate fetches profile and role for the identity that was current at seq.
// If the identity changed while the fetch was in flight, the result is
// discarded instead of overwriting newer state.
func (s *State) hydrate(seq uint64, userID id.UserID) {
	ctx := context.Background()

	var profile *models.Profile
	if p, err := s.profiles.FindByUser(ctx, userID); err == nil {
		profile = &p
	} else if s.logger != nil {
		s.logger.Warn("profile hydration failed",
			"user_id", userID.String(),
			"error", err,
		)
	}

	role, resolved := s.roles.Resolve(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != seq {
		return
	}
	s.snapshot.Profile = profile
	s.snapshot.Role = role
	s.snapshot.RoleResolved = resolved
	s.publishLocked()
}

// InitialSession reconciles the startup session check with any auth event
// that already arrived. If an event beat it, the check's result is discarded
// so the final state reflects the most recent identity; either way the
// loading flag drops after the first resolution.
func (s *State) InitialSession(ctx context.Context, source SessionSource) {
	sess, err := source.CurrentSession(ctx)
	if err != nil && s.logger != nil {
		s.logger.Warn("initial session check failed", "error", err)
	}

	s.mu.Lock()
	if s.initialized {
		// An auth event already resolved the identity; only ensure the
		// loading flag is down.
		s.snapshot.Loading = false
		s.publishLocked()
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.seq++
	seq := s.seq
	s.snapshot.Loading = false
	s.snapshot.Session = sess
	s.publishLocked()
	s.mu.Unlock()

	if sess != nil {
		go s.hydrate(seq, sess.UserID)
	}
}
