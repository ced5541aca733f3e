package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoport/internal/identity/models"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[id.UserID]models.Profile
	block    chan struct{} // when set, FindByUser waits until closed
}

func (f *fakeProfiles) FindByUser(_ context.Context, userID id.UserID) (models.Profile, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return models.Profile{}, dErrors.New(dErrors.CodeNotFound, "profile not found")
}

type fakeRoles struct {
	mu    sync.Mutex
	roles map[id.UserID]id.Role
}

func (f *fakeRoles) Resolve(_ context.Context, userID id.UserID) (id.Role, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role, ok := f.roles[userID]
	return role, ok
}

type fakeSource struct {
	sess *models.Session
	err  error
}

func (f *fakeSource) CurrentSession(context.Context) (*models.Session, error) {
	return f.sess, f.err
}

func newTestSession(userID id.UserID) *models.Session {
	return &models.Session{ID: id.NewSessionID(), UserID: userID}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStartsLoading(t *testing.T) {
	s := New(&fakeProfiles{}, &fakeRoles{}, nil)
	snap := s.Current()
	assert.True(t, snap.Loading)
	assert.Nil(t, snap.Session)
	assert.False(t, snap.RoleResolved)
}

func TestInitialSessionNoSessionDropsLoading(t *testing.T) {
	s := New(&fakeProfiles{}, &fakeRoles{}, nil)
	s.InitialSession(context.Background(), &fakeSource{})

	snap := s.Current()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Session)
}

func TestNoStoredSessionStartsSignedOut(t *testing.T) {
	// The server's startup path: a fresh process has no persisted session,
	// so the initial check resolves immediately to signed out.
	s := New(&fakeProfiles{}, &fakeRoles{}, nil)
	s.InitialSession(context.Background(), NoStoredSession{})

	snap := s.Current()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Session)
	assert.False(t, snap.RoleResolved)
}

func TestInitialSessionErrorStillResolvesLoading(t *testing.T) {
	s := New(&fakeProfiles{}, &fakeRoles{}, nil)
	s.InitialSession(context.Background(), &fakeSource{
		err: dErrors.New(dErrors.CodeInternal, "network down"),
	})

	// An errored check resolves to "no session"; it must not spin forever.
	snap := s.Current()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Session)
}

func TestSignInHydratesProfileAndRole(t *testing.T) {
	userID := id.NewUserID()
	profiles := &fakeProfiles{profiles: map[id.UserID]models.Profile{
		userID: {UserID: userID, Name: "Dr. Rao"},
	}}
	roles := &fakeRoles{roles: map[id.UserID]id.Role{userID: id.RoleResearcher}}
	s := New(profiles, roles, nil)

	s.OnAuthEvent(EventSignedIn, newTestSession(userID))

	// Identity lands synchronously; loading is already over.
	snap := s.Current()
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.Session)
	assert.Equal(t, userID, snap.Session.UserID)

	waitFor(t, func() bool { return s.Current().RoleResolved })
	snap = s.Current()
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Dr. Rao", snap.Profile.Name)
	assert.Equal(t, id.RoleResearcher, snap.Role)
}

func TestSignOutClearsEverythingAtomically(t *testing.T) {
	userID := id.NewUserID()
	profiles := &fakeProfiles{profiles: map[id.UserID]models.Profile{
		userID: {UserID: userID, Name: "Dr. Rao"},
	}}
	roles := &fakeRoles{roles: map[id.UserID]id.Role{userID: id.RoleResearcher}}
	s := New(profiles, roles, nil)

	s.OnAuthEvent(EventSignedIn, newTestSession(userID))
	waitFor(t, func() bool { return s.Current().RoleResolved })

	s.OnAuthEvent(EventSignedOut, nil)

	snap := s.Current()
	assert.Nil(t, snap.Session)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, snap.Role)
	assert.False(t, snap.RoleResolved)
}

func TestStaleHydrationIsDiscarded(t *testing.T) {
	first := id.NewUserID()
	second := id.NewUserID()
	block := make(chan struct{})
	profiles := &fakeProfiles{
		profiles: map[id.UserID]models.Profile{
			first:  {UserID: first, Name: "First"},
			second: {UserID: second, Name: "Second"},
		},
		block: block,
	}
	roles := &fakeRoles{roles: map[id.UserID]id.Role{
		first:  id.RoleResearcher,
		second: id.RoleInvestor,
	}}
	s := New(profiles, roles, nil)

	// Sign in as first; its hydration is stuck behind the block.
	s.OnAuthEvent(EventSignedIn, newTestSession(first))
	// Sign out before the fetch lands.
	s.OnAuthEvent(EventSignedOut, nil)
	// Release the stale fetch.
	close(block)

	// Give the stale goroutine a chance to (incorrectly) apply itself.
	time.Sleep(50 * time.Millisecond)
	snap := s.Current()
	assert.Nil(t, snap.Session)
	assert.Nil(t, snap.Profile, "stale hydration must not resurrect a signed-out profile")
	assert.False(t, snap.RoleResolved)
}

func TestInitialSessionAfterAuthEventIsDiscarded(t *testing.T) {
	userID := id.NewUserID()
	profiles := &fakeProfiles{profiles: map[id.UserID]models.Profile{
		userID: {UserID: userID, Name: "Current"},
	}}
	roles := &fakeRoles{roles: map[id.UserID]id.Role{userID: id.RoleStartup}}
	s := New(profiles, roles, nil)

	// The sign-in event beats the startup session check.
	s.OnAuthEvent(EventSignedIn, newTestSession(userID))

	// The late check reports some other (older) session.
	stale := newTestSession(id.NewUserID())
	s.InitialSession(context.Background(), &fakeSource{sess: stale})

	snap := s.Current()
	require.NotNil(t, snap.Session)
	assert.Equal(t, userID, snap.Session.UserID, "stale startup check must not replace the live identity")
	assert.False(t, snap.Loading)
}

func TestSubscribeDeliversLatestSnapshot(t *testing.T) {
	userID := id.NewUserID()
	profiles := &fakeProfiles{profiles: map[id.UserID]models.Profile{}}
	roles := &fakeRoles{roles: map[id.UserID]id.Role{userID: id.RoleAdmin}}
	s := New(profiles, roles, nil)

	ch := s.Subscribe()
	s.OnAuthEvent(EventSignedIn, newTestSession(userID))

	select {
	case snap := <-ch:
		assert.False(t, snap.Loading)
		require.NotNil(t, snap.Session)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestProfileMissingStillResolvesRole(t *testing.T) {
	userID := id.NewUserID()
	profiles := &fakeProfiles{profiles: map[id.UserID]models.Profile{}}
	roles := &fakeRoles{roles: map[id.UserID]id.Role{userID: id.RoleInvestor}}
	s := New(profiles, roles, nil)

	s.OnAuthEvent(EventSignedIn, newTestSession(userID))
	waitFor(t, func() bool { return s.Current().RoleResolved })

	snap := s.Current()
	assert.Nil(t, snap.Profile)
	assert.Equal(t, id.RoleInvestor, snap.Role)
}
