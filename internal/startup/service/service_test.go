package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoport/internal/startup/models"
	"innoport/internal/startup/store"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
)

type staticRoles struct {
	roles map[id.UserID]id.Role
}

func (s staticRoles) Resolve(_ context.Context, userID id.UserID) (id.Role, bool) {
	role, ok := s.roles[userID]
	return role, ok
}

func newStartupService(t *testing.T) (*Service, id.UserID, id.UserID) {
	t.Helper()
	founder := id.NewUserID()
	admin := id.NewUserID()
	roles := staticRoles{roles: map[id.UserID]id.Role{
		founder: id.RoleStartup,
		admin:   id.RoleAdmin,
	}}
	svc, err := New(store.NewInMemoryStore(), roles, nil, nil)
	require.NoError(t, err)
	return svc, founder, admin
}

func registerStartup(t *testing.T, svc *Service, founder id.UserID) *models.Startup {
	t.Helper()
	startup, err := svc.Create(context.Background(), founder, &models.CreateRequest{
		CompanyName:     "AgroSense Labs",
		FounderName:     "Ravi Iyer",
		Sector:          "agritech",
		Stage:           "prototype",
		FundingReceived: "1500000",
	})
	require.NoError(t, err)
	return startup
}

func TestCreateStartsUnverified(t *testing.T) {
	svc, founder, _ := newStartupService(t)
	startup := registerStartup(t, svc, founder)

	assert.False(t, startup.IsVerified)
	assert.Equal(t, models.StagePrototype, startup.Stage)
	require.NotNil(t, startup.FundingReceived)
	assert.Equal(t, 1500000.0, *startup.FundingReceived)
}

func TestCreateRequiresStartupRole(t *testing.T) {
	svc, _, admin := newStartupService(t)
	_, err := svc.Create(context.Background(), admin, &models.CreateRequest{
		CompanyName: "Nope Inc",
		FounderName: "Anyone",
		Sector:      "fintech",
		Stage:       "mvp",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestCreateRejectsUnknownStage(t *testing.T) {
	svc, founder, _ := newStartupService(t)
	_, err := svc.Create(context.Background(), founder, &models.CreateRequest{
		CompanyName: "AgroSense Labs",
		FounderName: "Ravi Iyer",
		Sector:      "agritech",
		Stage:       "unicorn",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestVerifyIsAdminOnly(t *testing.T) {
	svc, founder, _ := newStartupService(t)
	startup := registerStartup(t, svc, founder)

	_, err := svc.Verify(context.Background(), founder, startup.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestVerifyIsOneWayAndIdempotent(t *testing.T) {
	svc, founder, admin := newStartupService(t)
	startup := registerStartup(t, svc, founder)

	verified, err := svc.Verify(context.Background(), admin, startup.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	// Verifying again is a no-op success, never an error or a reversal.
	again, err := svc.Verify(context.Background(), admin, startup.ID)
	require.NoError(t, err)
	assert.True(t, again.IsVerified)
}

func TestVerifyUnknownStartup(t *testing.T) {
	svc, _, admin := newStartupService(t)
	_, err := svc.Verify(context.Background(), admin, id.NewStartupID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestListVerifiedFilter(t *testing.T) {
	svc, founder, admin := newStartupService(t)
	first := registerStartup(t, svc, founder)
	registerStartup(t, svc, founder)

	_, err := svc.Verify(context.Background(), admin, first.ID)
	require.NoError(t, err)

	verified := true
	list, err := svc.List(context.Background(), admin, models.ListFilter{Verified: &verified})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	unverified := false
	list, err = svc.List(context.Background(), admin, models.ListFilter{Verified: &unverified})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
