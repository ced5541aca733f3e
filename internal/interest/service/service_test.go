package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoport/internal/interest/models"
	"innoport/internal/interest/store"
	startupmodels "innoport/internal/startup/models"
	startupstore "innoport/internal/startup/store"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
	"innoport/pkg/requestcontext"
)

type staticRoles struct {
	roles map[id.UserID]id.Role
}

func (s staticRoles) Resolve(_ context.Context, userID id.UserID) (id.Role, bool) {
	role, ok := s.roles[userID]
	return role, ok
}

type interestFixture struct {
	svc      *Service
	startups *startupstore.InMemoryStore
	investor id.UserID
	founder  id.UserID
}

func newInterestFixture(t *testing.T) *interestFixture {
	t.Helper()
	f := &interestFixture{
		startups: startupstore.NewInMemoryStore(),
		investor: id.NewUserID(),
		founder:  id.NewUserID(),
	}
	roles := staticRoles{roles: map[id.UserID]id.Role{
		f.investor: id.RoleInvestor,
		f.founder:  id.RoleStartup,
	}}
	svc, err := New(store.NewInMemoryStore(), f.startups, roles, nil, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *interestFixture) addStartup(t *testing.T, verified bool) startupmodels.Startup {
	t.Helper()
	now := requestcontext.Now(context.Background())
	startup := startupmodels.Startup{
		ID:          id.NewStartupID(),
		CompanyName: "AgroSense Labs",
		FounderName: "Ravi Iyer",
		Sector:      "agritech",
		Stage:       startupmodels.StagePrototype,
		IsVerified:  verified,
		CreatedBy:   f.founder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, f.startups.Save(context.Background(), startup))
	return startup
}

func expressTarget(startup startupmodels.Startup) models.Target {
	return models.Target{Type: models.TargetStartup, ID: startup.ID.String()}
}

func TestExpressOnVerifiedStartup(t *testing.T) {
	f := newInterestFixture(t)
	startup := f.addStartup(t, true)

	record, err := f.svc.Express(context.Background(), f.investor, expressTarget(startup), &models.ExpressRequest{
		Amount:  "500000",
		Message: "Interested in a seed round.",
	})
	require.NoError(t, err)
	assert.Equal(t, f.investor, record.InvestorID)
	require.NotNil(t, record.Amount)
	assert.Equal(t, 500000.0, *record.Amount)
}

func TestExpressOnUnverifiedStartupIsForbidden(t *testing.T) {
	f := newInterestFixture(t)
	startup := f.addStartup(t, false)

	_, err := f.svc.Express(context.Background(), f.investor, expressTarget(startup), &models.ExpressRequest{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	// Nothing must have been recorded.
	records, err := f.svc.List(context.Background(), expressTarget(startup))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExpressRequiresInvestor(t *testing.T) {
	f := newInterestFixture(t)
	startup := f.addStartup(t, true)

	_, err := f.svc.Express(context.Background(), f.founder, expressTarget(startup), &models.ExpressRequest{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestExpressRejectsNonNumericAmount(t *testing.T) {
	f := newInterestFixture(t)
	startup := f.addStartup(t, true)

	_, err := f.svc.Express(context.Background(), f.investor, expressTarget(startup), &models.ExpressRequest{
		Amount: "five lakh",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestExpressUnknownStartup(t *testing.T) {
	f := newInterestFixture(t)
	target := models.Target{Type: models.TargetStartup, ID: id.NewStartupID().String()}

	_, err := f.svc.Express(context.Background(), f.investor, target, &models.ExpressRequest{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestTotalSumsAmounts(t *testing.T) {
	f := newInterestFixture(t)
	startup := f.addStartup(t, true)

	_, err := f.svc.Express(context.Background(), f.investor, expressTarget(startup), &models.ExpressRequest{Amount: "100000"})
	require.NoError(t, err)
	_, err = f.svc.Express(context.Background(), f.investor, expressTarget(startup), &models.ExpressRequest{Amount: "250000"})
	require.NoError(t, err)
	// Blank amount contributes nothing to the total.
	_, err = f.svc.Express(context.Background(), f.investor, expressTarget(startup), &models.ExpressRequest{})
	require.NoError(t, err)

	total, err := f.svc.Total(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 350000.0, total)

	records, err := f.svc.List(context.Background(), expressTarget(startup))
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
