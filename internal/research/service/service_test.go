package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoport/internal/research/models"
	"innoport/internal/research/store"
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

type fixture struct {
	svc        *Service
	researcher id.UserID
	admin      id.UserID
	investor   id.UserID
	unknown    id.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		researcher: id.NewUserID(),
		admin:      id.NewUserID(),
		investor:   id.NewUserID(),
		unknown:    id.NewUserID(),
	}
	roles := staticRoles{roles: map[id.UserID]id.Role{
		f.researcher: id.RoleResearcher,
		f.admin:      id.RoleAdmin,
		f.investor:   id.RoleInvestor,
	}}
	svc, err := New(store.NewInMemoryStore(), roles, nil, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func submitProject(t *testing.T, f *fixture) *models.Project {
	t.Helper()
	project, err := f.svc.Create(context.Background(), f.researcher, &models.CreateRequest{
		Title:                 "AI Irrigation",
		Abstract:              "Low-cost drip irrigation scheduling from soil sensors.",
		Institution:           "State Agricultural University",
		PrincipalInvestigator: "Dr. Asha Verma",
		FundingAmount:         "250000",
		DurationMonths:        "18",
	})
	require.NoError(t, err)
	return project
}

func TestCreateStartsSubmitted(t *testing.T) {
	f := newFixture(t)
	project := submitProject(t, f)

	assert.Equal(t, models.StatusSubmitted, project.Status)
	assert.Equal(t, f.researcher, project.CreatedBy)
	assert.Nil(t, project.ApprovedBy)
	require.NotNil(t, project.FundingAmount)
	assert.Equal(t, 250000.0, *project.FundingAmount)
	require.NotNil(t, project.DurationMonths)
	assert.Equal(t, 18, *project.DurationMonths)
}

func TestCreateRejectsNonResearchers(t *testing.T) {
	f := newFixture(t)
	for _, caller := range []id.UserID{f.admin, f.investor} {
		_, err := f.svc.Create(context.Background(), caller, &models.CreateRequest{
			Title:                 "Nope",
			Abstract:              "Should not be allowed.",
			Institution:           "Anywhere",
			PrincipalInvestigator: "Anyone",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	}
}

func TestCreateUnresolvedRoleIsForbidden(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), f.unknown, &models.CreateRequest{
		Title:                 "Nope",
		Abstract:              "Caller role is not readable.",
		Institution:           "Anywhere",
		PrincipalInvestigator: "Anyone",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestCreateRejectsNonNumericFunding(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), f.researcher, &models.CreateRequest{
		Title:                 "Bad Form",
		Abstract:              "Funding arrives as prose.",
		Institution:           "Anywhere",
		PrincipalInvestigator: "Anyone",
		FundingAmount:         "two lakh",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestAdminRejectsWithComment(t *testing.T) {
	f := newFixture(t)
	project := submitProject(t, f)

	decided, err := f.svc.Decide(context.Background(), f.admin, project.ID, &models.DecisionRequest{
		Status:  "rejected",
		Comment: "Budget exceeds the scheme ceiling.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, decided.Status)
	assert.Equal(t, "Budget exceeds the scheme ceiling.", decided.ReviewComment)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, f.admin, *decided.ApprovedBy)
}

func TestDecideRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	project := submitProject(t, f)

	_, err := f.svc.Decide(context.Background(), f.researcher, project.ID, &models.DecisionRequest{
		Status: "approved",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestDecidedProjectIsTerminal(t *testing.T) {
	f := newFixture(t)
	project := submitProject(t, f)

	_, err := f.svc.Decide(context.Background(), f.admin, project.ID, &models.DecisionRequest{
		Status: "approved",
	})
	require.NoError(t, err)

	_, err = f.svc.Decide(context.Background(), f.admin, project.ID, &models.DecisionRequest{
		Status: "rejected",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestUnderReviewThenApprove(t *testing.T) {
	f := newFixture(t)
	project := submitProject(t, f)

	_, err := f.svc.Decide(context.Background(), f.admin, project.ID, &models.DecisionRequest{
		Status: "under_review",
	})
	require.NoError(t, err)

	decided, err := f.svc.Decide(context.Background(), f.admin, project.ID, &models.DecisionRequest{
		Status: "approved",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, decided.Status)
}

func TestDecideUnknownProject(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Decide(context.Background(), f.admin, id.NewProjectID(), &models.DecisionRequest{
		Status: "approved",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestListFiltersByStatusAndOwner(t *testing.T) {
	f := newFixture(t)
	first := submitProject(t, f)
	submitProject(t, f)

	_, err := f.svc.Decide(context.Background(), f.admin, first.ID, &models.DecisionRequest{
		Status: "approved",
	})
	require.NoError(t, err)

	approved := models.StatusApproved
	list, err := f.svc.List(context.Background(), f.investor, models.ListFilter{Status: &approved})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	mine, err := f.svc.List(context.Background(), f.researcher, models.ListFilter{Mine: true})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	othersMine, err := f.svc.List(context.Background(), f.investor, models.ListFilter{Mine: true})
	require.NoError(t, err)
	assert.Empty(t, othersMine)
}
