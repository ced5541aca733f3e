package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoport/internal/patent/models"
	"innoport/internal/patent/store"
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

func newPatentService(t *testing.T) (*Service, id.UserID, id.UserID) {
	t.Helper()
	researcher := id.NewUserID()
	admin := id.NewUserID()
	roles := staticRoles{roles: map[id.UserID]id.Role{
		researcher: id.RoleResearcher,
		admin:      id.RoleAdmin,
	}}
	svc, err := New(store.NewInMemoryStore(), roles, nil, nil)
	require.NoError(t, err)
	return svc, researcher, admin
}

func fileTestPatent(t *testing.T, svc *Service, researcher id.UserID) *models.Patent {
	t.Helper()
	patent, err := svc.Create(context.Background(), researcher, &models.CreateRequest{
		Title:       "Soil Moisture Probe",
		Inventor:    "Dr. Asha Verma",
		Institution: "State Agricultural University",
		FiledDate:   "2026-03-14",
	})
	require.NoError(t, err)
	return patent
}

func TestCreateStartsFiled(t *testing.T) {
	svc, researcher, _ := newPatentService(t)
	patent := fileTestPatent(t, svc, researcher)

	assert.Equal(t, models.StatusFiled, patent.Status)
	assert.Equal(t, researcher, patent.CreatedBy)
	assert.Equal(t, 2026, patent.FiledDate.Year())
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc, researcher, _ := newPatentService(t)
	_, err := svc.Create(context.Background(), researcher, &models.CreateRequest{
		Title:       "Bad Date",
		Inventor:    "Anyone",
		Institution: "Anywhere",
		FiledDate:   "14/03/2026",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestCreateRequiresResearcher(t *testing.T) {
	svc, _, admin := newPatentService(t)
	_, err := svc.Create(context.Background(), admin, &models.CreateRequest{
		Title:       "Nope",
		Inventor:    "Anyone",
		Institution: "Anywhere",
		FiledDate:   "2026-03-14",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestStatusGraph(t *testing.T) {
	tests := []struct {
		name  string
		path  []string
		fails string
	}{
		{name: "filed to under_review to approved", path: []string{"under_review", "approved"}},
		{name: "filed straight to approved", path: []string{"approved"}},
		{name: "filed straight to rejected", path: []string{"rejected"}},
		{name: "approved is terminal", path: []string{"approved"}, fails: "rejected"},
		{name: "rejected is terminal", path: []string{"rejected"}, fails: "under_review"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, researcher, admin := newPatentService(t)
			patent := fileTestPatent(t, svc, researcher)

			for _, status := range tc.path {
				_, err := svc.SetStatus(context.Background(), admin, patent.ID, &models.StatusRequest{Status: status})
				require.NoError(t, err)
			}
			if tc.fails != "" {
				_, err := svc.SetStatus(context.Background(), admin, patent.ID, &models.StatusRequest{Status: tc.fails})
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
			}
		})
	}
}

func TestStatusNeverReturnsToFiled(t *testing.T) {
	svc, researcher, admin := newPatentService(t)
	patent := fileTestPatent(t, svc, researcher)

	_, err := svc.SetStatus(context.Background(), admin, patent.ID, &models.StatusRequest{Status: "filed"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestSetStatusRequiresAdmin(t *testing.T) {
	svc, researcher, _ := newPatentService(t)
	patent := fileTestPatent(t, svc, researcher)

	_, err := svc.SetStatus(context.Background(), researcher, patent.ID, &models.StatusRequest{Status: "approved"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestListMineFilters(t *testing.T) {
	svc, researcher, _ := newPatentService(t)
	fileTestPatent(t, svc, researcher)

	mine, err := svc.List(context.Background(), researcher, models.ListFilter{Mine: true})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	others, err := svc.List(context.Background(), id.NewUserID(), models.ListFilter{Mine: true})
	require.NoError(t, err)
	assert.Empty(t, others)
}
