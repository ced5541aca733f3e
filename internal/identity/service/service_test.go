package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoport/internal/identity/models"
	"innoport/internal/identity/password"
	"innoport/internal/identity/store"
	"innoport/internal/identity/store/revocation"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
	auditpub "innoport/pkg/platform/audit/publisher"
	auditmemory "innoport/pkg/platform/audit/store/memory"
)

func newTestService(t *testing.T) (*Service, *auditmemory.InMemoryStore) {
	t.Helper()
	auditStore := auditmemory.NewInMemoryStore()
	svc, err := New(Deps{
		Users:       store.NewInMemoryUserStore(),
		Profiles:    store.NewInMemoryProfileStore(),
		Roles:       store.NewInMemoryRoleStore(),
		Hasher:      password.NewHasher(nil),
		Tokens:      NewTokenIssuer("test-signing-key", time.Hour),
		Revocations: revocation.NewInMemoryList(),
		Auditor:     auditpub.NewPublisher(auditStore),
	})
	require.NoError(t, err)
	return svc, auditStore
}

func signUp(t *testing.T, svc *Service, email, role string) *models.Profile {
	t.Helper()
	profile, err := svc.SignUp(context.Background(), &models.SignUpRequest{
		Email:    email,
		Password: "correct-horse",
		Name:     "Asha Verma",
		Role:     role,
	})
	require.NoError(t, err)
	return profile
}

func TestSignUpAssignsRoleOnce(t *testing.T) {
	svc, _ := newTestService(t)
	profile := signUp(t, svc, "asha@example.org", "researcher")

	info, err := svc.Describe(context.Background(), profile.UserID)
	require.NoError(t, err)
	assert.Equal(t, id.RoleResearcher, info.Role)
	require.NotNil(t, info.Profile)
	assert.Equal(t, "Asha Verma", info.Profile.Name)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	signUp(t, svc, "asha@example.org", "researcher")

	_, err := svc.SignUp(context.Background(), &models.SignUpRequest{
		Email:    "asha@example.org",
		Password: "another-pass",
		Name:     "Someone Else",
		Role:     "startup",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SignUp(context.Background(), &models.SignUpRequest{
		Email:    "short@example.org",
		Password: "abc",
		Name:     "Short",
		Role:     "investor",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestSignUpRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SignUp(context.Background(), &models.SignUpRequest{
		Email:    "who@example.org",
		Password: "long-enough",
		Name:     "Who",
		Role:     "superuser",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestSignInIssuesToken(t *testing.T) {
	svc, _ := newTestService(t)
	signUp(t, svc, "asha@example.org", "researcher")

	result, err := svc.SignIn(context.Background(), &models.SignInRequest{
		Email:    "asha@example.org",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, id.RoleResearcher, result.Role)
	assert.Positive(t, result.ExpiresIn)
}

func TestSignInFailsUniformly(t *testing.T) {
	svc, _ := newTestService(t)
	signUp(t, svc, "asha@example.org", "researcher")

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := svc.SignIn(context.Background(), &models.SignInRequest{
		Email:    "nobody@example.org",
		Password: "whatever-pass",
	})
	_, errWrongPass := svc.SignIn(context.Background(), &models.SignInRequest{
		Email:    "asha@example.org",
		Password: "wrong-password",
	})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	assert.True(t, dErrors.HasCode(errUnknown, dErrors.CodeUnauthorized))
}

func TestSignOutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)
	signUp(t, svc, "asha@example.org", "researcher")

	result, err := svc.SignIn(context.Background(), &models.SignInRequest{
		Email:    "asha@example.org",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	claims, err := svc.tokens.ValidateToken(result.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(context.Background(), claims.UserID, claims.JTI))

	revoked, err := svc.revocations.IsTokenRevoked(context.Background(), claims.JTI)
	require.NoError(t, err)
	assert.True(t, revoked, "sign-out must revoke the presented token")
}

func TestAuditTrailFollowsLifecycle(t *testing.T) {
	svc, auditStore := newTestService(t)
	profile := signUp(t, svc, "asha@example.org", "researcher")

	_, err := svc.SignIn(context.Background(), &models.SignInRequest{
		Email:    "asha@example.org",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	events, err := auditStore.ListByUser(context.Background(), profile.UserID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "user_signed_up", events[0].Action)
	assert.Equal(t, "user_signed_in", events[1].Action)
}
