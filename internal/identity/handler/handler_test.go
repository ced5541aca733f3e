package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoport/internal/identity/password"
	"innoport/internal/identity/service"
	"innoport/internal/identity/store"
	"innoport/internal/identity/store/revocation"
	"innoport/internal/platform/logger"
	authmw "innoport/pkg/platform/middleware/auth"
	requestmw "innoport/pkg/platform/middleware/request"
)

func newAuthRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logger.New()
	tokens := service.NewTokenIssuer("test-signing-key", time.Hour)
	revocations := revocation.NewInMemoryList()

	svc, err := service.New(service.Deps{
		Users:       store.NewInMemoryUserStore(),
		Profiles:    store.NewInMemoryProfileStore(),
		Roles:       store.NewInMemoryRoleStore(),
		Hasher:      password.NewHasher(nil),
		Tokens:      tokens,
		Revocations: revocations,
		Logger:      log,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(requestmw.Middleware)
	r.Use(authmw.Authenticate(tokens, revocations, log))
	New(svc, log).Register(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func signUpAndIn(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	rec := postJSON(t, router, "/auth/signup", map[string]string{
		"email":    email,
		"password": "correct-horse",
		"name":     "Asha Verma",
		"role":     "researcher",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = postJSON(t, router, "/auth/signin", map[string]string{
		"email":    email,
		"password": "correct-horse",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.NotEmpty(t, result.AccessToken)
	return result.AccessToken
}

func TestSignUpValidationError(t *testing.T) {
	router := newAuthRouter(t)
	rec := postJSON(t, router, "/auth/signup", map[string]string{
		"email":    "not-an-email",
		"password": "correct-horse",
		"name":     "Asha",
		"role":     "researcher",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignInWrongPassword(t *testing.T) {
	router := newAuthRouter(t)
	signUpAndIn(t, router, "asha@example.org")

	rec := postJSON(t, router, "/auth/signin", map[string]string{
		"email":    "asha@example.org",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionDescribesCaller(t *testing.T) {
	router := newAuthRouter(t)
	token := signUpAndIn(t, router, "asha@example.org")

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var info struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.NotEmpty(t, info.UserID)
	assert.Equal(t, "researcher", info.Role)
}

func TestSessionRequiresAuth(t *testing.T) {
	router := newAuthRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignOutRevokesTokenImmediately(t *testing.T) {
	router := newAuthRouter(t)
	token := signUpAndIn(t, router, "asha@example.org")

	rec := postJSON(t, router, "/auth/signout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The same token must not work after sign-out, with no window where a
	// request still slips through.
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	after := httptest.NewRecorder()
	router.ServeHTTP(after, req)
	assert.Equal(t, http.StatusUnauthorized, after.Code)
	assert.Contains(t, after.Body.String(), "revoked")
}

func TestSignOutWithoutTokenIsUnauthorized(t *testing.T) {
	router := newAuthRouter(t)
	rec := postJSON(t, router, "/auth/signout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
