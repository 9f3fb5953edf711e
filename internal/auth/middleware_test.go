package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridianps/portfolio-api/internal/config"
)

func testMiddleware(t *testing.T) *Middleware {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "test-signing-secret",
			Issuer:    "meridianps",
			Audience:  "portfolio-api",
			TokenTTL:  3600,
		},
		ApiKey: config.ApiKeyConfig{Value: "service-key"},
	}
	return NewMiddleware(cfg, zap.NewNop())
}

func captureUser(captured **UserContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := FromContext(r.Context()); ok {
			*captured = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_APIKey(t *testing.T) {
	m := testMiddleware(t)

	var user *UserContext
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("x-api-key", "service-key")
	rec := httptest.NewRecorder()

	m.Authenticate(captureUser(&user)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, uuid.Nil, user.UserID)
	assert.Equal(t, "System", user.DisplayName)
	assert.True(t, user.IsSystem())
}

func TestAuthenticate_InvalidAPIKey(t *testing.T) {
	m := testMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("x-api-key", "wrong-key")
	rec := httptest.NewRecorder()

	m.Authenticate(captureUser(new(*UserContext))).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_BearerToken(t *testing.T) {
	m := testMiddleware(t)
	userID := uuid.New()
	token, err := m.jwtValidator.IssueToken(userID, "Dana Reyes", "dana@meridianps.io")
	require.NoError(t, err)

	var user *UserContext
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.Authenticate(captureUser(&user)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, userID, user.UserID)
	assert.Equal(t, AuthTypeJWT, user.AuthType)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m := testMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	rec := httptest.NewRecorder()

	m.Authenticate(captureUser(new(*UserContext))).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	m := testMiddleware(t)

	for _, header := range []string{"Basic abc123", "Bearer", "justatoken"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		m.Authenticate(captureUser(new(*UserContext))).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestOptionalAuthenticate_NoCredentials(t *testing.T) {
	m := testMiddleware(t)

	var user *UserContext
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	rec := httptest.NewRecorder()

	m.OptionalAuthenticate(captureUser(&user)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, user)
}

func TestOptionalAuthenticate_InvalidTokenContinues(t *testing.T) {
	m := testMiddleware(t)

	var user *UserContext
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	m.OptionalAuthenticate(captureUser(&user)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, user)
}
