package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridianps/portfolio-api/internal/auth"
	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/service"
	"github.com/meridianps/portfolio-api/internal/testutil"
)

type auditFixture struct {
	middleware *AuditMiddleware
	repo       *repository.AuditLogRepository
}

func newAuditFixture(t *testing.T) *auditFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repo := repository.NewAuditLogRepository(db)
	svc := service.NewAuditLogService(repo, zap.NewNop())
	return &auditFixture{
		middleware: NewAuditMiddleware(svc, nil, zap.NewNop()),
		repo:       repo,
	}
}

func (f *auditFixture) entries(t *testing.T) []domain.AuditLog {
	t.Helper()
	logs, _, err := f.repo.List(context.Background(), nil, 1, 50)
	require.NoError(t, err)
	return logs
}

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// serveViaChi routes the request through a chi router so the middleware can
// read the route pattern and URL params, as it does in production.
func serveViaChi(f *auditFixture, method, pattern, target string, body string, status int, user *auth.UserContext) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(f.middleware.Audit)
	r.Method(method, pattern, okHandler(status))

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if user != nil {
		req = req.WithContext(auth.WithUserContext(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAudit_RecordsSuccessfulCreate(t *testing.T) {
	f := newAuditFixture(t)
	user := &auth.UserContext{UserID: uuid.New(), DisplayName: "Dana Reyes", AuthType: auth.AuthTypeJWT}

	serveViaChi(f, http.MethodPost, "/api/v1/projects", "/api/v1/projects", `{"name":"Acme"}`, http.StatusCreated, user)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, domain.AuditActionCreate, entry.Action)
	assert.Equal(t, "project", entry.EntityType)
	assert.Equal(t, user.UserID.String(), entry.UserID)
	assert.Equal(t, "Dana Reyes", entry.UserName)
	assert.Contains(t, entry.Detail, `"name":"Acme"`)
}

func TestAudit_RecordsEntityID(t *testing.T) {
	f := newAuditFixture(t)
	id := uuid.New()

	serveViaChi(f, http.MethodDelete, "/api/v1/projects/{id}", "/api/v1/projects/"+id.String(), "", http.StatusNoContent, nil)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionDelete, entries[0].Action)
	require.NotNil(t, entries[0].EntityID)
	assert.Equal(t, id, *entries[0].EntityID)
}

func TestAudit_SkipsReads(t *testing.T) {
	f := newAuditFixture(t)
	serveViaChi(f, http.MethodGet, "/api/v1/projects", "/api/v1/projects", "", http.StatusOK, nil)
	assert.Empty(t, f.entries(t))
}

func TestAudit_SkipsFailedRequests(t *testing.T) {
	f := newAuditFixture(t)
	serveViaChi(f, http.MethodPost, "/api/v1/projects", "/api/v1/projects", `{"name":"x"}`, http.StatusBadRequest, nil)
	assert.Empty(t, f.entries(t))
}

func TestAudit_SkipsConfiguredPaths(t *testing.T) {
	f := newAuditFixture(t)
	serveViaChi(f, http.MethodPost, "/api/v1/upload/import", "/api/v1/upload/import", "{}", http.StatusOK, nil)
	assert.Empty(t, f.entries(t))
}

func TestAudit_StripsCredentialFields(t *testing.T) {
	f := newAuditFixture(t)
	serveViaChi(f, http.MethodPost, "/api/v1/projects", "/api/v1/projects", `{"name":"Acme","password":"hunter2","token":"abc"}`, http.StatusCreated, nil)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Detail, "hunter2")
	assert.NotContains(t, entries[0].Detail, "abc")
	assert.Contains(t, entries[0].Detail, "Acme")
}

func TestParseEntityFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/projects", "project"},
		{"/api/v1/projects/{id}", "project"},
		{"/api/v1/scenarios/{id}/adjustments", "scenario_adjustment"},
		{"/api/v1/pipeline/{id}", "opportunity"},
		{"/api/v1/resource-plans", "resource_plan"},
		{"/api/v1/something-else", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseEntityFromPath(tt.path), tt.path)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:41234"
	assert.Equal(t, "10.0.0.5", clientIP(req))

	req.Header.Set("X-Real-IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

func TestMethodToAction(t *testing.T) {
	assert.Equal(t, domain.AuditActionCreate, methodToAction(http.MethodPost))
	assert.Equal(t, domain.AuditActionUpdate, methodToAction(http.MethodPut))
	assert.Equal(t, domain.AuditActionUpdate, methodToAction(http.MethodPatch))
	assert.Equal(t, domain.AuditActionDelete, methodToAction(http.MethodDelete))
	assert.Equal(t, domain.AuditAction(""), methodToAction(http.MethodGet))
}
