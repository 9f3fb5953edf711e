package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/auth"
	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/service"
	"go.uber.org/zap"
)

// AuditConfig holds configuration for audit middleware
type AuditConfig struct {
	// SkipPaths contains paths that should not be audited
	SkipPaths []string
	// SkipMethods contains HTTP methods that should not be audited (e.g., GET, OPTIONS)
	SkipMethods []string
	// MaxDetailBytes caps the request body snapshot stored in the Detail column
	MaxDetailBytes int
}

// DefaultAuditConfig returns default audit configuration
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths: []string{
			"/health",
			"/health/db",
			"/health/ready",
			"/swagger",
			// Workbook imports write their own audit entry with the import outcome
			"/api/v1/upload",
		},
		SkipMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
		},
		MaxDetailBytes: 4096,
	}
}

// AuditMiddleware records successful mutating requests to the audit log
type AuditMiddleware struct {
	auditService *service.AuditLogService
	config       *AuditConfig
	logger       *zap.Logger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(auditService *service.AuditLogService, config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		auditService: auditService,
		config:       config,
		logger:       logger,
	}
}

// Audit returns middleware that logs modifications to the audit log
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.shouldAudit(r) {
			next.ServeHTTP(w, r)
			return
		}

		// Capture request body for POST/PUT/PATCH
		var requestBody []byte
		if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
			requestBody, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		// Wrap response writer to capture status code
		rw := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		// Only log successful modifications
		if rw.statusCode < 200 || rw.statusCode >= 300 {
			return
		}

		m.record(r, requestBody)
	})
}

// shouldAudit determines if a request should be audited
func (m *AuditMiddleware) shouldAudit(r *http.Request) bool {
	if m.auditService == nil {
		return false
	}

	for _, method := range m.config.SkipMethods {
		if r.Method == method {
			return false
		}
	}

	path := r.URL.Path
	for _, skipPath := range m.config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return false
		}
	}

	return true
}

// record builds and writes the audit entry for a completed request
func (m *AuditMiddleware) record(r *http.Request, requestBody []byte) {
	action := methodToAction(r.Method)
	if action == "" {
		return
	}

	entityType, entityID := m.extractEntityInfo(r)

	entry := &domain.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     m.bodySnapshot(requestBody),
		RequestID:  r.Header.Get("X-Request-ID"),
		IPAddress:  clientIP(r),
	}

	if userCtx, ok := auth.FromContext(r.Context()); ok {
		entry.UserID = userCtx.UserID.String()
		entry.UserName = userCtx.DisplayName
	}

	m.auditService.Record(r.Context(), entry)
}

// bodySnapshot returns a compact JSON copy of the request body with
// credential-looking fields stripped, truncated to MaxDetailBytes.
func (m *AuditMiddleware) bodySnapshot(requestBody []byte) string {
	if len(requestBody) == 0 {
		return ""
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(requestBody, &parsed); err != nil {
		return ""
	}

	delete(parsed, "password")
	delete(parsed, "secret")
	delete(parsed, "token")
	delete(parsed, "apiKey")

	compact, err := json.Marshal(parsed)
	if err != nil {
		return ""
	}
	if m.config.MaxDetailBytes > 0 && len(compact) > m.config.MaxDetailBytes {
		compact = compact[:m.config.MaxDetailBytes]
	}
	return string(compact)
}

// methodToAction converts HTTP method to audit action
func methodToAction(method string) domain.AuditAction {
	switch method {
	case http.MethodPost:
		return domain.AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		return domain.AuditActionUpdate
	case http.MethodDelete:
		return domain.AuditActionDelete
	default:
		return ""
	}
}

// extractEntityInfo extracts entity type and ID from the request route
func (m *AuditMiddleware) extractEntityInfo(r *http.Request) (string, *uuid.UUID) {
	routeCtx := chi.RouteContext(r.Context())
	if routeCtx == nil {
		return parseEntityFromPath(r.URL.Path), nil
	}

	var entityID *uuid.UUID
	if idStr := routeCtx.URLParam("id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			entityID = &id
		}
	}

	entityType := parseEntityFromPath(routeCtx.RoutePattern())
	return entityType, entityID
}

// parseEntityFromPath maps a URL path to the audited entity type
func parseEntityFromPath(path string) string {
	entityMap := map[string]string{
		"projects":       "project",
		"employees":      "employee",
		"timesheets":     "timesheet",
		"pipeline":       "opportunity",
		"scenarios":      "scenario",
		"adjustments":    "scenario_adjustment",
		"resource-plans": "resource_plan",
	}

	// The most specific segment wins, so scan from the end
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if entityType, ok := entityMap[parts[i]]; ok {
			return entityType
		}
	}

	return "unknown"
}

// clientIP extracts the originating client IP from the request
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// responseCapture wraps ResponseWriter to capture the status code
type responseCapture struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseCapture) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
