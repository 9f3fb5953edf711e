package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meridianps/portfolio-api/internal/auth"
	"github.com/meridianps/portfolio-api/internal/config"
	"github.com/meridianps/portfolio-api/internal/database"
	"github.com/meridianps/portfolio-api/internal/http/handler"
	"github.com/meridianps/portfolio-api/internal/http/middleware"
	"github.com/meridianps/portfolio-api/internal/warehouse"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/meridianps/portfolio-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                *config.Config
	logger             *zap.Logger
	db                 *gorm.DB
	warehouseClient    *warehouse.Client
	authMiddleware     *auth.Middleware
	rateLimiter        *middleware.RateLimiter
	auditMiddleware    *middleware.AuditMiddleware
	projectHandler     *handler.ProjectHandler
	employeeHandler    *handler.EmployeeHandler
	timesheetHandler   *handler.TimesheetHandler
	pipelineHandler    *handler.PipelineHandler
	scenarioHandler    *handler.ScenarioHandler
	utilizationHandler *handler.UtilizationHandler
	uploadHandler      *handler.UploadHandler
	dashboardHandler   *handler.DashboardHandler
	auditHandler       *handler.AuditHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	warehouseClient *warehouse.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	projectHandler *handler.ProjectHandler,
	employeeHandler *handler.EmployeeHandler,
	timesheetHandler *handler.TimesheetHandler,
	pipelineHandler *handler.PipelineHandler,
	scenarioHandler *handler.ScenarioHandler,
	utilizationHandler *handler.UtilizationHandler,
	uploadHandler *handler.UploadHandler,
	dashboardHandler *handler.DashboardHandler,
	auditHandler *handler.AuditHandler,
) *Router {
	return &Router{
		cfg:                cfg,
		logger:             logger,
		db:                 db,
		warehouseClient:    warehouseClient,
		authMiddleware:     authMiddleware,
		rateLimiter:        rateLimiter,
		auditMiddleware:    auditMiddleware,
		projectHandler:     projectHandler,
		employeeHandler:    employeeHandler,
		timesheetHandler:   timesheetHandler,
		pipelineHandler:    pipelineHandler,
		scenarioHandler:    scenarioHandler,
		utilizationHandler: utilizationHandler,
		uploadHandler:      uploadHandler,
		dashboardHandler:   dashboardHandler,
		auditHandler:       auditHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Warehouse feed health (reports "disabled" when the feed is off)
	r.Get("/health/warehouse", func(w http.ResponseWriter, r *http.Request) {
		status := rt.warehouseClient.HealthCheck(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if status.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(status)
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.auditMiddleware.Audit) // Audit all modifications

			// Projects
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.List)
				r.Post("/", rt.projectHandler.Create)
				r.Get("/{id}", rt.projectHandler.GetByID)
				r.Put("/{id}", rt.projectHandler.Update)
				r.Delete("/{id}", rt.projectHandler.Delete)
				r.Get("/{id}/monthly", rt.projectHandler.GetMonthlies)
				r.Get("/{id}/milestones", rt.projectHandler.GetMilestones)
				r.Get("/{id}/costs", rt.projectHandler.GetCosts)
				r.Get("/{id}/kpis", rt.projectHandler.GetKpis)
				r.Get("/{id}/cx-ratings", rt.projectHandler.GetCxRatings)
				r.Get("/{id}/resource-plans", rt.projectHandler.GetResourcePlans)
			})

			// Employees
			r.Route("/employees", func(r chi.Router) {
				r.Get("/", rt.employeeHandler.List)
				r.Post("/", rt.employeeHandler.Create)
				r.Get("/{id}", rt.employeeHandler.GetByID)
				r.Put("/{id}", rt.employeeHandler.Update)
				r.Delete("/{id}", rt.employeeHandler.Delete)
				r.Get("/{id}/projection", rt.employeeHandler.GetProjection)
				r.Get("/{id}/resource-costs", rt.employeeHandler.GetResourceCosts)
			})

			// Timesheets
			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/", rt.timesheetHandler.List)
				r.Post("/", rt.timesheetHandler.Create)
				r.Delete("/{id}", rt.timesheetHandler.Delete)
			})

			// Pipeline
			r.Route("/pipeline", func(r chi.Router) {
				r.Get("/", rt.pipelineHandler.List)
				r.Post("/", rt.pipelineHandler.Create)
				r.Get("/summary", rt.pipelineHandler.Summary)
				r.Get("/{id}", rt.pipelineHandler.GetByID)
				r.Put("/{id}", rt.pipelineHandler.Update)
				r.Delete("/{id}", rt.pipelineHandler.Delete)
			})

			// Scenarios
			r.Route("/scenarios", func(r chi.Router) {
				r.Get("/", rt.scenarioHandler.List)
				r.Post("/", rt.scenarioHandler.Create)
				r.Get("/{id}", rt.scenarioHandler.GetByID)
				r.Delete("/{id}", rt.scenarioHandler.Delete)
				r.Post("/{id}/adjustments", rt.scenarioHandler.AddAdjustment)
				r.Delete("/{id}/adjustments/{adjustmentId}", rt.scenarioHandler.DeleteAdjustment)
				r.Get("/{id}/forecast", rt.scenarioHandler.Forecast)
			})

			// Utilization
			r.Get("/utilization/weekly", rt.utilizationHandler.Weekly)
			r.Get("/utilization/projection", rt.utilizationHandler.Projection)
			r.Put("/resource-plans", rt.utilizationHandler.UpsertPlan)

			// Workbook upload
			r.Route("/upload", func(r chi.Router) {
				r.Post("/preview", rt.uploadHandler.Preview)
				r.Post("/import", rt.uploadHandler.Import)
				r.Get("/sheets", rt.uploadHandler.Sheets)
			})

			// Dashboard
			r.Get("/dashboard/summary", rt.dashboardHandler.Summary)

			// Audit logs
			r.Route("/audit", func(r chi.Router) {
				r.Get("/", rt.auditHandler.List)
				r.Get("/entity/{entityType}/{entityId}", rt.auditHandler.GetByEntity)
			})
		})
	})

	return r
}
