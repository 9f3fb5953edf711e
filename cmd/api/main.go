package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridianps/portfolio-api/docs"
	"github.com/meridianps/portfolio-api/internal/auth"
	"github.com/meridianps/portfolio-api/internal/config"
	"github.com/meridianps/portfolio-api/internal/database"
	"github.com/meridianps/portfolio-api/internal/http/handler"
	"github.com/meridianps/portfolio-api/internal/http/middleware"
	"github.com/meridianps/portfolio-api/internal/http/router"
	"github.com/meridianps/portfolio-api/internal/importer"
	"github.com/meridianps/portfolio-api/internal/jobs"
	"github.com/meridianps/portfolio-api/internal/logger"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/service"
	"github.com/meridianps/portfolio-api/internal/storage"
	"github.com/meridianps/portfolio-api/internal/warehouse"
	"go.uber.org/zap"
)

// @title Meridian Portfolio API
// @version 1.0
// @description Portfolio management API for projects, staffing, utilization and pipeline forecasting
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@meridianps.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "portfolio-staging.meridianps.io"
	case "production":
		docs.SwaggerInfo.Host = "portfolio.meridianps.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize workbook archive storage
	archiveStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize the time tracking warehouse connection (optional, read-only)
	// The app continues without it if not configured
	var warehouseClient *warehouse.Client
	if cfg.DataWarehouse.Enabled {
		warehouseClient, err = warehouse.NewClient(&cfg.DataWarehouse, log)
		if err != nil {
			log.Warn("Warehouse connection failed, continuing without it",
				zap.Error(err),
			)
		} else if warehouseClient != nil {
			log.Info("Warehouse connected successfully",
				zap.Int("max_open_conns", cfg.DataWarehouse.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.DataWarehouse.QueryTimeout),
			)
		}
	} else {
		log.Info("Warehouse feed not configured, skipping",
			zap.Bool("enabled", cfg.DataWarehouse.Enabled),
		)
	}

	// Initialize repositories
	projectRepo := repository.NewProjectRepository(db)
	monthlyRepo := repository.NewProjectMonthlyRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)
	planRepo := repository.NewResourcePlanRepository(db)
	weeklyRepo := repository.NewWeeklyUtilizationRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	costRepo := repository.NewCostRepository(db)
	kpiRepo := repository.NewKpiRepository(db)
	cxRatingRepo := repository.NewCxRatingRepository(db)
	resourceCostRepo := repository.NewResourceCostRepository(db)
	pipelineRepo := repository.NewPipelineRepository(db)
	scenarioRepo := repository.NewScenarioRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	importStore := repository.NewImportStore(db)

	// Initialize services
	projectService := service.NewProjectService(projectRepo, monthlyRepo, milestoneRepo, costRepo, kpiRepo, cxRatingRepo, log)
	employeeService := service.NewEmployeeService(employeeRepo, resourceCostRepo, log)
	timesheetService := service.NewTimesheetService(timesheetRepo, employeeRepo, projectRepo, weeklyRepo, log)
	pipelineService := service.NewPipelineService(pipelineRepo, log)
	scenarioService := service.NewScenarioService(scenarioRepo, pipelineRepo, log)
	utilizationService := service.NewUtilizationService(employeeRepo, projectRepo, timesheetRepo, planRepo, weeklyRepo, log)
	uploadService := service.NewUploadService(importStore, importer.NewOrchestrator(log), archiveStorage, auditLogRepo, log)
	dashboardService := service.NewDashboardService(projectRepo, employeeRepo, pipelineService, utilizationService, log)
	auditLogService := service.NewAuditLogService(auditLogRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(auditLogService, nil, log)

	// Initialize handlers
	projectHandler := handler.NewProjectHandler(projectService, utilizationService, log)
	employeeHandler := handler.NewEmployeeHandler(employeeService, utilizationService, log)
	timesheetHandler := handler.NewTimesheetHandler(timesheetService, log)
	pipelineHandler := handler.NewPipelineHandler(pipelineService, log)
	scenarioHandler := handler.NewScenarioHandler(scenarioService, log)
	utilizationHandler := handler.NewUtilizationHandler(utilizationService, log)
	uploadHandler := handler.NewUploadHandler(uploadService, cfg.Storage.MaxUploadBytes(), log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	auditHandler := handler.NewAuditHandler(auditLogService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		warehouseClient,
		authMiddleware,
		rateLimiter,
		auditMiddleware,
		projectHandler,
		employeeHandler,
		timesheetHandler,
		pipelineHandler,
		scenarioHandler,
		utilizationHandler,
		uploadHandler,
		dashboardHandler,
		auditHandler,
	)

	// Initialize and start scheduler for background jobs
	scheduler := jobs.NewScheduler(log)
	jobsRegistered := 0

	if cfg.Jobs.WarehouseSyncEnabled && warehouseClient.IsEnabled() {
		syncService := service.NewWarehouseSyncService(warehouseClient, employeeRepo, weeklyRepo, log)
		if err := jobs.RegisterWarehouseSyncJob(
			scheduler,
			syncService,
			cfg.Jobs.WarehouseSyncWeeks,
			log,
			cfg.Jobs.WarehouseSyncSchedule,
			cfg.DataWarehouse.QueryTimeoutDuration(),
		); err != nil {
			log.Error("Failed to register warehouse sync job", zap.Error(err))
		} else {
			jobsRegistered++
		}
	} else {
		log.Info("Warehouse sync job disabled",
			zap.Bool("sync_enabled", cfg.Jobs.WarehouseSyncEnabled),
			zap.Bool("warehouse_available", warehouseClient.IsEnabled()),
		)
	}

	if cfg.Jobs.AuditRetentionDays > 0 {
		if err := jobs.RegisterAuditPurgeJob(
			scheduler,
			auditLogService,
			cfg.Jobs.AuditRetentionDays,
			log,
			cfg.Jobs.AuditPurgeSchedule,
			5*time.Minute,
		); err != nil {
			log.Error("Failed to register audit purge job", zap.Error(err))
		} else {
			jobsRegistered++
		}
	}

	if jobsRegistered > 0 {
		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.GetJobNames()))
	} else {
		scheduler = nil
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close warehouse connection if initialized
		if warehouseClient != nil {
			if err := warehouseClient.Close(); err != nil {
				log.Warn("Error closing warehouse connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
