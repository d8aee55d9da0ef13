package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"lead-backend/internal/auth"
	"lead-backend/internal/cache"
	"lead-backend/internal/config"
	"lead-backend/internal/database"
	"lead-backend/internal/db"
	"lead-backend/internal/handlers"
	"lead-backend/internal/health"
	h "lead-backend/internal/http"
	"lead-backend/internal/middleware"
	"lead-backend/internal/monitoring"
	"lead-backend/internal/repositories"
	"lead-backend/internal/services"
	"lead-backend/internal/storage"
	"lead-backend/migrations"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	if err := cache.Init(); err != nil {
		log.Printf("[Main] Redis unavailable, caching disabled: %v", err)
	}

	ctx := context.Background()
	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// Monitoring dashboard on its own port
	go monitoring.NewMonitoringServer(pool, cfg.Server.MonitoringPort).Start()

	jwtManager := auth.NewJWTManager(cfg)
	archive := storage.NewArchiveClient(cfg)

	// Services
	buyerService := services.NewBuyerService(pool)
	userService := services.NewUserService(pool, jwtManager)
	importService := services.NewImportService(buyerService)
	exportService := services.NewExportService(pool, archive)
	dashboardService := services.NewDashboardService(pool)
	reportService := services.NewReportService(buyerService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	buyerHandler := handlers.NewBuyerHandler(buyerService)
	historyHandler := handlers.NewBuyerHistoryHandler(buyerService)
	importExportHandler := handlers.NewImportExportHandler(importService, exportService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, repositories.NewUserRepository(pool))
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		userHandler,
		buyerHandler,
		historyHandler,
		importExportHandler,
		dashboardHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Main] Lead backend listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
