package main // Entry point for the seat allocation API server

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/deskatlas/seat-allocation/internal/config"
	"github.com/deskatlas/seat-allocation/internal/database"
	"github.com/deskatlas/seat-allocation/internal/handler"
	"github.com/deskatlas/seat-allocation/internal/middleware"
	"github.com/deskatlas/seat-allocation/internal/queue"
	"github.com/deskatlas/seat-allocation/internal/repository"
	"github.com/deskatlas/seat-allocation/internal/router"
	"github.com/deskatlas/seat-allocation/internal/service"
	"github.com/deskatlas/seat-allocation/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Blob store is optional: without it the API still runs, but exports and
	// retention refuse to archive.
	var store *storage.Store
	if cfg.ExportBucketURL != "" {
		store, err = storage.Open(ctx, cfg.ExportBucketURL)
		if err != nil {
			log.Fatalf("blob store: %v", err)
		}
		defer store.Close()
	} else {
		log.Printf("no export bucket configured; exports disabled")
	}

	seatRepo := repository.NewSeatRepo(db)
	floorRepo := repository.NewFloorRepo(db)
	userRepo := repository.NewUserRepo(db)
	assignmentRepo := repository.NewAssignmentRepo(db)
	auditRepo := repository.NewAuditLogRepo(db)
	exportLogRepo := repository.NewExportLogRepo(db)
	analyticsRepo := repository.NewAnalyticsRepo(db)

	assignments := service.NewAssignmentService(db, seatRepo, assignmentRepo, auditRepo, queue.PublishSeatEvent)
	allocations := service.NewAllocationService(db, seatRepo, floorRepo, userRepo, assignments)
	audit := service.NewAuditService(auditRepo, seatRepo, floorRepo, exportLogRepo, cfg.ExportCooldown)
	exports := service.NewExportService(auditRepo, exportLogRepo, store, cfg.ExportCooldown)
	retention := service.NewRetentionService(auditRepo, store, cfg.RetentionDays, cfg.ExportPrefix)
	seats := service.NewSeatService(seatRepo, floorRepo)
	analytics := service.NewAnalyticsService(analyticsRepo)

	// The consumer mirrors committed seat events into logs/seat-events.log.
	go func() {
		if err := queue.StartSeatEventConsumer(); err != nil {
			log.Printf("seat-consumer: %v", err)
		}
	}()

	// Scheduled retention shares the single-flight service with the manual
	// admin trigger.
	go retention.StartScheduler(ctx, cfg.RetentionEvery)

	rdb := config.NewRedisClient()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Handlers{
		Assignments: handler.NewAssignmentHandler(assignments),
		Allocations: handler.NewAllocationHandler(allocations),
		Audit:       handler.NewAuditHandler(audit),
		Exports:     handler.NewExportHandler(exports),
		Retention:   handler.NewRetentionHandler(retention),
		Seats:       handler.NewSeatHandler(seats),
		Analytics:   handler.NewAnalyticsHandler(analytics),
	}, cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
