package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/campuslab/lab-seat-service/internal/assign"
	"github.com/campuslab/lab-seat-service/internal/clock"
	"github.com/campuslab/lab-seat-service/internal/config"
	"github.com/campuslab/lab-seat-service/internal/database"
	"github.com/campuslab/lab-seat-service/internal/handler"
	"github.com/campuslab/lab-seat-service/internal/middleware"
	"github.com/campuslab/lab-seat-service/internal/model"
	"github.com/campuslab/lab-seat-service/internal/queue"
	"github.com/campuslab/lab-seat-service/internal/release"
	"github.com/campuslab/lab-seat-service/internal/repository"
	"github.com/campuslab/lab-seat-service/internal/roster"
	"github.com/campuslab/lab-seat-service/internal/router"
	"github.com/campuslab/lab-seat-service/internal/schedule"
	queue_publisher "github.com/campuslab/lab-seat-service/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the vars
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	clk, err := clock.NewZone(cfg.LabTimezone)
	if err != nil {
		log.Fatalf("clock: %v", err)
	}

	// Repositories
	seatRepo := repository.NewSeatRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)
	assignmentRepo := repository.NewAssignmentRepo(db)
	studentRepo := repository.NewStudentRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	// Engine
	matcher := schedule.NewMatcher(scheduleRepo, clk)
	verifier := roster.NewVerifier(studentRepo, cfg.VerifyTimeout)
	coordinator := assign.NewCoordinator(verifier, matcher, seatRepo, assignmentRepo, clk)
	coordinator.OnAssigned = func(ctx context.Context, a model.Assignment) {
		// Audit event; a broker outage must not fail the assignment.
		go func(ev queue.SeatAssignedEvent) {
			_ = queue_publisher.PublishSeatAssigned(context.Background(), ev)
		}(queue.SeatAssignedEvent{
			AssignmentID: a.ID,
			StudentID:    a.StudentID,
			StudentName:  a.StudentName,
			Program:      a.Program,
			Lab:          a.Lab,
			Seat:         a.SeatKey(),
			Subject:      a.Subject,
			Instructor:   a.Instructor,
			WindowStart:  a.WindowStart,
			WindowEnd:    a.WindowEnd,
			AssignedAt:   a.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	// Release loop
	releaser := release.NewScheduler(matcher, seatRepo, assignmentRepo, clk, cfg.ReleaseEvery)
	releaser.OnReleased = func(ctx context.Context, lab, subject string, count int, at time.Time) {
		go func(ev queue.LabReleasedEvent) {
			_ = queue_publisher.PublishLabReleased(context.Background(), ev)
		}(queue.LabReleasedEvent{
			Lab:           lab,
			Subject:       subject,
			ReleasedCount: count,
			ReleasedAt:    at.Format("2006-01-02 15:04"),
		})
	}

	e := echo.New()
	e.HideBanner = true

	// Redis-backed middleware degrades to no-ops when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: response cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	labs := cfg.LabSet()
	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	seatH := handler.NewSeatHandler(seatRepo, labs)
	scheduleH := handler.NewScheduleHandler(scheduleRepo, matcher, labs)
	studentH := handler.NewStudentHandler(verifier)
	assignH := handler.NewAssignmentHandler(coordinator, assignmentRepo, seatRepo, clk, labs)
	timeH := &handler.TimeHandler{Clk: clk}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, seatH, scheduleH, studentH, assignH, timeH, cacheMW, limitMW)
	router.RegisterStaff(e, seatH, scheduleH, assignH, cfg.JWTSecret)

	// Background workers
	go releaser.Run(context.Background())
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, labs=%v, tz=%s)", addr, cfg.Env, cfg.LabIDs, cfg.LabTimezone)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
