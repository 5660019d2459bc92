package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/handler"
	"github.com/noah-isme/tutoring-schedule-api/internal/repository"
	"github.com/noah-isme/tutoring-schedule-api/internal/scheduling"
	"github.com/noah-isme/tutoring-schedule-api/internal/service"
	"github.com/noah-isme/tutoring-schedule-api/pkg/cache"
	"github.com/noah-isme/tutoring-schedule-api/pkg/config"
	"github.com/noah-isme/tutoring-schedule-api/pkg/database"
	"github.com/noah-isme/tutoring-schedule-api/pkg/export"
	"github.com/noah-isme/tutoring-schedule-api/pkg/jobs"
	"github.com/noah-isme/tutoring-schedule-api/pkg/logger"
	"github.com/noah-isme/tutoring-schedule-api/pkg/signedurl"
)

// @title Tutoring Schedule API
// @version 1.0.0
// @description Availability and booking engine for one-to-one tutoring.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database, logr)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.Cache)
	if err != nil {
		return err
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	scheduleRepo := repository.NewScheduleRepository(db, logr)
	reportRepo := repository.NewReportRepository(db)
	freeSlotRepo := repository.NewFreeSlotRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	engine := scheduling.NewEngine(scheduling.Options{
		Location:       cfg.Schedule.Location,
		LookaheadWeeks: cfg.Schedule.LookaheadWeeks,
		MinSlotMinutes: cfg.Schedule.MinSlotMinutes,
	}, logr)

	validate := validator.New()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, redisClient != nil)
	authSvc := service.NewAuthService(cfg.JWT.Secret)

	scheduleSvc := service.NewScheduleService(scheduleRepo, reportRepo, profileRepo, engine, cacheSvc, metrics, logr, cfg.Schedule.DefaultLessonMinutes)
	freeSlotSvc := service.NewFreeSlotService(freeSlotRepo, scheduleRepo, reportRepo, profileRepo, engine, cacheSvc, metrics, logr, cfg.Schedule.DefaultLessonMinutes)
	reportSvc := service.NewReportService(reportRepo, profileRepo, cacheSvc, validate, logr)
	if cfg.Export.PDFFontPath != "" {
		reportSvc.UseExporter(export.NewPDFExporter(cfg.Export.PDFFontPath))
	}
	postponedSvc := service.NewPostponedEventService(scheduleRepo, profileRepo, cacheSvc, validate, logr, cfg.Schedule.DefaultPostponedMinutes)
	calendarSvc := service.NewCalendarFeedService(scheduleSvc, signedurl.NewSigner(cfg.Feed.Secret, cfg.Feed.LinkTTL), "-//Tutoring Schedule API//EN")

	scheduler := jobs.NewScheduler(jobs.SchedulerConfig{Location: cfg.Schedule.Location, Timeout: time.Minute, Logger: logr})
	if cacheSvc.Enabled() && cfg.Cache.FlushCron != "" {
		if err := scheduler.Register("cache-flush", cfg.Cache.FlushCron, cacheSvc.Flush); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		scheduler.Stop(stopCtx)
	}()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := []handler.ReadinessCheck{{Name: "postgres", Ping: db.PingContext}}
	if redisClient != nil {
		checks = append(checks, handler.ReadinessCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}

	router := newRouter(cfg, logr, authSvc, metrics, handlers{
		schedules: handler.NewScheduleHandler(scheduleSvc, calendarSvc),
		freeSlots: handler.NewFreeSlotHandler(freeSlotSvc),
		reports:   handler.NewReportHandler(reportSvc),
		postponed: handler.NewPostponedEventHandler(postponedSvc),
		cache:     handler.NewCacheHandler(cacheSvc, logr),
		metrics:   handler.NewMetricsHandler(metrics.Handler(), checks...),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
