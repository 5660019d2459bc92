package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutoring-schedule-api/api/swagger"
	"github.com/noah-isme/tutoring-schedule-api/internal/handler"
	"github.com/noah-isme/tutoring-schedule-api/internal/middleware"
	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/service"
	"github.com/noah-isme/tutoring-schedule-api/pkg/config"
	"github.com/noah-isme/tutoring-schedule-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutoring-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutoring-schedule-api/pkg/middleware/requestid"
)

type handlers struct {
	schedules *handler.ScheduleHandler
	freeSlots *handler.FreeSlotHandler
	reports   *handler.ReportHandler
	postponed *handler.PostponedEventHandler
	cache     *handler.CacheHandler
	metrics   *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(corsmiddleware.Options{AllowedOrigins: cfg.CORS.AllowedOrigins}))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.metrics.Health)
	r.GET("/metrics", h.metrics.Prometheus)
	r.GET("/feeds/:token", h.schedules.SubscribedFeed)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staff := []string{string(models.RoleAdmin), string(models.RoleTeacher)}
	staffOrSelf := middleware.RBAC(append(staff, middleware.Self)...)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(auth), middleware.WithResponseMeta())

	students := api.Group("/students/:id", staffOrSelf)
	students.GET("/schedule", h.schedules.StudentSchedule)
	students.GET("/calendar.ics", h.schedules.StudentCalendar)
	students.GET("/calendar-link", h.schedules.CalendarLink)
	students.GET("/free-slots", h.freeSlots.StudentFreeSlots)
	students.GET("/session-number", h.reports.SessionNumber)
	students.GET("/reports", h.reports.ListByStudent)
	students.GET("/reports/export", h.reports.Export)

	api.GET("/teachers/:id/free-slots", h.freeSlots.TeacherFreeSlots)
	api.POST("/postponed-events", h.postponed.Create)
	api.POST("/reports", middleware.RBAC(staff...), h.reports.Create)
	api.POST("/cache/clear", middleware.RequireRoles(models.RoleAdmin), h.cache.Clear)

	return r
}
