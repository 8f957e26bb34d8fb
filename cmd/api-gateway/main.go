package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushub/campushub-api/api/swagger"
	"github.com/campushub/campushub-api/internal/handler"
	"github.com/campushub/campushub-api/internal/middleware"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
	"github.com/campushub/campushub-api/internal/service"
	"github.com/campushub/campushub-api/pkg/cache"
	"github.com/campushub/campushub-api/pkg/config"
	"github.com/campushub/campushub-api/pkg/database"
	"github.com/campushub/campushub-api/pkg/jobs"
	"github.com/campushub/campushub-api/pkg/logger"
	corsmiddleware "github.com/campushub/campushub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushub/campushub-api/pkg/middleware/requestid"
)

// @title CampusHub API
// @version 1.0.0
// @description Enrollment, academic performance and class scheduling service
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)
	defer cacheRepo.Close()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	intakeCourseRepo := repository.NewIntakeCourseRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	resultRepo := repository.NewResultRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	lecturerRepo := repository.NewLecturerRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "campushub-api",
	})

	enrollmentSvc := service.NewEnrollmentService(studentRepo, intakeCourseRepo, cacheSvc, metricsSvc, cfg.Jobs.WorkerConcurrency, logr)
	performanceSvc := service.NewPerformanceService(service.StudentPerformanceDeps{
		Students: studentRepo,
		Results:  resultRepo,
		Courses:  courseRepo,
	}, metricsSvc, logr)
	scheduleSvc := service.NewScheduleGeneratorService(
		intakeCourseRepo, courseRepo, roomRepo, lecturerRepo, scheduleRepo,
		cacheSvc, metricsSvc,
		service.ScheduleGeneratorConfig{
			ClassesPerWeek: cfg.Scheduler.ClassesPerWeek,
			DurationWeeks:  cfg.Scheduler.DurationWeeks,
		},
		logr,
	)

	recomputeQueue := jobs.NewQueue("performance", func(ctx context.Context, job jobs.Job) error {
		studentID, ok := job.Payload.(string)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for job %s", job.Payload, job.ID)
		}
		_, err := performanceSvc.RecomputeStudent(ctx, studentID)
		return err
	}, jobs.QueueConfig{
		Workers:    cfg.Jobs.WorkerConcurrency,
		MaxRetries: cfg.Jobs.MaxRetries,
		Logger:     logr,
	})

	studentSvc := service.NewStudentService(studentRepo, intakeCourseRepo, enrollmentSvc, validate, logr)
	intakeCourseSvc := service.NewIntakeCourseService(intakeCourseRepo, courseRepo, validate, logr)
	resultSvc := service.NewResultService(resultRepo, courseRepo, studentRepo, recomputeQueue, validate, logr)
	facilitySvc := service.NewFacilityService(roomRepo, lecturerRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, metricsSvc, cfg.Dashboard.CacheTTL, logr)
	exportSvc := service.NewExportService(scheduleSvc, studentSvc, resultRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, performanceSvc, exportSvc)
	intakeCourseHandler := handler.NewIntakeCourseHandler(intakeCourseSvc, enrollmentSvc, exportSvc)
	resultHandler := handler.NewResultHandler(resultSvc, performanceSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	facilityHandler := handler.NewFacilityHandler(facilitySvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.POST("/auth/logout", authHandler.Logout)
	authed.PUT("/auth/password", authHandler.ChangePassword)
	authed.GET("/auth/me", authHandler.Me)

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleLecturer)
	admin := middleware.RequireRoles(models.RoleAdmin)

	authed.GET("/students", staff, studentHandler.List)
	authed.GET("/students/:id", staff, studentHandler.Get)
	authed.POST("/students", admin, studentHandler.Create)
	authed.PUT("/students/:id", admin, studentHandler.Update)
	authed.PATCH("/students/:id/status", admin, studentHandler.UpdateStatus)
	authed.POST("/students/:id/performance", admin, studentHandler.Recompute)
	authed.GET("/students/:id/transcript", staff, studentHandler.Transcript)

	authed.GET("/intake-courses", staff, intakeCourseHandler.List)
	authed.GET("/intake-courses/:id", staff, intakeCourseHandler.Get)
	authed.POST("/intake-courses", admin, intakeCourseHandler.Create)
	authed.PUT("/intake-courses/:id", admin, intakeCourseHandler.Update)
	authed.POST("/intake-courses/recompute-enrollments", admin, intakeCourseHandler.RecomputeEnrollments)
	authed.GET("/intake-courses/:id/timetable", staff, intakeCourseHandler.Timetable)

	authed.GET("/results", staff, resultHandler.List)
	authed.PUT("/results", staff, resultHandler.Upsert)
	authed.DELETE("/results/:id", admin, resultHandler.Delete)
	authed.POST("/results/recompute-performance", admin, resultHandler.RecomputeAll)

	authed.POST("/schedules/generate", admin, scheduleHandler.Generate)
	authed.POST("/schedules", admin, scheduleHandler.Save)
	authed.GET("/schedules/:intakeCourseId", staff, scheduleHandler.List)

	authed.GET("/courses", staff, courseHandler.List)
	authed.GET("/courses/:id", staff, courseHandler.Get)
	authed.GET("/modules", staff, courseHandler.ListModules)

	authed.GET("/rooms", staff, facilityHandler.ListRooms)
	authed.POST("/rooms", admin, facilityHandler.CreateRoom)
	authed.PATCH("/rooms/:id/status", admin, facilityHandler.UpdateRoomStatus)
	authed.GET("/lecturers", staff, facilityHandler.ListLecturers)
	authed.POST("/lecturers", admin, facilityHandler.CreateLecturer)
	authed.PATCH("/lecturers/:id/active", admin, facilityHandler.UpdateLecturerActive)

	if cfg.Dashboard.Enabled {
		authed.GET("/dashboard/summary", staff, dashboardHandler.Summary)
	}
	authed.GET("/metrics/snapshot", admin, metricsHandler.Snapshot)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recomputeQueue.Start(ctx)
	defer recomputeQueue.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
