package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/acadport/acadport-api/api/swagger"
	"github.com/acadport/acadport-api/internal/genai"
	"github.com/acadport/acadport-api/internal/handler"
	"github.com/acadport/acadport-api/internal/middleware"
	"github.com/acadport/acadport-api/internal/models"
	"github.com/acadport/acadport-api/internal/repository"
	"github.com/acadport/acadport-api/internal/service"
	"github.com/acadport/acadport-api/pkg/cache"
	"github.com/acadport/acadport-api/pkg/config"
	"github.com/acadport/acadport-api/pkg/database"
	"github.com/acadport/acadport-api/pkg/logger"
	corsmiddleware "github.com/acadport/acadport-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadport/acadport-api/pkg/middleware/requestid"
	"github.com/acadport/acadport-api/pkg/storage"
)

// csvRefs bridges the student and subject repositories into the single
// lookup surface the CSV ingestion service expects.
type csvRefs struct {
	students *repository.StudentRepository
	subjects *repository.SubjectRepository
}

func (r csvRefs) ListStudentRefs(ctx context.Context, departmentID string) ([]models.StudentRef, error) {
	return r.students.ListRefsByDepartment(ctx, departmentID)
}

func (r csvRefs) ListSubjectRefs(ctx context.Context, departmentID string) ([]models.SubjectRef, error) {
	return r.subjects.ListRefsByDepartment(ctx, departmentID)
}

// sweepStorage prunes stored files past their retention age twice a day.
func sweepStorage(logr *zap.Logger, name string, store *storage.LocalStorage, retention time.Duration) {
	if retention <= 0 {
		return
	}
	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		deleted, err := store.CleanupOlderThan(retention)
		if err != nil {
			logr.Warn("storage cleanup failed", zap.String("store", name), zap.Error(err))
			continue
		}
		if len(deleted) > 0 {
			logr.Info("storage cleanup", zap.String("store", name), zap.Int("deleted", len(deleted)))
		}
	}
}

// @title AcadPort API
// @version 0.1.0
// @description Department portal for marks, attendance, and the academic assistant
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	assistantRepo := repository.NewAssistantRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Cache is optional; the portal serves uncached when Redis is down.
	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient))
	}

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Fatal("failed to init upload storage", zap.Error(err))
	}
	reportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init report storage", zap.Error(err))
	}

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "acadport-api",
	})
	studentSvc := service.NewStudentService(studentRepo, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, userRepo, nil, logr)

	refs := csvRefs{students: studentRepo, subjects: subjectRepo}
	var (
		uploadSvc    *service.AttendanceUploadService
		dashboardSvc *service.DashboardService
	)
	if cacheSvc != nil {
		uploadSvc = service.NewAttendanceUploadService(attendanceRepo, refs, uploadStore, cacheSvc, metricsSvc, logr)
		dashboardSvc = service.NewDashboardService(dashboardRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	} else {
		uploadSvc = service.NewAttendanceUploadService(attendanceRepo, refs, uploadStore, nil, metricsSvc, logr)
		dashboardSvc = service.NewDashboardService(dashboardRepo, nil, cfg.Dashboard.CacheTTL, logr)
	}
	reportSvc := service.NewReportService(dashboardRepo, reportStore, logr)

	var assistantSvc *service.AssistantService
	if cfg.Assistant.Enabled {
		completer, err := genai.NewOpenAIChatCompleter(cfg.Assistant, logr)
		if err != nil {
			logr.Warn("assistant disabled", zap.Error(err))
		} else {
			contextSvc := service.NewContextService(assistantRepo, logr)
			assistantSvc = service.NewAssistantService(contextSvc, completer, cfg.Assistant, metricsSvc, logr)
		}
	}

	go sweepStorage(logr, "uploads", uploadStore, cfg.Uploads.Retention)
	go sweepStorage(logr, "reports", reportStore, cfg.Reports.Retention)

	// Router.
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
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	attendanceHandler := handler.NewAttendanceHandler(uploadSvc, cfg.Uploads.MaxFileSizeBytes)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	reportHandler := handler.NewReportHandler(reportSvc)

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/students", studentHandler.List)
		authed.GET("/students/:id", studentHandler.Get)

		authed.GET("/subjects", subjectHandler.List)

		authed.POST("/attendance/upload", middleware.RequireRoles(models.RoleTeacher), attendanceHandler.Upload)
		authed.GET("/attendance/uploads", attendanceHandler.History)

		if cfg.Dashboard.Enabled {
			authed.GET("/dashboard", dashboardHandler.Overview)
		}
		if cfg.Reports.Enabled {
			authed.GET("/reports/attendance", reportHandler.AttendanceOverview)
		}

		if assistantSvc != nil {
			assistantHandler := handler.NewAssistantHandler(assistantSvc)
			authed.POST("/assistant/ask", assistantHandler.Ask)
		}

		admin := authed.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/teachers", subjectHandler.Teachers)
			admin.POST("/subjects", subjectHandler.Create)
			admin.PUT("/subjects/:id", subjectHandler.Update)
			admin.DELETE("/subjects/:id", subjectHandler.Delete)
			admin.PUT("/subjects/:id/teacher", subjectHandler.AssignTeacher)
			admin.DELETE("/subjects/:id/teacher", subjectHandler.RemoveTeacher)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
