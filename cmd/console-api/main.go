package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jrvillar/campus-console-api/api/swagger"
	"github.com/jrvillar/campus-console-api/internal/handler"
	"github.com/jrvillar/campus-console-api/internal/middleware"
	"github.com/jrvillar/campus-console-api/internal/models"
	"github.com/jrvillar/campus-console-api/internal/repository"
	"github.com/jrvillar/campus-console-api/internal/service"
	"github.com/jrvillar/campus-console-api/pkg/cache"
	"github.com/jrvillar/campus-console-api/pkg/config"
	"github.com/jrvillar/campus-console-api/pkg/database"
	"github.com/jrvillar/campus-console-api/pkg/logger"
	corsmiddleware "github.com/jrvillar/campus-console-api/pkg/middleware/cors"
	reqidmiddleware "github.com/jrvillar/campus-console-api/pkg/middleware/requestid"
)

// @title Campus Console API
// @version 1.0.0
// @description Course schedule, curriculum, and enrollment backend for the campus admin console
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	programRepo := repository.NewProgramRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled)
	catalogSvc := service.NewCatalogService(sectionRepo, cacheSvc, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     "campus-console-api",
	})
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	facultySvc := service.NewFacultyService(facultyRepo, validate, logr)
	programSvc := service.NewProgramService(programRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, catalogSvc, validate, logr)
	sectionSvc := service.NewSectionService(sectionRepo, catalogSvc, validate, logr)
	curriculumSvc := service.NewCurriculumService(curriculumRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, catalogSvc, curriculumSvc, studentRepo, cfg.Enrollment.MaxBulkSelections, validate, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	programHandler := handler.NewProgramHandler(programSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	sectionHandler := handler.NewSectionHandler(sectionSvc)
	curriculumHandler := handler.NewCurriculumHandler(curriculumSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	authed.GET("/students", staff, studentHandler.List)
	authed.GET("/students/:id", middleware.RBAC(string(models.RoleAdmin), string(models.RoleRegistrar), middleware.SelfRole), studentHandler.Get)
	authed.POST("/students", staff, studentHandler.Create)
	authed.PUT("/students/:id", staff, studentHandler.Update)
	authed.GET("/students/:id/available-courses", middleware.RBAC(string(models.RoleAdmin), string(models.RoleRegistrar), middleware.SelfRole), enrollmentHandler.AvailableCourses)

	authed.GET("/faculty", staff, facultyHandler.List)
	authed.GET("/faculty/:id", staff, facultyHandler.Get)
	authed.POST("/faculty", adminOnly, facultyHandler.Create)
	authed.PUT("/faculty/:id", adminOnly, facultyHandler.Update)
	authed.DELETE("/faculty/:id", adminOnly, facultyHandler.Delete)

	authed.GET("/programs", programHandler.List)
	authed.GET("/programs/:id", programHandler.Get)
	authed.POST("/programs", adminOnly, programHandler.Create)
	authed.PUT("/programs/:id", adminOnly, programHandler.Update)
	authed.DELETE("/programs/:id", adminOnly, programHandler.Delete)

	authed.GET("/courses", courseHandler.List)
	authed.GET("/courses/:id", courseHandler.Get)
	authed.POST("/courses", staff, courseHandler.Create)
	authed.PUT("/courses/:id", staff, courseHandler.Update)
	authed.DELETE("/courses/:id", adminOnly, courseHandler.Delete)

	authed.GET("/sections", sectionHandler.List)
	authed.GET("/sections/:id", sectionHandler.Get)
	authed.POST("/sections", staff, sectionHandler.Create)
	authed.PUT("/sections/:id", staff, sectionHandler.Update)
	authed.DELETE("/sections/:id", adminOnly, sectionHandler.Delete)
	authed.POST("/sections/:id/slots", staff, sectionHandler.AddSlot)
	authed.PUT("/sections/:id/slots/:slotId", staff, sectionHandler.UpdateSlot)
	authed.DELETE("/sections/:id/slots/:slotId", staff, sectionHandler.DeleteSlot)

	authed.GET("/curricula", curriculumHandler.List)
	authed.GET("/curricula/:id/requirements", curriculumHandler.Requirements)
	authed.PUT("/curricula/:id/requirements", staff, curriculumHandler.SetRequirements)

	authed.GET("/enrollments", staff, enrollmentHandler.List)
	authed.POST("/enrollments", staff, enrollmentHandler.Enroll)
	authed.POST("/enrollments/bulk", staff, enrollmentHandler.BulkEnroll)
	authed.DELETE("/enrollments/:id", staff, enrollmentHandler.Drop)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
