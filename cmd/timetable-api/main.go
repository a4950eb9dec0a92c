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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acadplan/timetable-api/api/swagger"
	"github.com/acadplan/timetable-api/internal/engine"
	"github.com/acadplan/timetable-api/internal/handler"
	"github.com/acadplan/timetable-api/internal/repository"
	"github.com/acadplan/timetable-api/internal/service"
	"github.com/acadplan/timetable-api/pkg/cache"
	"github.com/acadplan/timetable-api/pkg/config"
	"github.com/acadplan/timetable-api/pkg/database"
	"github.com/acadplan/timetable-api/pkg/logger"
	corsmiddleware "github.com/acadplan/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadplan/timetable-api/pkg/middleware/requestid"
)

// @title AcadPlan Timetable API
// @version 1.0.0
// @description Timetable generation engine for academic periods
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var runStore service.RunStore
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, run records kept in memory", "error", err)
		runStore = service.NewMemoryRunStore()
	} else {
		defer redisClient.Close()
		runStore = service.NewRedisRunStore(redisClient, cfg.Generator.RunTTL)
	}

	catalogRepo := repository.NewCatalogRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	directory := struct {
		*repository.TeacherRepository
		*repository.RoomRepository
	}{teacherRepo, roomRepo}

	generator := engine.New(catalogRepo, directory, slotRepo, availabilityRepo, ruleRepo, assignmentRepo, engine.Config{
		SessionHours:      cfg.Generator.SessionHours,
		DefaultDailyHours: cfg.Generator.DefaultDailyHours,
	})

	validate := validator.New()
	metrics := service.NewMetricsService()
	generationSvc := service.NewGenerationService(generator, runStore, metrics, logr, cfg.Generator)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, validate, logr)
	exportSvc := service.NewExportService(assignmentRepo, validate, logr, cfg.Export.Enabled)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generationSvc.Start(rootCtx)
	defer generationSvc.Stop()

	timetableHandler := handler.NewTimetableHandler(generationSvc, assignmentSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(func(c *gin.Context) {
		started := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(started))
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		timetable := api.Group("/timetable")
		timetable.POST("/periods/:id/generate", timetableHandler.GeneratePeriod)
		timetable.POST("/periods/:id/cycles/:cycle/generate", timetableHandler.GenerateCycle)
		timetable.POST("/groups/:id/generate", timetableHandler.GenerateGroup)
		timetable.GET("/runs/:id", timetableHandler.GetRun)
		timetable.GET("/periods/:id/assignments", timetableHandler.ListPeriodAssignments)
		timetable.GET("/periods/:id/teachers/:teacherId/assignments", timetableHandler.ListTeacherAssignments)
		timetable.GET("/groups/:id/assignments", timetableHandler.ListGroupAssignments)
		timetable.GET("/periods/:id/export", exportHandler.ExportPeriod)
		timetable.GET("/groups/:id/export", exportHandler.ExportGroup)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
