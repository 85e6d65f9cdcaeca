package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fraudBench/app/echo-server/router"
	"fraudBench/business/dataset"
	"fraudBench/business/leaderboard"
	"fraudBench/business/quota"
	"fraudBench/business/submission"
	userService "fraudBench/business/user"
	"fraudBench/internal/middleware"
	psqlRepo "fraudBench/internal/repository/postgres"
	redisRepo "fraudBench/internal/repository/redis"
	"fraudBench/internal/rest"
	"fraudBench/pkg/config"
	"fraudBench/pkg/database"
	redisdb "fraudBench/pkg/database/redis"
	"fraudBench/pkg/logger"
	"fraudBench/pkg/metrics"
	"fraudBench/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting FraudBench", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Redis close error", err)
		}
	}()

	// Reference dataset is a cold-start dependency: no dataset, no traffic.
	reference, err := dataset.LoadReferenceSet(cfg.Competition.DatasetPath)
	if err != nil {
		logger.Fatal("Failed to load reference dataset", "error", err)
	}

	logger.Info("Reference dataset loaded",
		"path", cfg.Competition.DatasetPath,
		"rows", reference.Len(),
		"aligned_by_transaction_id", reference.HasTransactionIDs(),
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	scoreRepo := psqlRepo.NewScoreRepository(db)
	quotaRepo := psqlRepo.NewQuotaRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)
	leaderboardCache := redisRepo.NewLeaderboardCache(
		redisClient,
		time.Duration(cfg.Competition.LeaderboardCacheTTLs)*time.Second,
	)

	// Init service
	usrService := userService.NewUserService(userRepo, tokenRepo, validate)
	quotaService := quota.NewService(quotaRepo, cfg.Competition.DailyUploadLimit)
	submissionService := submission.NewSubmissionService(scoreRepo, quotaService, reference)
	leaderboardService := leaderboard.NewLeaderboardService(scoreRepo, userRepo, leaderboardCache)

	// Daily quota reset, cancelled on shutdown
	resetScheduler := quota.NewResetScheduler(quotaRepo)
	resetScheduler.Start(context.Background())
	defer resetScheduler.Stop()

	// Init handler
	userHandler := rest.NewUserHandler(usrService)
	submissionHandler := rest.NewSubmissionHandler(submissionService, cfg.Competition.MaxUploadSizeMB)
	leaderboardHandler := rest.NewLeaderboardHandler(leaderboardService)
	healthHandler := rest.NewHealthHandler(db, redisClient)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler(cfg.App.Environment)

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dM", cfg.Competition.MaxUploadSizeMB)))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware backed by the Redis session store
	authRequired := middleware.AuthMiddlewareWithRedis(usrService)

	// Setup routes
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupCompetitionRoutes(api, submissionHandler, leaderboardHandler, authRequired)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
