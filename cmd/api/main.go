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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yourusername/nback-api/internal/config"
	"github.com/yourusername/nback-api/internal/handler"
	"github.com/yourusername/nback-api/internal/middleware"
	pgRepo "github.com/yourusername/nback-api/internal/repository/postgres"
	"github.com/yourusername/nback-api/internal/service"
	"github.com/yourusername/nback-api/pkg/auth"
	"github.com/yourusername/nback-api/pkg/database"
	"github.com/yourusername/nback-api/pkg/logger"
)

func main() {
	// .env необязателен, переменные окружения имеют приоритет
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Printf("Failed to init logger: %v", err)
		os.Exit(1)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	zlog.Info("configuration loaded",
		zap.String("database_host", cfg.Database.Host),
		zap.String("database_name", cfg.Database.DBName),
		zap.Bool("redis_enabled", cfg.Redis.Enabled()),
		zap.Bool("email_enabled", cfg.Email.Enabled()),
		zap.Int("jwt_expiration_hrs", cfg.JWT.ExpirationHrs),
		zap.Bool("restrict_listings", cfg.Auth.RestrictListings),
		zap.String("port", cfg.Server.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем подключение к PostgreSQL
	gormLevel := gormlogger.Warn
	if cfg.Log.Development {
		gormLevel = gormlogger.Info
	}
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), gormLevel)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Применяем миграции
	if err := database.MigrateDB(db, database.DefaultMigrationsSource, zlog); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Redis нужен только для ограничения частоты запросов
	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.Enabled() {
		var redisClient redis.UniversalClient
		redisClient, err = database.NewUniversalRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		rateLimiter = middleware.NewRateLimiter(redisClient, zlog)
		zlog.Info("connected to Redis, auth rate limiting enabled")
	} else {
		zlog.Info("Redis is not configured, auth rate limiting disabled")
	}

	// Репозитории
	userRepo := pgRepo.NewUserRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cfg.JWT.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize JWTService: %w", err)
	}

	var mailer service.Mailer = service.NewNoopMailer(zlog)
	if cfg.Email.Enabled() {
		resendMailer, err := service.NewResendMailer(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			return fmt.Errorf("failed to initialize mailer: %w", err)
		}
		mailer = resendMailer
	}

	// Сервисы
	authService, err := service.NewAuthService(userRepo, jwtService, mailer, zlog)
	if err != nil {
		return err
	}
	resultService, err := service.NewResultService(resultRepo, cfg.Results.RecentLimit, zlog)
	if err != nil {
		return err
	}

	// Инициализируем роутер Gin
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(zlog))

	// В production не доверяем прокси-заголовкам
	trusted := []string{"127.0.0.1", "::1"}
	if gin.Mode() == gin.ReleaseMode {
		trusted = nil
	}
	if err := router.SetTrustedProxies(trusted); err != nil {
		zlog.Warn("failed to set trusted proxies", zap.Error(err))
	}

	corsConfig := cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.AuthTokenHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	handler.Routes{
		Auth:             handler.NewAuthHandler(authService, zlog),
		Results:          handler.NewResultHandler(resultService, zlog),
		Health:           handler.NewHealthHandler(db),
		AuthMiddleware:   middleware.NewAuthMiddleware(authService, cfg.Auth.AdminUserIDs, zlog),
		RateLimiter:      rateLimiter,
		RateLimit:        middleware.AuthRateLimitConfig(cfg.Auth.RateLimit.MaxRequests, cfg.Auth.RateLimit.WindowSec),
		RestrictListings: cfg.Auth.RestrictListings,
		RecentLimit:      cfg.Results.RecentLimit,
	}.Register(router)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		zlog.Info("shutting down server", zap.String("signal", sig.String()))
	}

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zlog.Info("server exited properly")
	return nil
}
