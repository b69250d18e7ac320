package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobboard-backend/config"
	_ "go-jobboard-backend/docs" // Important for Swagger
	"go-jobboard-backend/internal/delivery/http/middleware"
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/event"
	"go-jobboard-backend/internal/repository/cache"
	"go-jobboard-backend/internal/repository/postgres"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/database"
	"go-jobboard-backend/pkg/email"
	"go-jobboard-backend/pkg/logger"
	pkgredis "go-jobboard-backend/pkg/redis"
	"go-jobboard-backend/pkg/security"

	eredis "github.com/ecodeclub/ecache/redis"
	"github.com/ecodeclub/mq-api/kafka"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Job Board API
// @version         1.0
// @description     Employers post jobs, developers apply, employers review applicants.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting job board backend", "port", cfg.Port, "environment", cfg.Environment)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.Migrate(ctx, dbPool); err != nil {
		logger.Log.Error("Failed to apply schema", "error", err)
		os.Exit(1)
	}

	// 4. Setup Redis (optional)
	redisClient := setupRedis(ctx, cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// 5. Security logging
	zapLogger := security.NewZapLogger()
	defer zapLogger.Sync()
	secLogger := security.NewSecurityLogger(zapLogger, "jobboard-api", cfg.Environment)
	if cfg.SecurityLogToDB {
		secLogger.SetPersistFunc(security.NewPersistFunc(dbPool))
	}

	// 6. Setup Repositories
	var userRepo domain.UserRepository = postgres.NewUserRepository(dbPool)
	if redisClient != nil {
		userRepo = cache.NewCachedUserRepository(userRepo, cache.NewUserECache(eredis.NewCache(redisClient)))
	}
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 7. Domain events
	events := setupEvents(ctx, cfg)
	emailService := email.NewEmailService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if emailService.IsConfigured() {
		events = event.NewStatusNotifier(events, userRepo, jobRepo, emailService)
	} else {
		logger.Log.Warn("Email service not configured - status update emails disabled")
	}

	// 8. Setup UseCases
	tracker := security.NewLoginTracker(redisClient, security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		UseIPTracking: true,
	}, secLogger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	authUC := usecase.NewAuthUsecase(userRepo, tokens, tracker, secLogger)
	jobUC := usecase.NewJobUsecase(jobRepo)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, events)
	healthUC := usecase.NewHealthUsecase(healthChecks(dbPool, redisClient))

	// 9. Rate limiting
	rateLimiter := middleware.NewRateLimiter(redisClient, secLogger)
	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	rateLimiter.StartCleanup(cleanupCtx, time.Minute)

	// 10. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 11. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		HealthUC:      healthUC,
		SecLogger:     secLogger,
		RateLimiter:   rateLimiter,
		Metrics:       registry,
		Config:        cfg,
	})

	// 12. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// setupRedis returns nil when Redis is not configured or unreachable; every
// consumer falls back to in-process behavior.
func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := pkgredis.NewClient(ctx, pkgredis.Config{
		URL:      cfg.RedisURL,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		if !errors.Is(err, pkgredis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, continuing without it", "error", err)
		}
		return nil
	}
	logger.Log.Info("Connected to Redis")
	return client
}

func setupEvents(ctx context.Context, cfg *config.Config) domain.ApplicationEventPublisher {
	if len(cfg.KafkaAddresses) == 0 {
		logger.Log.Info("KAFKA_ADDRESSES not set, application events disabled")
		return event.NewNopPublisher()
	}

	q, err := kafka.NewMQ("tcp", cfg.KafkaAddresses)
	if err != nil {
		logger.Log.Warn("Kafka unavailable, application events disabled", "error", err)
		return event.NewNopPublisher()
	}

	topicCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := q.CreateTopic(topicCtx, cfg.KafkaTopic, 1); err != nil {
		// usually the topic already exists
		logger.Log.Warn("Failed to create Kafka topic", "topic", cfg.KafkaTopic, "error", err)
	}

	publisher, err := event.NewApplicationEventProducer(q, cfg.KafkaTopic)
	if err != nil {
		logger.Log.Warn("Failed to create event producer, application events disabled", "error", err)
		return event.NewNopPublisher()
	}
	return publisher
}

func healthChecks(dbPool *pgxpool.Pool, redisClient *goredis.Client) map[string]usecase.HealthCheck {
	checks := map[string]usecase.HealthCheck{
		"database": dbPool.Ping,
		"redis":    nil,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return pkgredis.HealthCheck(ctx, redisClient)
		}
	}
	return checks
}
