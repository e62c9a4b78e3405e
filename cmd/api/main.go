package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"steamx-api/internal/config"
	"steamx-api/internal/db"
	apihttp "steamx-api/internal/http"
	"steamx-api/internal/rag"
	"steamx-api/internal/repository"
	"steamx-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	if cfg.Environment == "development" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	sessionRepo := repository.NewPgChatSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	feedbackRepo := repository.NewPgFeedbackRepository(pool)

	var revocationStore service.RevocationStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			revocationStore = service.NewRedisRevocationStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMin)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLDays)*24*time.Hour,
		revocationStore,
	)
	hasher := service.NewPasswordHasher()
	googleVerifier := service.NewGoogleVerifier(logger, cfg.GoogleClientID)
	if cfg.GoogleClientID == "" {
		logger.Warn("google client id not configured")
	}
	ragClient := rag.NewHTTPClient(cfg.RAGAPIURL, cfg.RAGAPIKey, logger)

	authSvc := service.NewAuthService(logger, userRepo, hasher, jwtSvc, googleVerifier)
	userSvc := service.NewUserService(logger, userRepo, sessionRepo, messageRepo)
	chatSvc := service.NewChatService(logger, sessionRepo, messageRepo, ragClient)

	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	userHandler := apihttp.NewUserHandler(logger, userSvc)
	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	feedbackHandler := apihttp.NewFeedbackHandler(logger, feedbackRepo)

	router := apihttp.NewRouter(logger, jwtSvc, authHandler, userHandler, chatHandler, feedbackHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
