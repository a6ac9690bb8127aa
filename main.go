package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/yurys/todo-list-backend/auth"
	"github.com/yurys/todo-list-backend/cacheutils"
	"github.com/yurys/todo-list-backend/config"
	"github.com/yurys/todo-list-backend/db"
	"github.com/yurys/todo-list-backend/handlers"
	"github.com/yurys/todo-list-backend/logger"
	"github.com/yurys/todo-list-backend/middleware"
	"github.com/yurys/todo-list-backend/routes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()

	log := logger.Get()
	defer log.Sync()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := logger.WithLogger(context.Background(), log)

	client := connectMongo(ctx, cfg)
	redisClient := connectRedis(ctx, cfg)

	database := client.Database(cfg.MongoDatabase)
	userStore := db.NewUserStore(database)
	taskStore := db.NewTaskStore(database)

	provider := auth.NewGoogleProvider(auth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		CallbackURL:  cfg.GoogleCallbackURL,
	})
	tokens := auth.NewTokenManager(cfg.TokenSecret, auth.DefaultTokenTTL)

	authHandler := handlers.NewAuthHandler(userStore, provider, tokens, redisClient, cfg.FrontendURL)
	taskHandler := handlers.NewTasksHandler(taskStore)
	statusHandler := handlers.NewStatusHandler(client, cfg.Env)

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
	defer limiter.Stop()

	router := setupRouter(cfg, limiter, statusHandler, authHandler, taskHandler)

	startServer(ctx, cfg, router)

	shutdown(ctx, client, redisClient)
}

func connectMongo(ctx context.Context, cfg *config.Config) *mongo.Client {
	log := logger.FromCtx(ctx)

	var client *mongo.Client
	var err error
	if cfg.OnConnectFailure == config.RetryOnFailure {
		client, err = db.ConnectWithRetry(ctx, cfg)
	} else {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err = db.Connect(connectCtx, cfg)
		cancel()
	}
	if err != nil {
		log.Fatal("mongo connection failed", zap.Error(err))
	}
	return client
}

func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	log := logger.FromCtx(ctx)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := cacheutils.Connect(connectCtx, cfg)
	if err != nil {
		// the cache is an optimization, not a dependency
		log.Warn("redis unavailable, user cache disabled", zap.Error(err))
		return nil
	}
	return client
}

func setupRouter(cfg *config.Config, limiter *middleware.RateLimiter, statusHandler *handlers.StatusHandler, authHandler *handlers.AuthHandler, taskHandler *handlers.TasksHandler) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	router.Use(metrics.Middleware())
	router.Use(limiter.Middleware())
	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler(prometheus.DefaultGatherer)))

	routes.SetupRoutes(router, statusHandler, authHandler, taskHandler)

	return router
}

func startServer(ctx context.Context, cfg *config.Config, router *gin.Engine) {
	log := logger.FromCtx(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info("server listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
}

func shutdown(ctx context.Context, client *mongo.Client, redisClient *redis.Client) {
	log := logger.FromCtx(ctx)

	disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(disconnectCtx); err != nil {
		log.Error("error while disconnecting MongoDB", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("server exiting")
}
