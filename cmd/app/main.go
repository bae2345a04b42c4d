package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"roundsmirror/internal/api"
	"roundsmirror/internal/middleware"
	"roundsmirror/internal/repository"
	"roundsmirror/internal/roundsapi"
	"roundsmirror/internal/service"
	"roundsmirror/internal/tokeninfo"
	"roundsmirror/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	roundsClient := roundsapi.NewClient(cfg.Rounds)
	tokenResolver := tokeninfo.NewResolver(cfg.TokenAPI)

	refreshService := service.NewRefreshService(repo, roundsClient, tokenResolver, cfg.Refresh.TTL)
	earningsService := service.NewEarningsService(repo, repo)
	scheduler := service.NewScheduler(refreshService, cfg.Refresh.Interval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go scheduler.Run(ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
	}
	config.AllowHeaders = []string{"*"}
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewHealthRoutes(a)
	api.NewEarningsRoutes(a, earningsService)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
