package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"gamehub/database"
	"gamehub/internal/cache"
	"gamehub/internal/config"
	"gamehub/internal/handler"
	"gamehub/internal/middleware"
	"gamehub/internal/repository"
	"gamehub/internal/service"
	"gamehub/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// Redis is optional; without it derived catalog reads hit the db.
	var catalog *cache.CatalogCache
	if cfg.RedisURL != "" {
		catalog, err = cache.NewCatalogCache(cfg.RedisURL, cfg.CacheTTL, logger)
		if err != nil {
			logger.Warn("redis unavailable, catalog caching disabled", "error", err)
			catalog = nil
		} else {
			defer catalog.Close()
		}
	}

	covers, err := storage.NewCoverStore(cfg.CoverDataPath)
	if err != nil {
		logger.Error("cover storage setup failed", "error", err)
		os.Exit(1)
	}

	gameRepo := repository.NewGameRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	gameSvc := service.NewGameService(gameRepo, reviewRepo, catalog)
	reviewSvc := service.NewReviewService(reviewRepo, gameRepo, catalog)

	gameHandler := handler.NewGameHandler(gameSvc, covers, logger)
	reviewHandler := handler.NewReviewHandler(reviewSvc, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "GameHub API",
			"status":  "ok",
		})
	})

	v1 := r.Group("/api/v1")
	gameHandler.RegisterRoutes(v1)
	reviewHandler.RegisterRoutes(v1, middleware.RateLimitByIP(cfg.ReviewRatePerSecond, cfg.ReviewRateBurst))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
