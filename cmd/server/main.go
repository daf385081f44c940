package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"blogdeck/internal/cache"
	"blogdeck/internal/config"
	"blogdeck/internal/db"
	"blogdeck/internal/logger"
	"blogdeck/internal/repository"
	"blogdeck/internal/router"
	"blogdeck/internal/services"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if envErr != nil {
		log.Debug("no .env file found, using environment variables")
	}

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		log.Error("database migration failed", "error", err)
		os.Exit(1)
	}
	if err := db.SeedTags(gdb, cfg.Seed.Tags, log); err != nil {
		log.Warn("tag seeding failed", "error", err)
	}

	postRepo := repository.NewPostRepository(gdb)
	deps := router.Deps{
		Users:    services.NewUserService(repository.NewUserRepository(gdb)),
		Posts:    services.NewPostService(postRepo),
		Tags:     services.NewTagService(repository.NewTagRepository(gdb)),
		Comments: services.NewCommentService(repository.NewCommentRepository(gdb), postRepo),
		Reviews:  services.NewReviewService(repository.NewReviewRepository(gdb), postRepo),
		Logger:   log,
	}
	deps.Feed = cache.New(deps.Posts, deps.Tags, deps.Reviews,
		cache.WithLogger(log.With("component", "cache")),
		cache.WithRatingMemo(cfg.Cache.RatingMemoSize, cfg.Cache.RatingMemoTTL),
	)

	// A cold cache is filled by the first feed request.
	if err := deps.Feed.Refresh(context.Background()); err != nil {
		log.Warn("initial cache build failed", "error", err)
	}

	gin.SetMode(cfg.Server.Mode)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(cfg.Server.SessionSecret, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("blogdeck server starting", "addr", server.Addr, "posts_cached", deps.Feed.Len())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
