package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/youruser/newscard/internal/api"
	"github.com/youruser/newscard/internal/card"
	"github.com/youruser/newscard/internal/config"
	"github.com/youruser/newscard/internal/fonts"
	"github.com/youruser/newscard/internal/util"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lib := fonts.NewLibrary(cfg.FontConfig(), logger)
	if cfg.Fonts.Watch {
		if err := util.EnsureDir(cfg.Fonts.Dir); err != nil {
			logger.Fatal("font directory unusable", zap.String("dir", cfg.Fonts.Dir), zap.Error(err))
		}
		go func() {
			if err := lib.Watch(ctx); err != nil {
				logger.Warn("font watcher stopped", zap.Error(err))
			}
		}()
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	h := api.NewHandler(cfg, card.NewLibraryRenderer(lib, logger), logger)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewEngine(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("starting server", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// loadConfig reads NEWSCARD_CONFIG (default config.yaml) when it exists and
// applies the PORT override.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("NEWSCARD_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, errors.New("PORT must be a number")
		}
		cfg.Server.Port = p
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Log.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
