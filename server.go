package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fandomapp/internal/config"
	"fandomapp/internal/database"
	"fandomapp/internal/media"
	"fandomapp/internal/middleware"
	"fandomapp/internal/router"
	"fandomapp/internal/service"
	"fandomapp/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

// App holds the wired application and the connections it owns.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Services *service.Services
	Engine   *gin.Engine
	Logger   *zap.Logger
}

// NewApp connects storage, builds the services and mounts the routes.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Initialize(cfg, log.Named("db"))
	if err != nil {
		return nil, err
	}
	store, err := media.New(ctx, cfg)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to set up media storage: %w", err)
	}
	rdb := session.Connect(ctx, cfg.RedisURL, log.Named("redis"))

	services := service.New(db, store, log)
	auth := middleware.NewAuthenticator(middleware.AuthenticatorConfig{
		Tokens:       middleware.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL),
		Revoked:      session.NewDenylist(rdb),
		Resolve:      services.Accounts.Caller,
		CookieName:   cfg.SessionCookie,
		SecureCookie: cfg.IsProduction(),
		Logger:       log.Named("auth"),
	})

	engine := router.Setup(router.Deps{
		Config:   cfg,
		DB:       db,
		Services: services,
		Auth:     auth,
		Logger:   log,
	})

	return &App{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Services: services,
		Engine:   engine,
		Logger:   log,
	}, nil
}

// Close releases the database and redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	closeDB(a.DB)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// runServer serves HTTP until ctx is cancelled or the process receives SIGINT/SIGTERM,
// then drains in-flight requests.
func runServer(ctx context.Context, app *App) error {
	srv := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		app.Logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", app.Config.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		app.Logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		app.Logger.Info("server exiting")
		return nil
	})

	return eg.Wait()
}
