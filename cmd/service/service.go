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

	"user-auth/internal/audit"
	"user-auth/internal/bootstrap"
	"user-auth/internal/cache"
	"user-auth/internal/config"
	"user-auth/internal/database"
	"user-auth/internal/middleware"
	"user-auth/internal/router"
	"user-auth/internal/service"
	"user-auth/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

const (
	auditQueueSize  = 256
	shutdownTimeout = 10 * time.Second
)

var (
	loadConfig      = config.Load
	newLogger       = buildLogger
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newAuditSink    = audit.NewSink
	newWorkerPool   = worker.NewPool
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	notifyShutdown  = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		return ch, func() { signal.Stop(ch) }
	}
	exitFunc = os.Exit
)

func buildLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Development())
	if err != nil {
		return fmt.Errorf("建立 logger 失敗: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	// Redis 只用於登入節流，未設定時不連線
	var rdb cache.Cache
	if cfg.ThrottleEnabled() {
		rdb, err = newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("Redis 連線失敗: %w", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("關閉 Redis 連線失敗", zap.Error(err))
			}
		}()
	}

	hasher, err := service.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		return err
	}
	var throttle *service.LoginThrottle
	if rdb != nil {
		throttle = service.NewLoginThrottle(rdb, cfg.LoginMaxAttempts, cfg.LoginLockout, log)
	}
	users := service.NewUserService(db, hasher, tokens, throttle, log)

	sink, err := newAuditSink(cfg.AuditLogPath)
	if err != nil {
		return err
	}
	auditLog := audit.New(sink, newWorkerPool(cfg.WorkerCount, auditQueueSize))
	defer func() {
		if err := auditLog.Close(); err != nil {
			log.Debug("audit sink sync", zap.Error(err))
		}
	}()

	if err := bootstrap.EnsureAdmin(context.Background(), users, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Development()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORS())

	router.Setup(e, router.Options{
		Service:          users,
		Tokens:           tokens,
		Audit:            auditLog,
		DB:               db,
		Cache:            rdb,
		PublicUserLookup: cfg.PublicUserLookup,
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	sig, stop := notifyShutdown()
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.HTTPAddr) }()
	log.Info("http server started", zap.String("addr", cfg.HTTPAddr))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服務失敗: %w", err)
		}
		return nil
	case s := <-sig:
		log.Info("shutting down", zap.String("signal", s.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP 服務關閉失敗: %w", err)
	}
	return nil
}
