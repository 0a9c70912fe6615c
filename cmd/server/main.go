package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/ogurasousui/daily-report/internal/adapters/http/handler"
	"github.com/ogurasousui/daily-report/internal/adapters/repository/postgres"
	"github.com/ogurasousui/daily-report/internal/adapters/session"
	"github.com/ogurasousui/daily-report/internal/core/auth"
	"github.com/ogurasousui/daily-report/internal/core/employee"
	"github.com/ogurasousui/daily-report/internal/core/report"
	"github.com/ogurasousui/daily-report/internal/platform/config"
	pg "github.com/ogurasousui/daily-report/internal/platform/db/postgres"
	"github.com/ogurasousui/daily-report/internal/platform/logger"
	"github.com/ogurasousui/daily-report/internal/platform/security"
	"github.com/ogurasousui/daily-report/internal/platform/server"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const serviceName = "daily-report"

func main() {
	if err := run(); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env は存在する場合のみ読み込む。
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer dbPool.Close()

	revocations, closeRevocations, err := newRevocationStore(ctx, cfg.Redis, zl)
	if err != nil {
		return err
	}
	defer closeRevocations()

	txManager := pg.NewTransactionManager(dbPool)
	hasher := security.NewBcryptHasher(0)

	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	reportRepo := postgres.NewReportRepository(dbPool)

	employeeSvc := employee.NewService(employeeRepo, hasher, nil, txManager)
	reportSvc := report.NewService(reportRepo, nil, txManager)
	authSvc := auth.NewService(employeeRepo, hasher)

	gin.SetMode(gin.ReleaseMode)
	router, err := handler.NewRouter(handler.Dependencies{
		Employees:    employeeSvc,
		Reports:      reportSvc,
		Auth:         authSvc,
		Tokens:       session.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Revocations:  revocations,
		CookieName:   cfg.Auth.CookieName,
		SecureCookie: cfg.Auth.SecureCookie,
		Logger:       zl,
	})
	if err != nil {
		return err
	}

	httpServer := server.NewHTTPServer(cfg.Server.HTTPAddr, router, cfg.Server.ShutdownTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("HTTP server listening", zap.String("addr", cfg.Server.HTTPAddr))
		return httpServer.Run(gctx)
	})

	if cfg.Server.GRPCAddr != "" {
		healthServer := server.NewHealthServer(cfg.Server.GRPCAddr)
		g.Go(func() error {
			zl.Info("gRPC health server listening", zap.String("addr", cfg.Server.GRPCAddr))
			return healthServer.Run(gctx)
		})
		healthServer.SetServing(true)
	}

	if err := g.Wait(); err != nil {
		return err
	}
	zl.Info("server stopped")
	return nil
}

// newRevocationStore は Redis が設定されていれば Redis を、未設定ならプロセス内ストアを返します。
func newRevocationStore(ctx context.Context, cfg config.RedisConfig, zl *zap.Logger) (session.RevocationStore, func(), error) {
	if cfg.Addr == "" {
		zl.Warn("redis address is not configured; session revocation is kept in memory")
		return session.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	return session.NewRedisStore(client), func() { _ = client.Close() }, nil
}
