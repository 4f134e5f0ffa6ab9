package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopledger/internal/category"
	"shopledger/internal/clock"
	"shopledger/internal/commons"
	"shopledger/internal/idempotency"
	"shopledger/internal/infrastructure/logger"
	"shopledger/internal/infrastructure/metrics"
	"shopledger/internal/infrastructure/mysql"
	"shopledger/internal/infrastructure/redis"
	"shopledger/internal/product"
	"shopledger/internal/report"
	"shopledger/internal/sale"
	"shopledger/internal/server"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("SHOPLEDGER_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := commons.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	location, err := cfg.Report.Location()
	if err != nil {
		zapLogger.Fatal("resolving shop timezone", zap.Error(err))
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Database.AutoMigrate {
		if err := mysql.Migrate(context.Background(), db); err != nil {
			zapLogger.Fatal("migrating schema", zap.Error(err))
		}
		zapLogger.Info("schema up to date")
	}

	redisClient, err := redis.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		zapLogger.Fatal("connecting to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		zapLogger.Info("redis connected, idempotent sale commits enabled")
	} else {
		zapLogger.Info("redis not configured, Idempotency-Key header is ignored")
	}

	clk := clock.NewRealClock(location)
	appMetrics := metrics.New()

	categoryModule := category.NewModule(db, clk, zapLogger)
	productModule := product.NewModule(db, categoryModule.Repository, clk, zapLogger)
	saleModule := sale.NewModule(
		db,
		productModule.Repository,
		idempotency.NewStore(redisClient, cfg.Redis.IdempotencyTTL),
		appMetrics,
		clk,
		location,
		cfg.Sale,
		zapLogger,
	)
	reportModule := report.NewModule(
		db,
		productModule.Repository,
		saleModule.Reader,
		clk,
		location,
		cfg.Report.RecentSalesLimit,
		zapLogger,
	)

	router := server.NewRouter(server.Controllers{
		Category: categoryModule.Controller,
		Product:  productModule.Controller,
		Sale:     saleModule.Controller,
		Report:   reportModule.Controller,
	}, server.RouterOptions{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		MaxBodyBytes:       cfg.Server.MaxBodyBytes,
		Metrics:            appMetrics,
		DB:                 db,
	}, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
