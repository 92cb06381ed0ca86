package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/muhammadchandra19/hftx/internal/app/engine"
	marketv1 "github.com/muhammadchandra19/hftx/internal/domain/market/v1"
	"github.com/muhammadchandra19/hftx/internal/server"
	depthcache "github.com/muhammadchandra19/hftx/internal/usecase/depth-cache"
	"github.com/muhammadchandra19/hftx/internal/usecase/exchange"
	matchpublisher "github.com/muhammadchandra19/hftx/internal/usecase/match-publisher"
	orderreader "github.com/muhammadchandra19/hftx/internal/usecase/order-reader"
	"github.com/muhammadchandra19/hftx/pkg/config"
	"github.com/muhammadchandra19/hftx/pkg/logger"
	"github.com/muhammadchandra19/hftx/pkg/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.InfoLevel))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	tickSize, err := decimal.NewFromString(cfg.TickSize)
	if err != nil {
		log.Error(err, logger.Field{Key: "tickSize", Value: cfg.TickSize})
		os.Exit(1)
	}
	if tickSize.Sign() <= 0 {
		log.Error(marketv1.ErrInvalidTickSize, logger.Field{Key: "tickSize", Value: cfg.TickSize})
		os.Exit(1)
	}

	redisClient := redis.NewClient(log, &cfg.Redis)
	if err := redisClient.Connect(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
	defer redisClient.Disconnect(context.Background())

	ex := exchange.New(cfg.Symbols, log)

	reader := orderreader.NewReader(cfg.OrderReader, log)
	defer reader.Close()
	publisher := matchpublisher.NewPublisher(cfg.MatchPublisher, log)
	defer publisher.Close()
	depths := depthcache.NewStore(redisClient, log)

	eng := engine.NewEngine(ex, reader, publisher, depths, log, tickSize, &engine.Options{
		SnapshotInterval: cfg.SnapshotInterval,
		DepthLevels:      cfg.DepthLevels,
	})
	eng.Start(ctx)

	srv := server.New(ex, log, tickSize, cfg.DepthLevels)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Routes(),
	}

	go func() {
		log.Info("http server listening",
			logger.Field{Key: "addr", Value: cfg.HTTPAddr},
			logger.Field{Key: "symbols", Value: cfg.Symbols},
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(err)
	}

	cancel()
	eng.Stop()
	log.Info("exchange stopped")
}
