package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	appconfig "github.com/52tanbivv/coin-exchange-backend/internal/app/config"
	"github.com/52tanbivv/coin-exchange-backend/internal/app/engine"
	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	eventpublisher "github.com/52tanbivv/coin-exchange-backend/internal/usecase/event-publisher"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/journal"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/marketdata"
	orderreader "github.com/52tanbivv/coin-exchange-backend/internal/usecase/order-reader"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/snapshot"
	"github.com/52tanbivv/coin-exchange-backend/pkg/config"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
	"github.com/52tanbivv/coin-exchange-backend/pkg/postgresql"
	"github.com/52tanbivv/coin-exchange-backend/pkg/redis"
)

var cfg *appconfig.Config
var log *logger.Logger

func init() {
	cfg = &appconfig.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = cfg.Redis.Addrs
	redisConfig.Username = cfg.Redis.Username
	redisConfig.Password = cfg.Redis.Password
	redisConfig.DB = cfg.Redis.DB

	rclient := redis.NewClient(log, redisConfig)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	pgClient, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_postgres",
		})
		return
	}

	journalStore := journal.NewPostgresStore(pgClient)
	snapshotStore := snapshot.NewStore(rclient, log)
	reader := orderreader.NewReader(cfg.OrderReader, orderbookv1.NewOrderIDGenerator(), log)

	// The publish-failure counter lives on the engine's metrics, which do
	// not exist yet. The closure resolves once the engine is built; the
	// publisher only runs after Start.
	var eng *engine.Engine
	publisher := eventpublisher.NewPublisher(cfg.Publisher, log, func() {
		if eng != nil {
			eng.Metrics().PublishFailure()
		}
	})

	eng = engine.New(engine.Config{
		Pairs:            parsePairs(cfg.Pairs),
		DepthLevels:      cfg.DepthLevels,
		CreateMissing:    cfg.CreateMissing,
		InputBuffer:      cfg.InputBuffer,
		OutputBuffer:     cfg.OutputBuffer,
		SnapshotInterval: cfg.SnapshotInterval,
		TradeHistory:     cfg.TradeHistory,
	}, engine.Deps{
		Logger:     log,
		InputStore: journalStore,
		EventStore: journalStore,
		Snapshots:  snapshotStore,
		Reader:     reader,
		Publisher:  publisher,
	})

	if err := eng.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	server := marketdata.NewServer(cfg.Server, eng.Projector(), eng.Metrics().Registry(), log)
	go func() {
		if err := server.Start(); err != nil {
			log.Error(err, logger.Field{
				Key:   "action",
				Value: "market_data_server",
			})
		}
	}()

	log.Info("Matching engine started", logger.Field{
		Key:   "pairs",
		Value: strings.Join(cfg.Pairs, ","),
	})

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "shutdown_server",
		})
	}

	if err := eng.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_publisher",
		})
	}
	pgClient.Close()
	if err := rclient.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_redis_client",
		})
	}

	log.Info("Matching engine shutdown complete")
}

func parsePairs(raw []string) []orderbookv1.CurrencyPair {
	pairs := make([]orderbookv1.CurrencyPair, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pairs = append(pairs, orderbookv1.CurrencyPair(p))
	}
	return pairs
}
