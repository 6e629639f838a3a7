package main

import (
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopora/go-shop-backend/internal/app/assets"
	"github.com/shopora/go-shop-backend/internal/app/cache"
	"github.com/shopora/go-shop-backend/internal/app/config"
	server "github.com/shopora/go-shop-backend/internal/app/controller/http/server"
	"github.com/shopora/go-shop-backend/internal/app/logger"
	"github.com/shopora/go-shop-backend/internal/app/metrics"
	"github.com/shopora/go-shop-backend/internal/app/notify"
	storage "github.com/shopora/go-shop-backend/internal/app/storage/api/model"
	"github.com/shopora/go-shop-backend/internal/app/storage/memory"
	"github.com/shopora/go-shop-backend/internal/app/storage/postgres"
	"github.com/shopora/go-shop-backend/internal/app/usecase/ledger"
	"github.com/shopora/go-shop-backend/internal/app/usecase/order"
	"github.com/shopora/go-shop-backend/internal/app/usecase/token"
)

func main() {
	config := config.InitConfig()

	err := logger.Initialize(config)
	if err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	store := createStorage(config)
	defer store.Close()

	appCache, err := cache.NewCache(config)
	if err != nil {
		zap.L().Fatal("error while connecting to redis", zap.Error(err))
	}
	defer appCache.Close()

	assetStore, err := assets.NewMinioStore(config)
	if err != nil {
		zap.L().Fatal("error while connecting to object storage", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	appMetrics := metrics.New(registry)

	coordinator := order.NewCoordinator(
		store,
		ledger.NewInventory(store),
		ledger.NewBalance(store),
		appMetrics,
		config.ServiceFeeRate,
	)

	tokens := token.NewManager(config)
	mailer := notify.NewMailer(notify.NewSMTPSender(config))

	httpServer := server.New(config, store, coordinator, tokens, mailer, assetStore, appCache, registry)
	httpServer.StartHTTPServer()
}

func createStorage(config config.Config) storage.Storage {
	if len(config.DBConnect) == 0 {
		zap.L().Info("database uri is empty, using in-memory storage")

		return memory.NewStorage()
	}

	store, err := postgres.NewPostgresStorage(config.DBConnect)
	if err != nil {
		zap.L().Fatal("error while connecting to database", zap.Error(err))
	}

	return store
}
