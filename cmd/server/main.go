package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storefront/internal/cart"
	httpctrl "storefront/internal/controllers/http"
	"storefront/internal/infra"
	mmysql "storefront/internal/infra/mysql"
	"storefront/internal/infra/rabbitmq"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/services"
	"storefront/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := mmysql.Open(cfg.MySQLUser, cfg.MySQLPassword, cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLDatabase)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":" + cfg.RedisPort,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
	if err != nil {
		logger.Fatal("rabbitmq init failed", zap.Error(err))
	}
	defer publisher.Close()

	store := infra.NewStoreClient(cfg.BackendURL, 2*time.Second)
	catalog := infra.NewCachedCatalog(store, redisClient, logger)

	repo := mysqlrepo.NewOrderRepository(db)

	orders := services.NewOrderService(repo, publisher, logger)
	orders.SetRedisClient(redisClient)
	auth := services.NewAuthService(store, logger)

	engine := cart.New(store, logger)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := engine.SyncFromRemote(ctx); err != nil {
			logger.Warn("initial cart sync failed", zap.Error(err))
		}
		if len(cfg.WarmupProducts) > 0 {
			if err := catalog.Warmup(ctx, cfg.WarmupProducts); err != nil {
				logger.Warn("catalog warmup failed", zap.Error(err))
			}
		}
	}()

	handler := httpctrl.NewHandler(engine, orders, auth, catalog, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	logger.Info("starting storefront service", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server run failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return zcfg.Build()
}
