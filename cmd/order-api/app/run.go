package app

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/nishantchy/ecom-microservice/configs"
	"github.com/nishantchy/ecom-microservice/internal/adapter/cache"
	"github.com/nishantchy/ecom-microservice/internal/adapter/catalog"
	"github.com/nishantchy/ecom-microservice/internal/adapter/http"
	"github.com/nishantchy/ecom-microservice/internal/adapter/identity"
	"github.com/nishantchy/ecom-microservice/internal/adapter/queue"
	"github.com/nishantchy/ecom-microservice/internal/adapter/repo"
	"github.com/nishantchy/ecom-microservice/internal/logging"
	"github.com/nishantchy/ecom-microservice/internal/usecase"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	l := logging.Init(cfg.App.Name, cfg.App.LogFile)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.RequestTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, err
	}

	// init redis (shared rate counter store)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}

	l.Info("order-api: starting up", "addr", cfg.App.HTTPAddr)

	// outbound collaborators
	verifier := identity.NewClient(cfg.Auth.BaseURL, cfg.Auth.Timeout)
	prices := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	publisher := queue.NewRabbitPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange, cfg.Rabbit.RoutingKey)

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	admitter := cache.NewRedisRateLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)

	// handlers + router
	createUC := usecase.NewCreateOrder(verifier, prices, orderRepo, publisher)
	h := http.NewOrderHandler(createUC, orderRepo, cfg.HTTP.RequestTimeout)
	router := http.NewRouter(h, admitter, logging.New("http"))

	cleanup := func() {
		_ = db.Close()
		_ = rdb.Close()
	}

	return &App{Router: router}, cleanup, nil
}
