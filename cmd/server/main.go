package main

import (
	"log"
	"net/http"

	"storefront-be/internal/catalog"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/events"
	"storefront-be/internal/httpapi"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/redisx"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	var cache catalog.Cache
	if cfg.RedisAddr != "" {
		cache = catalog.NewRedisCache(redisx.New(cfg.RedisAddr))
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.ServiceName)
		defer publisher.Close()
	}

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo, cache)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cache, publisher)

	router := httpapi.NewRouter(httpapi.NewHandler(catalogSvc, orderSvc))

	log.Printf("Storefront API listening on :%s", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, router))
}
