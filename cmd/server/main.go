package main

import (
	"database/sql"
	"log"
	"net/http"

	"speego-be/internal/api"
	"speego-be/internal/cart"
	"speego-be/internal/config"
	"speego-be/internal/contact"
	"speego-be/internal/db"
	"speego-be/internal/events"
	"speego-be/internal/logger"
	"speego-be/internal/order"
	"speego-be/internal/product"
	"speego-be/internal/stockcache"
	"speego-be/internal/storage"
	"speego-be/internal/user"
)

// seams for tests
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	router := newServer(cfg, database)

	log.Printf("API server running at http://localhost:%s/", cfg.AppPort)
	return startServerFunc(":"+cfg.AppPort, router)
}

// newServer assembles repositories, services and the router around an open
// database handle.
func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	stocks := stockcache.NewMemory()
	if cfg.RedisAddr != "" {
		stocks = stockcache.New(stockcache.NewClient(cfg.RedisAddr), stockcache.DefaultTTL)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.KafkaBrokers != "" {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	}

	resolver := storage.NewResolver(cfg.StorageBaseURL, cfg.StorageBucket)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo, resolver, stocks)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo, stocks)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartSvc, userSvc, stocks, publisher)

	contactRepo := contact.NewRepository(database)
	contactSvc := contact.NewService(contactRepo)

	return api.NewRouter(api.NewHandler(productSvc, cartSvc, orderSvc, userSvc, contactSvc))
}
