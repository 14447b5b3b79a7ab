package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AriadnaNaya/BDD2/internal/billing"
	"github.com/AriadnaNaya/BDD2/internal/cart"
	"github.com/AriadnaNaya/BDD2/internal/catalog"
	"github.com/AriadnaNaya/BDD2/internal/checkout"
	"github.com/AriadnaNaya/BDD2/internal/identity"
	"github.com/AriadnaNaya/BDD2/internal/ledger"
	"github.com/AriadnaNaya/BDD2/internal/platform/mongodb"
	"github.com/AriadnaNaya/BDD2/internal/publisher"
	"github.com/AriadnaNaya/BDD2/internal/server"
	"github.com/AriadnaNaya/BDD2/internal/session"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	MongoURI        string
	MongoDBName     string
	KafkaBrokers    []string
	SessionTTL      time.Duration
	CartTTL         time.Duration
	CheckoutPolicy  checkout.ResolutionPolicy
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	DB              *ledger.Credentials
}

func loadConfig() *Config {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid DB_PORT: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "ecommerce"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		SessionTTL:      getEnvDuration("SESSION_TTL", session.DefaultTTL),
		CartTTL:         getEnvDuration("CART_TTL", cart.DefaultTTL),
		CheckoutPolicy:  checkout.ResolutionPolicy(getEnv("CHECKOUT_POLICY", string(checkout.PolicyStrict))),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		DB: &ledger.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              dbPort,
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "ecommerce"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return d
}

func main() {
	log.Println("server starting...")
	cfg := loadConfig()
	var wg sync.WaitGroup

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Redis holds sessions, carts and the product cache.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(startupCtx).Err(); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Mongo holds products, users and invoices.
	mongoDB, err := mongodb.Connect(startupCtx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(context.Background())

	if err := identity.EnsureIndexes(startupCtx, mongoDB); err != nil {
		log.Fatalf("failed to ensure user indexes: %v", err)
	}
	if err := billing.EnsureIndexes(startupCtx, mongoDB); err != nil {
		log.Fatalf("failed to ensure invoice indexes: %v", err)
	}

	// Postgres holds the durable order ledger.
	orderLedger, err := ledger.NewRepository(cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer orderLedger.Close()

	if err := orderLedger.RunMigrations(cfg.DB); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("database migrations completed")

	sessions := session.NewStore(redisClient, cfg.SessionTTL)
	carts := cart.NewStore(redisClient, cfg.CartTTL)
	products := catalog.NewService(
		catalog.NewMongoRepository(mongoDB),
		catalog.NewRedisCache(redisClient),
	)
	users := identity.NewMongoRepository(mongoDB)
	invoices := billing.NewMongoRepository(mongoDB)
	checkoutSvc := checkout.NewService(sessions, carts, products, orderLedger, cfg.CheckoutPolicy)

	// Outbox poller publishes order.created events to Kafka.
	poller := publisher.NewOutboxPoller(orderLedger, cfg.KafkaBrokers...)
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(pollerCtx)
	}()

	router := server.NewRouter(sessions, server.Handlers{
		Auth:     server.NewAuthHandler(sessions, users),
		Cart:     server.NewCartHandler(carts, products),
		Checkout: server.NewCheckoutHandler(checkoutSvc),
		Products: server.NewProductHandler(products),
		Users:    server.NewUserHandler(users),
		Orders:   server.NewOrderHandler(orderLedger),
		Invoices: server.NewInvoiceHandler(invoices),
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	pollerCancel()
	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		log.Println("outbox poller stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("outbox poller didn't stop in time")
	}

	if err := poller.Close(); err != nil {
		log.Printf("failed to close kafka writer: %v", err)
	}
	log.Println("server exited")
}
