package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/AriadnaNaya/BDD2/internal/billing"
	"github.com/AriadnaNaya/BDD2/internal/platform/mongodb"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("billing-worker starting...")
	var wg sync.WaitGroup

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDBName := getEnv("MONGO_DB_NAME", "ecommerce")
	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	mongoDB, err := mongodb.Connect(startupCtx, mongoURI, mongoDBName)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(context.Background())

	if err := billing.EnsureIndexes(startupCtx, mongoDB); err != nil {
		log.Fatalf("failed to ensure invoice indexes: %v", err)
	}

	invoices := billing.NewMongoRepository(mongoDB)
	consumer := billing.NewConsumer(invoices, kafkaBrokers...)

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Run(consumerCtx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down billing-worker...")
	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		log.Println("consumer stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("consumer didn't stop in time")
	}

	consumer.Close()
	log.Println("billing-worker stopped")
}
