package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/AriadnaNaya/BDD2/internal/catalog"
	"github.com/AriadnaNaya/BDD2/internal/domain"
	"github.com/AriadnaNaya/BDD2/internal/identity"
	"github.com/AriadnaNaya/BDD2/internal/platform/mongodb"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Seeds a minimal data set for local development: two users and two
// products.
func main() {
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDBName := getEnv("MONGO_DB_NAME", "ecommerce")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoDB, err := mongodb.Connect(ctx, mongoURI, mongoDBName)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(context.Background())

	if err := identity.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("failed to ensure user indexes: %v", err)
	}

	users := identity.NewMongoRepository(mongoDB)
	products := catalog.NewMongoRepository(mongoDB)

	for _, user := range []*domain.User{
		{Name: "Alice", Email: "alice@example.com", Category: domain.UserCategoryTop},
		{Name: "Bob", Email: "bob@example.com", Category: domain.UserCategoryLow},
	} {
		if err := users.Create(ctx, user); err != nil {
			log.Printf("skipping user %s: %v", user.Email, err)
			continue
		}
		log.Printf("created user %s (%s)", user.Name, user.ID)
	}

	for _, product := range []*domain.Product{
		{Name: "Laptop Gamer", Description: "Laptop de alta gama", Price: 1500.99, Stock: 10},
		{Name: "Smartphone X", Description: "Telefono inteligente", Price: 999.99, Stock: 25},
	} {
		if err := products.Create(ctx, product); err != nil {
			log.Printf("skipping product %s: %v", product.Name, err)
			continue
		}
		log.Printf("created product %s (%s)", product.Name, product.ID)
	}

	log.Println("seed completed")
}
