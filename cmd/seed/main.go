package main

import (
	"context"
	"log"
	"os"

	"shopassist-backend/internal/config"
	"shopassist-backend/internal/db"
	productrepo "shopassist-backend/internal/repository/product"
	"shopassist-backend/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	repo := productrepo.NewPostgres(dbpool, logger)
	if err := seed.Apply(ctx, repo); err != nil {
		logger.Fatalf("seed products: %v", err)
	}
	logger.Printf("seeded sample products")
}
