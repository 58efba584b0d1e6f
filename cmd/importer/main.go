package main

import (
	"context"
	"flag"
	"log"
	"os"

	"shopassist-backend/internal/config"
	"shopassist-backend/internal/db"
	"shopassist-backend/internal/importer"
	productrepo "shopassist-backend/internal/repository/product"
)

func main() {
	file := flag.String("file", "", "path to CSV file with products")
	flag.Parse()

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC)
	if *file == "" {
		logger.Fatal("missing required flag: -file")
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatalf("open %s: %v", *file, err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(dbpool, logger))
	n, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import products: %v", err)
	}
	logger.Printf("imported %d products", n)
}
