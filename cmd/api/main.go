package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shopassist-backend/internal/config"
	"shopassist-backend/internal/db"
	"shopassist-backend/internal/httpserver"
	orderrepo "shopassist-backend/internal/repository/order"
	productrepo "shopassist-backend/internal/repository/product"
	userrepo "shopassist-backend/internal/repository/user"
	"shopassist-backend/internal/scraper"
	authsvc "shopassist-backend/internal/service/auth"
	catalogsvc "shopassist-backend/internal/service/catalog"
	ordersvc "shopassist-backend/internal/service/order"
	profilesvc "shopassist-backend/internal/service/profile"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	products := productrepo.NewPostgres(dbpool, logger)
	orders := orderrepo.NewPostgres(dbpool)
	users := userrepo.NewPostgres(dbpool, logger)

	lookup := scraper.New(logger)
	catalogService := catalogsvc.New(products, lookup, logger)
	orderService := ordersvc.New(orders, products, users, logger)
	profileService := profilesvc.New(users)
	// No external identity verifier is wired here yet; only locally issued
	// tokens authenticate until one is configured.
	authService := authsvc.New(users, nil, cfg.JWTSecret, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:  catalogService,
		OrderSvc:    orderService,
		ProfileSvc:  profileService,
		AuthSvc:     authService,
		AdminKey:    cfg.AdminAPIKey,
		CORSOrigins: cfg.CORSOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
