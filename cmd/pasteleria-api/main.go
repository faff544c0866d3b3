package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pasteleria-api/handlers"
	"pasteleria-api/internal/auth"
	"pasteleria-api/internal/blog"
	"pasteleria-api/internal/cart"
	"pasteleria-api/internal/consul"
	"pasteleria-api/internal/contact"
	"pasteleria-api/internal/dashboard"
	"pasteleria-api/internal/orders"
	"pasteleria-api/internal/products"
	"pasteleria-api/internal/stores/kafka"
	"pasteleria-api/internal/stores/postgres"
	"pasteleria-api/internal/users"
	"pasteleria-api/pkg/logger"
	"pasteleria-api/pkg/logkey"
)

const serviceName = handlers.ServiceName

func main() {
	if err := run(); err != nil {
		slog.Error("service stopped", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment")
	}
	logger.New()

	keys, err := loadAuthKeys()
	if err != nil {
		return err
	}

	db, err := postgres.OpenDB()
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return err
	}

	usersConf, err := users.NewConf(db)
	if err != nil {
		return err
	}
	productsConf, err := products.NewConf(db)
	if err != nil {
		return err
	}
	cartConf, err := cart.NewConf(db)
	if err != nil {
		return err
	}
	ordersConf, err := orders.NewConf(db)
	if err != nil {
		return err
	}
	blogConf, err := blog.NewConf(db)
	if err != nil {
		return err
	}
	contactConf, err := contact.NewConf(db)
	if err != nil {
		return err
	}
	dashboardConf, err := dashboard.NewConf(db)
	if err != nil {
		return err
	}

	if err := seedCatalog(&productsConf); err != nil {
		return err
	}

	brokers := strings.Split(os.Getenv("KAFKA_BROKERS"), ",")
	kafkaConf, err := kafka.NewConf(brokers)
	if err != nil {
		return fmt.Errorf("connecting to kafka: %w", err)
	}
	defer kafkaConf.Close()

	consulClient, err := consul.NewClient()
	if err != nil {
		return err
	}
	port, err := consul.ServicePort()
	if err != nil {
		return err
	}
	host := os.Getenv("APP_HOST")
	if host == "" {
		host = "localhost"
	}
	if err := consul.RegisterService(consulClient, serviceName, host, port); err != nil {
		// The service still works without discovery, only peers are affected.
		slog.Error("consul registration failed", slog.String(logkey.ERROR, err.Error()))
	}

	stores := handlers.Stores{
		Users:     usersConf,
		Products:  productsConf,
		Cart:      cartConf,
		Orders:    ordersConf,
		Blog:      blogConf,
		Contact:   contactConf,
		Dashboard: dashboardConf,
	}
	router := handlers.API(stores, kafkaConf, keys, consulClient)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", slog.Int("port", port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func loadAuthKeys() (*auth.Keys, error) {
	privatePath := os.Getenv("AUTH_PRIVATE_KEY_PATH")
	publicPath := os.Getenv("AUTH_PUBLIC_KEY_PATH")
	if privatePath == "" || publicPath == "" {
		return nil, fmt.Errorf("AUTH_PRIVATE_KEY_PATH and AUTH_PUBLIC_KEY_PATH must be set")
	}
	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	return auth.NewKeys(privatePEM, publicPEM)
}

func seedCatalog(p *products.Conf) error {
	seedPath := os.Getenv("CATALOG_SEED_FILE")
	if seedPath == "" {
		return nil
	}
	seeds, err := products.LoadSeedFile(seedPath)
	if err != nil {
		return fmt.Errorf("loading catalog seed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inserted, err := p.SeedCatalog(ctx, seeds)
	if err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	if inserted > 0 {
		slog.Info("catalog seeded", slog.Int("products", inserted))
	}
	return nil
}
