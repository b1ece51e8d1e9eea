package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/availability"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/catalog"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/database"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/handlers"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/metrics"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/router"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/search"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/service"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/websocket"
	"github.com/cx-tal-miterani/hall-booking-console/shared/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.temporal.io/sdk/client"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	addr := pflag.String("addr", "", "listen address, overrides API_PORT")
	pflag.Parse()

	var cfg config.Server
	if err := config.Load(*envFile, &cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	listenAddr := ":" + cfg.Port
	if *addr != "" {
		listenAddr = *addr
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repo := database.NewRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}

	// Create Temporal client
	temporalClient, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.Host,
	})
	if err != nil {
		log.Fatalf("Failed to create Temporal client: %v", err)
	}
	defer temporalClient.Close()

	var halls search.CatalogCollaborator = repo
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Redis at %s unreachable, catalog reads fall through: %v", cfg.RedisAddr, err)
		}
		halls = catalog.NewCached(repo, rdb, cfg.CatalogCacheTTL)
	}

	hub := websocket.NewHub()
	go hub.Run()

	m := metrics.New()

	// Initialize services
	consoleService := service.NewConsoleService(service.Dependencies{
		Searcher:       func(tenantID string) search.SearchCollaborator { return repo.ForTenant(tenantID) },
		Catalog:        halls,
		Mutation:       repo,
		Availability:   availability.NewService(repo, temporalClient, cfg.Temporal.TaskQueue, cfg.SlotHoldDuration),
		Publisher:      hub,
		Metrics:        m,
		PageSize:       cfg.DefaultPageSize,
		FenceResponses: cfg.FenceSearchResponses,
	})

	h := handlers.NewHandler(consoleService)
	r := router.NewRouter(h, hub.ServeWS, m.Handler())

	// Create HTTP server
	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API Server starting on %s", listenAddr)
		log.Printf("Connected to Temporal server at %s", cfg.Temporal.Host)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
