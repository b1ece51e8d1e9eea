package main

import (
	"context"
	"log"

	"github.com/cx-tal-miterani/hall-booking-console/shared/config"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/cx-tal-miterani/hall-booking-console/temporal-worker/internal/activities"
	"github.com/cx-tal-miterani/hall-booking-console/temporal-worker/internal/repository"
	"github.com/cx-tal-miterani/hall-booking-console/temporal-worker/internal/workflows"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	pflag.Parse()

	var cfg config.Worker
	if err := config.Load(*envFile, &cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Connect to database
	log.Println("Connecting to database...")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	repo := repository.NewRepository(pool)

	// Connect to Temporal
	log.Printf("Connecting to Temporal at %s...", cfg.Temporal.Host)
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.Host,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Temporal: %v", err)
	}
	defer c.Close()
	log.Println("Connected to Temporal")

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflowWithOptions(workflows.HallHoldWorkflow, workflow.RegisterOptions{Name: models.HallHoldWorkflowName})

	acts := activities.NewActivities(repo)
	w.RegisterActivityWithOptions(acts.ExpireHold, activity.RegisterOptions{Name: workflows.ExpireHoldActivity})

	log.Printf("Starting Temporal worker on %s...", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
