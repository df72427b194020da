package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Srinijakk/port-workflow1/internal/config"
	"github.com/Srinijakk/port-workflow1/internal/engine"
	"github.com/Srinijakk/port-workflow1/internal/logging"
	"github.com/Srinijakk/port-workflow1/internal/repository"
	"github.com/Srinijakk/port-workflow1/internal/scenario"
	"github.com/Srinijakk/port-workflow1/internal/variables"
)

func main() {
	var (
		mode  string
		delay time.Duration
	)

	root := &cobra.Command{
		Use:          "port-starter",
		Short:        "Reconstruct port scenarios and start workflow instances",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), mode, delay)
		},
	}
	root.Flags().StringVar(&mode, "mode", "sequential", "start mode: sequential, parallel or test")
	root.Flags().DurationVar(&delay, "delay", 2*time.Second, "delay between starts in sequential mode")

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, delay time.Duration) error {
	logger := logging.NewLogger("port-starter")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return err
	}

	var creds *clientcredentials.Config
	if cfg.Engine.OAuth.TokenURL != "" {
		creds = &clientcredentials.Config{
			ClientID:     cfg.Engine.OAuth.ClientID,
			ClientSecret: cfg.Engine.OAuth.ClientSecret,
			TokenURL:     cfg.Engine.OAuth.TokenURL,
		}
	}
	client := engine.NewHTTPClient(cfg.Engine.URL, creds)

	if mode == "test" {
		return runTest(ctx, client, cfg, logger)
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	defer pool.Close()

	store := repository.NewPostgresPortStore(pool)
	reconstructor := scenario.NewReconstructor(store, logger.Named("scenario"))
	starter := scenario.NewStarter(client, cfg.Engine.ProcessID, logger.Named("starter"))

	scenarios, err := reconstructor.ListStartableScenarios(ctx)
	if err != nil {
		logger.Error("failed to reconstruct scenarios", "error", err)
		return err
	}
	logger.Info("scenarios reconstructed", "count", len(scenarios))

	var summary scenario.Summary
	switch mode {
	case "sequential":
		summary = starter.StartSequential(ctx, scenarios, delay)
	case "parallel":
		summary = starter.StartParallel(ctx, scenarios)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	fmt.Printf("started %d of %d workflows (%d failed)\n", summary.Succeeded, summary.Total, summary.Failed)
	fmt.Printf("  trucks: %d, ships: %d, loading: %d, unloading: %d\n",
		summary.Trucks, summary.Ships, summary.Loading, summary.Unloading)
	if summary.Failed > 0 {
		return fmt.Errorf("%d workflow starts failed", summary.Failed)
	}
	return nil
}

// runTest starts a single hard-coded scenario against the engine without
// touching the database. Useful for checking engine connectivity.
func runTest(ctx context.Context, client engine.Client, cfg *config.Config, logger *logging.Logger) error {
	vars := variables.VariableSet{
		ContainerID:      "C1001",
		TransportationID: "truck101",
		OperationType:    "loading",
		Weight:           12000,
		HasWeight:        true,
	}

	key, err := client.CreateInstance(ctx, cfg.Engine.ProcessID, vars)
	if err != nil {
		logger.Error("test start failed", "error", err)
		return err
	}
	fmt.Printf("started test workflow, process instance key %d\n", key)
	return nil
}
