package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Srinijakk/port-workflow1/internal/api"
	"github.com/Srinijakk/port-workflow1/internal/auth"
	"github.com/Srinijakk/port-workflow1/internal/config"
	"github.com/Srinijakk/port-workflow1/internal/engine"
	"github.com/Srinijakk/port-workflow1/internal/handlers"
	"github.com/Srinijakk/port-workflow1/internal/logging"
	"github.com/Srinijakk/port-workflow1/internal/mcp"
	"github.com/Srinijakk/port-workflow1/internal/repository"
	"github.com/Srinijakk/port-workflow1/internal/scenario"
	tlsutil "github.com/Srinijakk/port-workflow1/internal/tls"
	"github.com/Srinijakk/port-workflow1/internal/tracker"
	"github.com/Srinijakk/port-workflow1/internal/worker"
)

func main() {
	root := &cobra.Command{
		Use:          "port-worker",
		Short:        "Port operations job worker and admin API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger := logging.NewLogger("port-worker")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return err
	}
	logger.Info("starting port operations worker", "db", cfg.DB.Name, "engine", cfg.Engine.URL)

	dbPool, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		return err
	}
	defer dbPool.Close()
	logger.Info("database connected")

	store := repository.NewPostgresPortStore(dbPool)

	tr := tracker.New(store, logger.Named("tracker"), nil)

	var sim handlers.ActionSimulator = handlers.SleepSimulator{}
	if cfg.Simulation.Disabled {
		sim = handlers.InstantSimulator{}
		logger.Info("simulation delays disabled")
	}
	deps := handlers.Deps{Store: store, Sim: sim, Log: logger.Named("handler")}

	dispatcher := worker.New(tr, logger.Named("dispatch"))
	dispatcher.Register(handlers.NewCraneLoadingHandler(deps))
	dispatcher.Register(handlers.NewCraneUnloadingHandler(deps))
	dispatcher.Register(handlers.NewWeighingHandler(deps))
	dispatcher.Register(handlers.NewStorageHandler(deps))
	dispatcher.Register(handlers.NewTruckCheckinHandler(deps))
	dispatcher.Register(handlers.NewTruckCheckoutHandler(deps))
	logger.Info("task handlers registered", "kinds", dispatcher.Kinds())

	reconstructor := scenario.NewReconstructor(store, logger.Named("scenario"))
	starter := scenario.NewStarter(engineClient(cfg), cfg.Engine.ProcessID, logger.Named("starter"))

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("port-worker"))

	// Initialize authentication
	authz, err := auth.New(ctx, cfg, logger.Named("auth"))
	if err != nil {
		logger.Error("failed to initialize auth", "error", err)
		return err
	}

	apiHandler := api.NewHandler()
	e.GET("/health", echo.WrapHandler(http.HandlerFunc(apiHandler.HandleHealth)))

	// Mount REST API handlers behind auth
	apiGroup := e.Group("/api/v1")
	apiGroup.Use(echo.WrapMiddleware(authz.RequireAuth))
	api.RegisterHandlers(apiGroup, api.NewServer(store, dispatcher, reconstructor))
	logger.Info("REST API handlers mounted")

	// Mount MCP protocol handlers
	mcpServer := mcp.NewServer(store, reconstructor, starter)
	mcpHandlers := http.NewServeMux()
	mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
	e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))
	logger.Info("MCP protocol handlers mounted")

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		// Job execution blocks on the simulated action stages, which can
		// take several seconds end to end.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", cfg.Server.Addr, "tls", cfg.TLS.Enable)
		if cfg.TLS.Enable {
			if _, err := os.Stat(cfg.TLS.CertFile); os.IsNotExist(err) && len(cfg.TLS.Hostnames) > 0 {
				if err := tlsutil.GenerateSelfSignedCert(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.Hostnames); err != nil {
					logger.Error("failed to generate self-signed cert", "error", err)
				}
			}
			serverErrors <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			return err
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("server close error", "error", err)
			}
		}

		logger.Info("server stopped gracefully")
	}
	return nil
}

func engineClient(cfg *config.Config) engine.Client {
	var creds *clientcredentials.Config
	if cfg.Engine.OAuth.TokenURL != "" {
		creds = &clientcredentials.Config{
			ClientID:     cfg.Engine.OAuth.ClientID,
			ClientSecret: cfg.Engine.OAuth.ClientSecret,
			TokenURL:     cfg.Engine.OAuth.TokenURL,
		}
	}
	return engine.NewHTTPClient(cfg.Engine.URL, creds)
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	logger.Debug("initializing database connection")

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
