package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Srinijakk/port-workflow1/internal/config"
	"github.com/Srinijakk/port-workflow1/internal/logging"
	"github.com/Srinijakk/port-workflow1/internal/repository"
	"github.com/Srinijakk/port-workflow1/pkg/models"
)

// seedRow describes one container plus its storage and transport rows.
type seedRow struct {
	ContainerID      string
	OperationType    string
	Weight           float64
	TransportationID string
	CheckIn          *time.Time
	CheckOut         *time.Time
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger("port-seed")

	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to DB
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	if err := repository.ApplySchema(ctx, pool); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	logger.Info("schema applied")

	store := repository.NewPostgresPortStore(pool)
	var seeder repository.Seeder = store

	// Check existing containers to keep the seed idempotent.
	existing, err := store.ListContainers(ctx)
	if err != nil {
		log.Fatalf("Failed to list containers: %v", err)
	}
	existingMap := make(map[string]bool)
	for _, c := range existing {
		existingMap[c.ContainerID] = true
	}

	now := time.Now().Truncate(time.Second)
	earlier := now.Add(-45 * time.Minute)

	rows := []seedRow{
		{"C1001", models.OperationLoading, 12000, "truck101", &earlier, &now},
		{"C1002", models.OperationUnloading, 18500, "truck102", &earlier, &now},
		{"C1003", models.OperationLoading, 9800, "truck103", &earlier, nil},
		{"C1004", models.OperationUnloading, 22000, "truck104", nil, nil},
		{"C1005", models.OperationLoading, 15500, "ship9109", nil, nil},
		{"C1006", models.OperationUnloading, 27300, "ship9110", nil, nil},
		{"C1007", models.OperationLoading, 35000, "truck105", &earlier, &now},
		{"C1008", models.OperationUnloading, 8400, "ship9111", nil, nil},
		{"C1009", models.OperationLoading, 19900, "truck106", &earlier, &now},
		{"C1010", models.OperationUnloading, 30100, "ship9112", nil, nil},
	}

	for _, r := range rows {
		if existingMap[r.ContainerID] {
			logger.Info("Skipping existing container", "container_id", r.ContainerID)
			continue
		}

		if err := seeder.CreateContainer(ctx, &models.Container{
			ContainerID:   r.ContainerID,
			OperationType: r.OperationType,
			Weight:        r.Weight,
		}); err != nil {
			log.Printf("Failed to create container %s: %v", r.ContainerID, err)
			continue
		}

		storageID := "S-" + uuid.New().String()[:8]
		if err := seeder.CreateStorageRecord(ctx, &models.StorageRecord{
			StorageID:     storageID,
			ContainerID:   r.ContainerID,
			StorageStatus: models.StorageIncomplete,
		}); err != nil {
			log.Printf("Failed to create storage record for %s: %v", r.ContainerID, err)
			continue
		}

		if err := seeder.CreateTransportMean(ctx, &models.TransportMean{
			TransportationID: r.TransportationID,
			ContainerID:      r.ContainerID,
			StorageID:        storageID,
			CheckIn:          r.CheckIn,
			CheckOut:         r.CheckOut,
		}); err != nil {
			log.Printf("Failed to create transport mean %s: %v", r.TransportationID, err)
			continue
		}

		logger.Info("Seeded container", "container_id", r.ContainerID, "transportation_id", r.TransportationID, "storage_id", storageID)
	}
	logger.Info("Seeding complete!")
}
