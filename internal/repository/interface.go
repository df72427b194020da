package repository

import (
	"context"
	"time"

	"github.com/Srinijakk/port-workflow1/pkg/models"
)

// PortStore is the narrow read/write surface the handlers, tracker and
// scenario reconstructor need from the relational store.
type PortStore interface {
	// GetContainer retrieves a container joined with its storage and
	// transport rows. A missing container returns (nil, nil).
	GetContainer(ctx context.Context, containerID string) (*models.ContainerDetail, error)
	// UpdateStorageStatus sets the storage status for a container and
	// returns the number of rows the write matched.
	UpdateStorageStatus(ctx context.Context, containerID, status string) (int64, error)
	// UpdateTransportTimestamps partially updates the gate timestamps of
	// a transport mean; only non-nil values are written. Returns the
	// number of rows matched.
	UpdateTransportTimestamps(ctx context.Context, transportationID string, checkIn, checkOut *time.Time) (int64, error)
	// ListActiveOperations returns containers whose storage is not yet
	// complete.
	ListActiveOperations(ctx context.Context) ([]*models.ActiveOperation, error)
	// ListTransportAssignments returns the transport/container/storage
	// join ordered by (transportation_id, container_id).
	ListTransportAssignments(ctx context.Context) ([]*models.TransportAssignment, error)
	// ListContainers returns every container with its joined rows.
	ListContainers(ctx context.Context) ([]*models.ContainerDetail, error)

	// UpsertProcessInstance creates or fully replaces the audit row for a
	// process instance key.
	UpsertProcessInstance(ctx context.Context, key int64, description string) error
	// AppendProcessInstanceCompletion appends a suffix to an existing
	// audit row's description. An unknown key is a silent no-op.
	AppendProcessInstanceCompletion(ctx context.Context, key int64, suffix string) error
	// ListProcessInstances returns the audit rows, newest key first.
	ListProcessInstances(ctx context.Context) ([]*models.ProcessInstance, error)
}

// Seeder is the write surface used only by the seed command and tests;
// the worker core never creates these entities.
type Seeder interface {
	CreateContainer(ctx context.Context, c *models.Container) error
	CreateStorageRecord(ctx context.Context, s *models.StorageRecord) error
	CreateTransportMean(ctx context.Context, t *models.TransportMean) error
}
