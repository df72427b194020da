package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Srinijakk/port-workflow1/pkg/models"
)

// PostgresPortStore is a PostgreSQL implementation of the PortStore
// interface. Each call acquires a pooled connection for its own duration.
type PostgresPortStore struct {
	db *pgxpool.Pool
}

// NewPostgresPortStore creates a new PostgresPortStore.
func NewPostgresPortStore(db *pgxpool.Pool) *PostgresPortStore {
	return &PostgresPortStore{db: db}
}

const containerDetailQuery = `
SELECT c.container_id, c.operation_type, c.weight,
       COALESCE(s.storage_id, ''), COALESCE(s.storage_status, ''),
       COALESCE(t.transportation_id, ''), t.check_in, t.check_out
FROM container c
LEFT JOIN storage s ON c.container_id = s.container_id
LEFT JOIN transport_mean t ON c.container_id = t.container_id`

// GetContainer retrieves a container joined with its storage and transport
// rows. A missing container returns (nil, nil).
func (s *PostgresPortStore) GetContainer(ctx context.Context, containerID string) (*models.ContainerDetail, error) {
	var d models.ContainerDetail
	err := s.db.QueryRow(ctx, containerDetailQuery+" WHERE c.container_id = $1", containerID).Scan(
		&d.ContainerID, &d.OperationType, &d.Weight,
		&d.StorageID, &d.StorageStatus,
		&d.TransportationID, &d.CheckIn, &d.CheckOut,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get container %s: %w", containerID, err)
	}
	return &d, nil
}

// UpdateStorageStatus sets the storage status for a container.
func (s *PostgresPortStore) UpdateStorageStatus(ctx context.Context, containerID, status string) (int64, error) {
	tag, err := s.db.Exec(ctx,
		"UPDATE storage SET storage_status = $1 WHERE container_id = $2",
		status, containerID)
	if err != nil {
		return 0, fmt.Errorf("update storage status for %s: %w", containerID, err)
	}
	return tag.RowsAffected(), nil
}

// UpdateTransportTimestamps partially updates a transport mean's gate
// timestamps; only supplied columns are touched.
func (s *PostgresPortStore) UpdateTransportTimestamps(ctx context.Context, transportationID string, checkIn, checkOut *time.Time) (int64, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if checkIn != nil {
		args = append(args, *checkIn)
		sets = append(sets, fmt.Sprintf("check_in = $%d", len(args)))
	}
	if checkOut != nil {
		args = append(args, *checkOut)
		sets = append(sets, fmt.Sprintf("check_out = $%d", len(args)))
	}
	if len(sets) == 0 {
		return 0, errors.New("no timestamp values provided for update")
	}
	args = append(args, transportationID)
	query := fmt.Sprintf("UPDATE transport_mean SET %s WHERE transportation_id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update transport timestamps for %s: %w", transportationID, err)
	}
	return tag.RowsAffected(), nil
}

// ListActiveOperations returns the rows of the active_operations view.
func (s *PostgresPortStore) ListActiveOperations(ctx context.Context) ([]*models.ActiveOperation, error) {
	rows, err := s.db.Query(ctx, `
SELECT container_id, operation_type, weight, storage_id, storage_status, transportation_id
FROM active_operations`)
	if err != nil {
		return nil, fmt.Errorf("list active operations: %w", err)
	}
	defer rows.Close()

	var ops []*models.ActiveOperation
	for rows.Next() {
		var op models.ActiveOperation
		if err := rows.Scan(&op.ContainerID, &op.OperationType, &op.Weight,
			&op.StorageID, &op.StorageStatus, &op.TransportationID); err != nil {
			return nil, err
		}
		ops = append(ops, &op)
	}
	return ops, rows.Err()
}

// ListTransportAssignments returns the transport/container/storage join in
// deterministic order.
func (s *PostgresPortStore) ListTransportAssignments(ctx context.Context) ([]*models.TransportAssignment, error) {
	rows, err := s.db.Query(ctx, `
SELECT c.container_id, c.operation_type, c.weight,
       t.transportation_id, s.storage_status, t.check_in, t.check_out
FROM transport_mean t
JOIN container c ON t.container_id = c.container_id
JOIN storage s ON t.storage_id = s.storage_id
ORDER BY t.transportation_id, c.container_id`)
	if err != nil {
		return nil, fmt.Errorf("list transport assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.TransportAssignment
	for rows.Next() {
		var a models.TransportAssignment
		if err := rows.Scan(&a.ContainerID, &a.OperationType, &a.Weight,
			&a.TransportationID, &a.StorageStatus, &a.CheckIn, &a.CheckOut); err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	return assignments, rows.Err()
}

// ListContainers returns every container with its joined rows.
func (s *PostgresPortStore) ListContainers(ctx context.Context) ([]*models.ContainerDetail, error) {
	rows, err := s.db.Query(ctx, containerDetailQuery+" ORDER BY c.container_id")
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	defer rows.Close()

	var containers []*models.ContainerDetail
	for rows.Next() {
		var d models.ContainerDetail
		if err := rows.Scan(&d.ContainerID, &d.OperationType, &d.Weight,
			&d.StorageID, &d.StorageStatus,
			&d.TransportationID, &d.CheckIn, &d.CheckOut); err != nil {
			return nil, err
		}
		containers = append(containers, &d)
	}
	return containers, rows.Err()
}

// UpsertProcessInstance creates or fully replaces the audit row for a key.
func (s *PostgresPortStore) UpsertProcessInstance(ctx context.Context, key int64, description string) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO process_instance (process_instance_key, description)
VALUES ($1, $2)
ON CONFLICT (process_instance_key) DO UPDATE SET description = EXCLUDED.description`,
		key, description)
	if err != nil {
		return fmt.Errorf("upsert process instance %d: %w", key, err)
	}
	return nil
}

// AppendProcessInstanceCompletion appends a suffix to an existing audit
// row's description. An unknown key is a silent no-op.
//
// Read-then-write without a transaction: concurrent completions for the same
// key can lose one suffix. Known race, tolerated for audit data.
func (s *PostgresPortStore) AppendProcessInstanceCompletion(ctx context.Context, key int64, suffix string) error {
	var existing string
	err := s.db.QueryRow(ctx,
		"SELECT description FROM process_instance WHERE process_instance_key = $1", key).
		Scan(&existing)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read process instance %d: %w", key, err)
	}

	_, err = s.db.Exec(ctx,
		"UPDATE process_instance SET description = $1 WHERE process_instance_key = $2",
		existing+suffix, key)
	if err != nil {
		return fmt.Errorf("append completion for process instance %d: %w", key, err)
	}
	return nil
}

// ListProcessInstances returns the audit rows, newest key first.
func (s *PostgresPortStore) ListProcessInstances(ctx context.Context) ([]*models.ProcessInstance, error) {
	rows, err := s.db.Query(ctx, `
SELECT process_instance_key, description
FROM process_instance
ORDER BY process_instance_key DESC`)
	if err != nil {
		return nil, fmt.Errorf("list process instances: %w", err)
	}
	defer rows.Close()

	var instances []*models.ProcessInstance
	for rows.Next() {
		var pi models.ProcessInstance
		if err := rows.Scan(&pi.ProcessInstanceKey, &pi.Description); err != nil {
			return nil, err
		}
		instances = append(instances, &pi)
	}
	return instances, rows.Err()
}

// CreateContainer inserts a container row.
func (s *PostgresPortStore) CreateContainer(ctx context.Context, c *models.Container) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO container (container_id, operation_type, weight) VALUES ($1, $2, $3)",
		c.ContainerID, c.OperationType, c.Weight)
	return err
}

// CreateStorageRecord inserts a storage row.
func (s *PostgresPortStore) CreateStorageRecord(ctx context.Context, rec *models.StorageRecord) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO storage (storage_id, container_id, storage_status) VALUES ($1, $2, $3)",
		rec.StorageID, rec.ContainerID, rec.StorageStatus)
	return err
}

// CreateTransportMean inserts a transport row.
func (s *PostgresPortStore) CreateTransportMean(ctx context.Context, t *models.TransportMean) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO transport_mean (transportation_id, container_id, storage_id, check_in, check_out)
VALUES ($1, $2, $3, $4, $5)`,
		t.TransportationID, t.ContainerID, t.StorageID, t.CheckIn, t.CheckOut)
	return err
}
