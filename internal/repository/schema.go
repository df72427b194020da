package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the relational layout the worker expects. Migrations proper are
// owned by the deployment; this DDL exists for the seed command and tests.
const Schema = `
CREATE TABLE IF NOT EXISTS container (
    container_id   VARCHAR(20) PRIMARY KEY,
    operation_type VARCHAR(20) NOT NULL,
    weight         NUMERIC(10,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS storage (
    storage_id     VARCHAR(20) PRIMARY KEY,
    container_id   VARCHAR(20) NOT NULL UNIQUE REFERENCES container(container_id),
    storage_status VARCHAR(20) NOT NULL DEFAULT 'incomplete'
);

CREATE TABLE IF NOT EXISTS transport_mean (
    transportation_id VARCHAR(20) PRIMARY KEY,
    container_id      VARCHAR(20) NOT NULL REFERENCES container(container_id),
    storage_id        VARCHAR(20) NOT NULL REFERENCES storage(storage_id),
    check_in          TIMESTAMP,
    check_out         TIMESTAMP
);

CREATE TABLE IF NOT EXISTS process_instance (
    process_instance_key BIGINT PRIMARY KEY,
    description          TEXT NOT NULL
);

CREATE OR REPLACE VIEW active_operations AS
SELECT c.container_id, c.operation_type, c.weight,
       s.storage_id, s.storage_status,
       COALESCE(t.transportation_id, '') AS transportation_id
FROM container c
JOIN storage s ON c.container_id = s.container_id
LEFT JOIN transport_mean t ON c.container_id = t.container_id
WHERE s.storage_status <> 'complete';
`

// ApplySchema creates the tables and view if they do not exist.
func ApplySchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
