// Package tracker keeps the append-only audit trail of workflow runs in the
// process_instance table. Everything here is best-effort: a persistence
// error is logged and swallowed, never surfaced to the owning job.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Srinijakk/port-workflow1/internal/logging"
	"github.com/Srinijakk/port-workflow1/internal/repository"
	"github.com/Srinijakk/port-workflow1/pkg/models"
)

// Tracker records start and completion context per process instance key.
type Tracker struct {
	store repository.PortStore
	log   *logging.Logger
	now   func() time.Time
}

// New creates a Tracker. now may be nil, in which case time.Now is used.
func New(store repository.PortStore, log *logging.Logger, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, log: log, now: now}
}

// RecordStart upserts the audit row for a key with a freshly built
// description. Calling it again for the same key replaces the previous
// description wholesale; downstream audit consumers depend on that
// last-write-wins behavior, so it is not an append.
func (t *Tracker) RecordStart(ctx context.Context, key int64, operationType, containerID, transportationID string) {
	if key == 0 {
		return
	}

	parts := []string{fmt.Sprintf("Started: %s", t.now().Format(models.TimestampLayout))}
	if operationType != "" {
		parts = append(parts, fmt.Sprintf("Operation: %s", operationType))
	}
	if containerID != "" {
		parts = append(parts, fmt.Sprintf("Container: %s", containerID))
	}
	if transportationID != "" {
		parts = append(parts, fmt.Sprintf("Transport: %s", transportationID))
	}
	description := strings.Join(parts, ", ")

	if err := t.store.UpsertProcessInstance(ctx, key, description); err != nil {
		t.log.Warn("failed to record process instance start", "key", key, "error", err)
		return
	}
	t.log.Info("process instance recorded", "key", key, "description", description)
}

// RecordCompletion appends an end marker to the existing description. A key
// that was never recorded is a silent no-op.
func (t *Tracker) RecordCompletion(ctx context.Context, key int64, status string) {
	if key == 0 {
		return
	}

	suffix := fmt.Sprintf(", Ended: %s, Status: %s", t.now().Format(models.TimestampLayout), status)
	if err := t.store.AppendProcessInstanceCompletion(ctx, key, suffix); err != nil {
		t.log.Warn("failed to record process instance completion", "key", key, "error", err)
		return
	}
	t.log.Info("process instance completion recorded", "key", key, "status", status)
}
