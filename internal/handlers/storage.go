package handlers

import (
	"context"
	"time"

	"github.com/Srinijakk/port-workflow1/internal/variables"
	"github.com/Srinijakk/port-workflow1/pkg/models"
)

const storageOperator = "STORAGE-OP-001"

var storageStages = []Stage{
	{"processing storage operation", 500 * time.Millisecond},
	{"transporting to storage location", 1500 * time.Millisecond},
	{"positioning container", time.Second},
	{"securing container", time.Second},
	{"finalizing storage", 500 * time.Millisecond},
}

// StorageHandler moves a container's storage record to complete. The
// transition is idempotent: completing an already-complete record is a
// no-op success, and the status never goes back. A missing container aborts
// the job; a write that matched no row is reported, not raised.
type StorageHandler struct {
	deps Deps
}

// NewStorageHandler creates the storage handler.
func NewStorageHandler(deps Deps) *StorageHandler {
	return &StorageHandler{deps: deps}
}

func (h *StorageHandler) Kind() Kind { return KindStorage }

func (h *StorageHandler) Handle(ctx context.Context, job Job) (variables.VariableSet, error) {
	vars := job.Variables
	if err := Validate(KindStorage, vars); err != nil {
		return vars, err
	}
	if err := ctx.Err(); err != nil {
		return vars, err
	}

	opType := effectiveOperationType(vars, "unknown")
	log := h.deps.Log.With("job", job.Key, "container", vars.ContainerID)
	log.Info("starting storage operation")

	detail, err := h.deps.Store.GetContainer(ctx, vars.ContainerID)
	if err != nil {
		return vars, err
	}
	if detail == nil {
		return vars, &NotFoundError{ContainerID: vars.ContainerID}
	}
	log.Info("container state", "weight_kg", detail.Weight, "storage_status", detail.StorageStatus)

	h.deps.Sim.Run(log, storageStages)

	updated := true
	rows, err := h.deps.Store.UpdateStorageStatus(ctx, vars.ContainerID, models.StorageComplete)
	if err != nil {
		// Best-effort persistence: the job still completes.
		log.Error("storage status update failed", "error", err)
		updated = false
	} else if rows == 0 {
		log.Warn("no storage record matched the update")
		updated = false
	} else {
		log.Info("storage status updated", "storage_status", models.StorageComplete)
	}

	out := variables.ToExternal(variables.EntityFields{
		variables.FieldStorageStatus: models.StorageComplete,
	}, vars)
	out.Set("storageTimestamp", h.deps.clock().Format(models.TimestampLayout))
	out.Set("storageOperator", storageOperator)
	out.Set("storageId", detail.StorageID)
	out.Set("storageDbUpdated", updated)
	reassertRouting(&out, vars.ContainerID, vars.TransportationID, opType)

	log.Info("storage completed", "storage_status", models.StorageComplete)
	return out, nil
}
