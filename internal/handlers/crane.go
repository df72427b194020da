package handlers

import (
	"context"
	"time"

	"github.com/Srinijakk/port-workflow1/internal/variables"
	"github.com/Srinijakk/port-workflow1/pkg/models"
)

// Crane operator identifiers reported back to the engine.
const (
	craneLoadingOperator   = "CRANE-OP-001"
	craneUnloadingOperator = "CRANE-OP-002"
	unloadingZone          = "ZONE-A1"
)

var craneLoadingStages = []Stage{
	{"positioning crane", time.Second},
	{"attaching container", time.Second},
	{"lifting container", time.Second},
	{"moving to target location", time.Second},
	{"lowering container", time.Second},
}

var craneUnloadingStages = []Stage{
	{"positioning crane", time.Second},
	{"attaching to container", time.Second},
	{"lifting container", time.Second},
	{"moving to unloading zone", time.Second},
	{"placing container", time.Second},
}

// CraneHandler handles crane loading and unloading. The container row is
// read only for logging context: a container may legitimately be registered
// after the crane moves it, so absence is a warning, not a failure. The
// handler itself never writes to the store.
type CraneHandler struct {
	deps      Deps
	unloading bool
}

// NewCraneLoadingHandler creates the crane_loading handler.
func NewCraneLoadingHandler(deps Deps) *CraneHandler {
	return &CraneHandler{deps: deps}
}

// NewCraneUnloadingHandler creates the crane_unloading handler.
func NewCraneUnloadingHandler(deps Deps) *CraneHandler {
	return &CraneHandler{deps: deps, unloading: true}
}

func (h *CraneHandler) Kind() Kind {
	if h.unloading {
		return KindCraneUnloading
	}
	return KindCraneLoading
}

func (h *CraneHandler) Handle(ctx context.Context, job Job) (variables.VariableSet, error) {
	vars := job.Variables
	if err := Validate(h.Kind(), vars); err != nil {
		return vars, err
	}
	if err := ctx.Err(); err != nil {
		return vars, err
	}

	fallback := models.OperationLoading
	if h.unloading {
		fallback = models.OperationUnloading
	}
	opType := effectiveOperationType(vars, fallback)

	log := h.deps.Log.With("job", job.Key, "container", vars.ContainerID, "transport", vars.TransportationID)
	log.Info("starting crane operation", "kind", h.Kind())

	detail, err := h.deps.Store.GetContainer(ctx, vars.ContainerID)
	switch {
	case err != nil:
		log.Warn("container lookup failed, continuing", "error", err)
	case detail == nil:
		log.Warn("container not registered yet, continuing",
			"warning", (&NotFoundError{ContainerID: vars.ContainerID}).Error())
	default:
		log.Info("container state", "weight_kg", detail.Weight, "storage_status", detail.StorageStatus)
	}

	stages := craneLoadingStages
	if h.unloading {
		stages = craneUnloadingStages
	}
	h.deps.Sim.Run(log, stages)

	timestamp := h.deps.clock().Format(models.TimestampLayout)

	out := vars.Clone()
	if h.unloading {
		out.Set("craneUnloadingStatus", "completed")
		out.Set("craneUnloadingTimestamp", timestamp)
		out.Set("craneOperator", craneUnloadingOperator)
		out.Set("unloadingZone", unloadingZone)
	} else {
		out.Set("craneLoadingStatus", "completed")
		out.Set("craneLoadingTimestamp", timestamp)
		out.Set("craneOperator", craneLoadingOperator)
	}
	reassertRouting(&out, vars.ContainerID, vars.TransportationID, opType)

	log.Info("crane operation completed", "kind", h.Kind())
	return out, nil
}
