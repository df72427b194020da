package handlers

import (
	"context"
	"time"

	"github.com/Srinijakk/port-workflow1/internal/variables"
	"github.com/Srinijakk/port-workflow1/pkg/models"
)

// MaxContainerWeightKg is the ISO standard maximum gross weight for a
// loaded container.
const MaxContainerWeightKg = 30480.0

// Weight statuses reported to the engine.
const (
	WeightOK         = "OK"
	WeightOverweight = "OVERWEIGHT"
)

const (
	scaleID          = "SCALE-001"
	weighingOperator = "WEIGH-OP-001"
)

var weighingStages = []Stage{
	{"positioning container on scale", time.Second},
	{"calibrating scale", 500 * time.Millisecond},
	{"measuring weight", time.Second},
}

// WeighingHandler reads the container's weight from the store and derives a
// weight status against the fixed maximum. Pure read: it never mutates the
// store, and a missing container aborts the job.
type WeighingHandler struct {
	deps Deps
}

// NewWeighingHandler creates the weighing handler.
func NewWeighingHandler(deps Deps) *WeighingHandler {
	return &WeighingHandler{deps: deps}
}

func (h *WeighingHandler) Kind() Kind { return KindWeighing }

func (h *WeighingHandler) Handle(ctx context.Context, job Job) (variables.VariableSet, error) {
	vars := job.Variables
	if err := Validate(KindWeighing, vars); err != nil {
		return vars, err
	}
	if err := ctx.Err(); err != nil {
		return vars, err
	}

	opType := effectiveOperationType(vars, "unknown")
	log := h.deps.Log.With("job", job.Key, "container", vars.ContainerID)
	log.Info("starting weighing operation")

	detail, err := h.deps.Store.GetContainer(ctx, vars.ContainerID)
	if err != nil {
		return vars, err
	}
	if detail == nil {
		return vars, &NotFoundError{ContainerID: vars.ContainerID}
	}

	h.deps.Sim.Run(log, weighingStages)

	weightStatus := WeightOK
	if detail.Weight > MaxContainerWeightKg {
		weightStatus = WeightOverweight
		log.Warn("container exceeds maximum weight", "weight_kg", detail.Weight, "max_kg", MaxContainerWeightKg)
	} else {
		log.Info("weight within acceptable limits", "weight_kg", detail.Weight)
	}

	out := variables.ToExternal(variables.EntityFields{
		variables.FieldWeight: detail.Weight,
	}, vars)
	out.Set("weighingStatus", "completed")
	out.Set("weighingTimestamp", h.deps.clock().Format(models.TimestampLayout))
	out.Set("weightUnit", "kg")
	out.Set("weightStatus", weightStatus)
	out.Set("scaleId", scaleID)
	out.Set("weighingOperator", weighingOperator)
	reassertRouting(&out, vars.ContainerID, vars.TransportationID, opType)

	log.Info("weighing completed", "weight_kg", detail.Weight, "weight_status", weightStatus)
	return out, nil
}
