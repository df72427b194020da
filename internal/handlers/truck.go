package handlers

import (
	"context"
	"time"

	"github.com/Srinijakk/port-workflow1/internal/logging"
	"github.com/Srinijakk/port-workflow1/internal/variables"
	"github.com/Srinijakk/port-workflow1/pkg/models"
)

const (
	gateCheckinOperator  = "GATE-OP-001"
	gateCheckoutOperator = "GATE-OP-002"
)

var truckCheckinStages = []Stage{
	{"verifying truck documents", 500 * time.Millisecond},
	{"inspecting vehicle", 500 * time.Millisecond},
}

var truckCheckoutStages = []Stage{
	{"verifying cargo documentation", 500 * time.Millisecond},
	{"final vehicle inspection", 500 * time.Millisecond},
}

// TruckHandler handles gate check-in and check-out. A caller-supplied
// timestamp (from a restarted scenario) is reused verbatim; otherwise one is
// minted at the point of call. The persisted update touches only its own
// column, so re-running check-in never disturbs check-out and vice versa.
type TruckHandler struct {
	deps     Deps
	checkout bool
}

// NewTruckCheckinHandler creates the truck_checkin handler.
func NewTruckCheckinHandler(deps Deps) *TruckHandler {
	return &TruckHandler{deps: deps}
}

// NewTruckCheckoutHandler creates the truck_checkout handler.
func NewTruckCheckoutHandler(deps Deps) *TruckHandler {
	return &TruckHandler{deps: deps, checkout: true}
}

func (h *TruckHandler) Kind() Kind {
	if h.checkout {
		return KindTruckCheckout
	}
	return KindTruckCheckin
}

func (h *TruckHandler) Handle(ctx context.Context, job Job) (variables.VariableSet, error) {
	vars := job.Variables
	if err := Validate(h.Kind(), vars); err != nil {
		return vars, err
	}
	if err := ctx.Err(); err != nil {
		return vars, err
	}

	opType := effectiveOperationType(vars, "unknown")
	log := h.deps.Log.With("job", job.Key, "transport", vars.TransportationID)
	log.Info("starting truck gate operation", "kind", h.Kind())

	supplied := vars.CheckIn
	key := variables.KeyCheckIn
	if h.checkout {
		supplied = vars.CheckOut
		key = variables.KeyCheckOut
	}

	stamp, ts := h.resolveTimestamp(log, key, supplied)

	stages := truckCheckinStages
	if h.checkout {
		stages = truckCheckoutStages
	}
	h.deps.Sim.Run(log, stages)

	if h.checkout && vars.Provided(variables.KeyCheckIn) {
		h.reportDuration(log, vars.CheckIn, stamp)
	}

	var checkIn, checkOut *time.Time
	if h.checkout {
		checkOut = &ts
	} else {
		checkIn = &ts
	}
	rows, err := h.deps.Store.UpdateTransportTimestamps(ctx, vars.TransportationID, checkIn, checkOut)
	if err != nil {
		// Best-effort persistence: the job still completes.
		log.Error("transport timestamp update failed", "error", err)
	} else if rows == 0 {
		log.Warn("no transport record matched the update")
	} else {
		log.Info("transport timestamps updated", key, stamp)
	}

	out := vars.Clone()
	if h.checkout {
		out.CheckOut = stamp
		out.Set("truckCheckOutStatus", "completed")
		out.Set("truckCheckOutOperator", gateCheckoutOperator)
	} else {
		out.CheckIn = stamp
		out.Set("truckCheckInStatus", "completed")
		out.Set("truckCheckInOperator", gateCheckinOperator)
	}
	reassertRouting(&out, vars.ContainerID, vars.TransportationID, opType)

	log.Info("truck gate operation completed", "kind", h.Kind())
	return out, nil
}

// resolveTimestamp prefers a caller-supplied value over minting a new one.
// A supplied value that does not parse in the fixed pattern is replaced.
func (h *TruckHandler) resolveTimestamp(log *logging.Logger, key, supplied string) (string, time.Time) {
	if supplied != "" && supplied != variables.Sentinel {
		ts, err := time.Parse(models.TimestampLayout, supplied)
		if err == nil {
			log.Info("using existing timestamp", key, supplied)
			return supplied, ts
		}
		log.Warn("supplied timestamp does not parse, minting a new one", key, supplied)
	}
	ts := h.deps.clock()
	stamp := ts.Format(models.TimestampLayout)
	log.Info("generated timestamp", key, stamp)
	return stamp, ts
}

// reportDuration logs time spent on site. Best-effort: a value that fails to
// parse only costs the log line.
func (h *TruckHandler) reportDuration(log *logging.Logger, checkIn, checkOut string) {
	in, errIn := time.Parse(models.TimestampLayout, checkIn)
	out, errOut := time.Parse(models.TimestampLayout, checkOut)
	if errIn != nil || errOut != nil {
		log.Warn("could not calculate gate duration")
		return
	}
	log.Info("gate duration", "minutes", out.Sub(in).Minutes())
}
