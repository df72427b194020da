// Package scenario rebuilds startable workflow scenarios from persisted
// relational state, so runs can be started or resumed without violating
// entity invariants.
package scenario

import (
	"context"

	"github.com/Srinijakk/port-workflow1/internal/logging"
	"github.com/Srinijakk/port-workflow1/internal/repository"
	"github.com/Srinijakk/port-workflow1/internal/variables"
	"github.com/Srinijakk/port-workflow1/pkg/models"
)

// Reconstructor derives initial variable sets from the store. Results are
// recomputed fresh on every call; nothing is cached.
type Reconstructor struct {
	store repository.PortStore
	log   *logging.Logger
}

// NewReconstructor creates a Reconstructor.
func NewReconstructor(store repository.PortStore, log *logging.Logger) *Reconstructor {
	return &Reconstructor{store: store, log: log}
}

// ListStartableScenarios joins transport, container and storage rows and
// emits one variable set per well-formed combination, ordered by
// (transportation_id, container_id). A truck missing either gate timestamp
// is excluded entirely: restarting it would violate the check-in/check-out
// invariant.
func (r *Reconstructor) ListStartableScenarios(ctx context.Context) ([]variables.VariableSet, error) {
	assignments, err := r.store.ListTransportAssignments(ctx)
	if err != nil {
		return nil, err
	}

	scenarios := make([]variables.VariableSet, 0, len(assignments))
	for _, a := range assignments {
		if a.IsTruck() && (a.CheckIn == nil || a.CheckOut == nil) {
			r.log.Warn("skipping truck with missing timestamps", "transport", a.TransportationID)
			continue
		}

		var vs variables.VariableSet
		vs.ContainerID = a.ContainerID
		vs.TransportationID = a.TransportationID
		vs.OperationType = a.OperationType
		vs.Weight = a.Weight
		vs.HasWeight = true
		vs.StorageStatus = a.StorageStatus
		if a.IsTruck() {
			vs.CheckIn = a.CheckIn.Format(models.TimestampLayout)
			vs.CheckOut = a.CheckOut.Format(models.TimestampLayout)
		}
		scenarios = append(scenarios, vs)
	}

	r.log.Info("scenarios reconstructed", "count", len(scenarios))
	return scenarios, nil
}
