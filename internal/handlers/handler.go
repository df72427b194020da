// Package handlers implements the step handlers of the port workflow: one
// per job kind, each following validate -> read -> simulate -> persist ->
// merge. Handlers are stateless; a stub store makes each one independently
// testable.
package handlers

import (
	"context"
	"time"

	"github.com/Srinijakk/port-workflow1/internal/logging"
	"github.com/Srinijakk/port-workflow1/internal/repository"
	"github.com/Srinijakk/port-workflow1/internal/variables"
)

// Kind identifies a job type as named by the workflow engine.
type Kind string

const (
	KindCraneLoading   Kind = "crane_loading"
	KindCraneUnloading Kind = "crane_unloading"
	KindWeighing       Kind = "weighing"
	KindStorage        Kind = "storage"
	KindTruckCheckin   Kind = "truck_checkin"
	KindTruckCheckout  Kind = "truck_checkout"
)

// Job is one unit of work delivered by the engine.
type Job struct {
	Key                int64
	ProcessInstanceKey int64
	Variables          variables.VariableSet
}

// Handler executes one step kind against the store and returns the merged
// variable set for the engine to route on.
type Handler interface {
	Kind() Kind
	Handle(ctx context.Context, job Job) (variables.VariableSet, error)
}

// Deps carries the collaborators every handler needs. Now is injectable so
// tests control minted timestamps.
type Deps struct {
	Store repository.PortStore
	Sim   ActionSimulator
	Log   *logging.Logger
	Now   func() time.Time
}

func (d Deps) clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// reassertRouting re-applies the three fields the engine's branching logic
// depends on, so no overlay can drop them between input and output.
func reassertRouting(out *variables.VariableSet, containerID, transportationID, operationType string) {
	out.ContainerID = containerID
	out.TransportationID = transportationID
	out.OperationType = operationType
}

// effectiveOperationType falls back to a handler's default when the job did
// not carry one, keeping downstream gateway routing possible.
func effectiveOperationType(vars variables.VariableSet, fallback string) string {
	if vars.Provided(variables.KeyOperationType) {
		return vars.OperationType
	}
	return fallback
}
