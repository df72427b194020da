// Package worker dispatches incoming jobs to their step handlers. The
// dispatch table replaces the hidden per-connection registration the
// external engine's client libraries favor: handlers are plain values bound
// to an injected store, so each one is testable on its own.
package worker

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Srinijakk/port-workflow1/internal/handlers"
	"github.com/Srinijakk/port-workflow1/internal/logging"
	"github.com/Srinijakk/port-workflow1/internal/tracker"
	"github.com/Srinijakk/port-workflow1/internal/variables"
)

// UnknownKindError reports a job kind no handler is registered for.
type UnknownKindError struct {
	Kind handlers.Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("no handler registered for job kind %q", e.Kind)
}

// Dispatcher routes jobs by kind, records process-instance audit context
// around every job, and counts outcomes.
type Dispatcher struct {
	table      map[handlers.Kind]handlers.Handler
	tracker    *tracker.Tracker
	log        *logging.Logger
	jobsDone   metric.Int64Counter
	jobsFailed metric.Int64Counter
}

// New creates a Dispatcher with an empty table.
func New(tr *tracker.Tracker, log *logging.Logger) *Dispatcher {
	meter := otel.Meter("port-workflow/worker")
	jobsDone, _ := meter.Int64Counter("jobs.completed")
	jobsFailed, _ := meter.Int64Counter("jobs.failed")
	return &Dispatcher{
		table:      make(map[handlers.Kind]handlers.Handler),
		tracker:    tr,
		log:        log,
		jobsDone:   jobsDone,
		jobsFailed: jobsFailed,
	}
}

// Register adds a handler to the table under its own kind.
func (d *Dispatcher) Register(h handlers.Handler) {
	d.table[h.Kind()] = h
}

// Kinds returns the registered job kinds.
func (d *Dispatcher) Kinds() []handlers.Kind {
	kinds := make([]handlers.Kind, 0, len(d.table))
	for k := range d.table {
		kinds = append(kinds, k)
	}
	return kinds
}

// Dispatch runs one job. The process-instance start is recorded best-effort
// before the handler runs; a successful storage job additionally records the
// run's completion, since storage is the final physical step of the flow.
func (d *Dispatcher) Dispatch(ctx context.Context, kind handlers.Kind, job handlers.Job) (variables.VariableSet, error) {
	h, ok := d.table[kind]
	if !ok {
		return job.Variables, &UnknownKindError{Kind: kind}
	}

	d.tracker.RecordStart(ctx, job.ProcessInstanceKey,
		job.Variables.OperationType, job.Variables.ContainerID, job.Variables.TransportationID)

	out, err := h.Handle(ctx, job)
	attrs := metric.WithAttributes(attribute.String("kind", string(kind)))
	if err != nil {
		d.jobsFailed.Add(ctx, 1, attrs)
		d.log.Error("job failed", "kind", kind, "job", job.Key, "error", err)
		return out, err
	}
	d.jobsDone.Add(ctx, 1, attrs)

	if kind == handlers.KindStorage {
		d.tracker.RecordCompletion(ctx, job.ProcessInstanceKey, "completed")
	}
	return out, nil
}
