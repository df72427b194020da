package scenario

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Srinijakk/port-workflow1/internal/engine"
	"github.com/Srinijakk/port-workflow1/internal/logging"
	"github.com/Srinijakk/port-workflow1/internal/variables"
)

// Summary counts the outcome of one starter run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Trucks    int
	Ships     int
	Loading   int
	Unloading int
}

// Starter creates one workflow instance per scenario through the engine.
type Starter struct {
	client    engine.Client
	processID string
	log       *logging.Logger
}

// NewStarter creates a Starter for the given process definition.
func NewStarter(client engine.Client, processID string, log *logging.Logger) *Starter {
	return &Starter{client: client, processID: processID, log: log}
}

// StartOne starts a single workflow instance, guarding the routing-critical
// transport id before the request goes out.
func (s *Starter) StartOne(ctx context.Context, vars variables.VariableSet) bool {
	if vars.TransportationID == "" {
		s.log.Error("transportationId missing, refusing to start", "container", vars.ContainerID)
		return false
	}

	key, err := s.client.CreateInstance(ctx, s.processID, vars)
	if err != nil {
		s.log.Error("failed to start workflow", "container", vars.ContainerID, "error", err)
		return false
	}
	s.log.Info("workflow started",
		"container", vars.ContainerID,
		"transport", vars.TransportationID,
		"operation", vars.OperationType,
		"process_instance_key", key,
	)
	return true
}

// StartSequential starts scenarios one at a time with a fixed inter-start
// delay.
func (s *Starter) StartSequential(ctx context.Context, scenarios []variables.VariableSet, delay time.Duration) Summary {
	summary := tally(scenarios)
	for i, vars := range scenarios {
		s.log.Info("starting workflow", "index", i+1, "total", len(scenarios))
		if s.StartOne(ctx, vars) {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if i < len(scenarios)-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				summary.Failed += len(scenarios) - i - 1
				return summary
			}
		}
	}
	return summary
}

// StartParallel starts every scenario at once. There is deliberately no
// concurrency cap or admission control here; the engine is expected to
// absorb the burst.
func (s *Starter) StartParallel(ctx context.Context, scenarios []variables.VariableSet) Summary {
	summary := tally(scenarios)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, vars := range scenarios {
		wg.Add(1)
		go func(vars variables.VariableSet) {
			defer wg.Done()
			if s.StartOne(ctx, vars) {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(vars)
	}
	wg.Wait()

	summary.Succeeded = succeeded
	summary.Failed = summary.Total - succeeded
	return summary
}

func tally(scenarios []variables.VariableSet) Summary {
	summary := Summary{Total: len(scenarios)}
	for _, vars := range scenarios {
		if strings.HasPrefix(vars.TransportationID, "truck") {
			summary.Trucks++
		} else if strings.HasPrefix(vars.TransportationID, "ship") {
			summary.Ships++
		}
		switch vars.OperationType {
		case "loading":
			summary.Loading++
		case "unloading":
			summary.Unloading++
		}
	}
	return summary
}
