package handlers

import (
	"time"

	"github.com/Srinijakk/port-workflow1/internal/logging"
)

// Stage is one named step of a simulated physical action.
type Stage struct {
	Name     string
	Duration time.Duration
}

// ActionSimulator runs the ordered stage sequence standing in for real
// equipment. A sequence always runs to completion: cancellation can only
// take effect before it starts or after it ends, never mid-stage.
type ActionSimulator interface {
	Run(log *logging.Logger, stages []Stage)
}

// SleepSimulator incurs each stage's nominal wall-clock duration.
type SleepSimulator struct{}

func (SleepSimulator) Run(log *logging.Logger, stages []Stage) {
	for _, stage := range stages {
		log.Info(stage.Name)
		time.Sleep(stage.Duration)
	}
}

// InstantSimulator logs the stages without any delay. Used when simulation
// delays are disabled and in tests.
type InstantSimulator struct{}

func (InstantSimulator) Run(log *logging.Logger, stages []Stage) {
	for _, stage := range stages {
		log.Debug(stage.Name)
	}
}
