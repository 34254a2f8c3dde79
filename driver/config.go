// Package driver runs the compiled belief-propagation sequence against a
// graph one step at a time, grounded on
// original_source/pyhgf/utils/beliefs_propagation.py's predict/observe/
// update/learn loop and the teacher's experiment.Online run-loop shape
// (experiment/Online.go).
package driver

import (
	"fmt"

	"hgf/kernel"
	"hgf/learn"
)

// ObservationMode selects how a step's input values are obtained, mirroring
// original_source/pyhgf/utils/beliefs_propagation.py's "observations"
// parameter.
type ObservationMode int

const (
	// External expects the caller to supply every input node's value for
	// the step (the default; spec.md §4.6/§4.7's ordinary usage).
	External ObservationMode = iota
	// Generative samples each input node's value from its own predictive
	// distribution instead of reading caller-supplied data, closing the
	// loop for simulation (spec.md §9 "Generative mode", supplemented
	// from original_source's third "observations" branch).
	Generative
	// Deprived skips observation assignment entirely: every input node's
	// Observed flag stays false and only the prediction sequence runs a
	// meaningful update (the missing-data case).
	Deprived
)

func (m ObservationMode) String() string {
	switch m {
	case External:
		return "external"
	case Generative:
		return "generative"
	case Deprived:
		return "deprived"
	default:
		return "unknown"
	}
}

// Config configures a Driver, following the teacher's Config-with-
// Validate construction idiom (agent/linear/discrete/qlearning/Config.go).
type Config struct {
	// Dt is the timestep duration used by every prediction formula.
	Dt float64
	// Variant selects the volatility-level posterior-update formula baked
	// into the compiled sequence.
	Variant kernel.Variant
	// LearningMode selects the coupling learner's weighting scheme.
	// Zero value (learn.Fixed) disables nothing; set LearningRate to 0 to
	// skip coupling learning entirely.
	LearningMode learn.Mode
	// LearningRate scales every coupling-weight update; 0 disables
	// learning.
	LearningRate float64
	// Observations selects how input values are obtained each step.
	Observations ObservationMode
	// Seed seeds the generative-mode sampler.
	Seed uint64
}

// Validate checks Config invariants before a Driver is built from it.
func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("driver: Dt must be positive, got %v", c.Dt)
	}
	if c.LearningRate < 0 {
		return fmt.Errorf("driver: LearningRate must be non-negative, got %v", c.LearningRate)
	}
	switch c.Variant {
	case kernel.Standard, kernel.EHGF, kernel.Unbounded:
	default:
		return fmt.Errorf("driver: unknown Variant %v", c.Variant)
	}
	switch c.Observations {
	case External, Generative, Deprived:
	default:
		return fmt.Errorf("driver: unknown ObservationMode %v", c.Observations)
	}
	return nil
}
