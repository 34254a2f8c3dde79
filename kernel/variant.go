// Package kernel implements the per-node prediction and posterior-update
// formulas a compiled Sequence dispatches on: the actual belief-propagation
// math, grounded on original_source/pyhgf's per-node update functions but
// written the teacher's way — small interchangeable-strategy types rather
// than free functions keyed by string name (mirrors solver.Solver's
// Vanilla/RMSProp/AdamSolver split in solver/*.go).
package kernel

import "fmt"

// Variant selects which of the three volatility-level posterior-update
// formulas a VolatileState node uses (spec.md §4.4). It is baked into the
// compiled Sequence at compile time rather than dispatched per step
// (spec.md §9 "Update-variant dispatch").
type Variant int

const (
	// Standard is the precision-first closed-form update.
	Standard Variant = iota
	// EHGF is the mean-first update using the expected (not posterior)
	// precision, grounded on volatile_node_posterior_update_ehgf.py.
	EHGF
	// Unbounded blends two quadratic approximations via a smoothed
	// rectangular weighting function, grounded on
	// volatile_node_posterior_update_unbounded.py.
	Unbounded
)

func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case EHGF:
		return "ehgf"
	case Unbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// VolatilityUpdater computes the posterior mean/precision of a
// VolatileState node's implicit volatility level from its current
// predicted state and the value-level prediction error it just absorbed.
// The three Variant values each have one concrete implementation in
// volatility.go; updateVolatilityLevel obtains the one for the compiled
// Step's Variant from updaterFor on every call.
type VolatilityUpdater interface {
	UpdateVolatility(n *volatilityInput) volatilityResult
}

func updaterFor(v Variant) (VolatilityUpdater, error) {
	switch v {
	case Standard:
		return standardUpdater{}, nil
	case EHGF:
		return ehgfUpdater{}, nil
	case Unbounded:
		return unboundedUpdater{}, nil
	default:
		return nil, fmt.Errorf("kernel: unknown variant %d", int(v))
	}
}
