package kernel

import (
	"math"

	"hgf/attrs"
	"hgf/graph"
	"hgf/mathx"
)

// predictVolatilityLevel computes a VolatileState node's expected mean/
// precision on its implicit volatility (log-variance) level, the second
// coordinate a VolatileState carries alongside its value level (spec.md
// §4.4). The formula mirrors predictContinuous but over the
// Mean/Precision-Vol fields and the node's self (autoconnection) coupling
// rather than a value-coupling edge.
func predictVolatilityLevel(nodes []attrs.Node, g *graph.Graph, idx int, dt float64) {
	n := &nodes[idx]
	gn := &g.Nodes[idx]

	drift := n.VolatilityCouplingInternal * n.MeanVol
	for j, parent := range gn.VolatilityParents {
		drift += n.VolatilityCouplingParents[j] * nodes[parent].Mean
	}
	n.ExpectedMeanVol = n.MeanVol + dt*drift
	variance := 1/n.PrecisionVol + dt*mathx.ClipExp(n.TonicVolatilityVol)
	n.ExpectedPrecisionVol = 1 / variance
}

// volatilityInput bundles the quantities every variant's formula reads:
// the node's own predicted value-level state plus the summed precision-
// weighted prediction error its value children contributed this step
// (spec.md §4.4's "nu" and "vape" terms).
type volatilityInput struct {
	expectedMeanVol      float64
	expectedPrecisionVol float64
	expectedPrecision    float64 // pihat of the value level
	precision            float64 // posterior pi of the value level (already computed by updateValueLevel)
	nu                   float64 // dt * exp(tonic_volatility + coupling*meanVol), the predicted variance contribution
	volatilityCoupling   float64
}

type volatilityResult struct {
	meanVol      float64
	precisionVol float64
}

// updateVolatilityLevel finalises a VolatileState node's volatility-level
// posterior, after updateValueLevel has already set its value-level
// Precision/Mean for this step.
func updateVolatilityLevel(nodes []attrs.Node, g *graph.Graph, idx int, variant Variant) error {
	n := &nodes[idx]

	updater, err := updaterFor(variant)
	if err != nil {
		return err
	}

	nu := mathx.ClipExp(n.TonicVolatility + n.VolatilityCouplingInternal*n.MeanVol)
	in := &volatilityInput{
		expectedMeanVol:      n.ExpectedMeanVol,
		expectedPrecisionVol: n.ExpectedPrecisionVol,
		expectedPrecision:    n.ExpectedPrecision,
		precision:            n.Precision,
		nu:                   nu,
		volatilityCoupling:   n.VolatilityCouplingInternal,
	}
	out := updater.UpdateVolatility(in)
	n.MeanVol = out.meanVol
	n.PrecisionVol = out.precisionVol
	return nil
}

// standardUpdater is the precision-first closed form, grounded on
// volatile_node_posterior_update.py: the posterior precision of the
// volatility level comes first, from a variance-update term built out of
// the ratio of posterior to expected value-level precision, then the
// posterior mean follows from the usual expected-plus-correction form.
type standardUpdater struct{}

func (standardUpdater) UpdateVolatility(in *volatilityInput) volatilityResult {
	ratio := in.expectedPrecision / in.precision
	// vope is the value level's "volatility prediction error": how far the
	// realised value-level precision ratio deviates from what a correct
	// volatility estimate would have predicted.
	vope := ratio - 1 + in.expectedPrecision*in.nu*(1-ratio)
	precisionVol := in.expectedPrecisionVol + 0.5*in.volatilityCoupling*in.volatilityCoupling*in.nu*in.nu*
		(in.expectedPrecisionVol + in.volatilityCoupling*in.volatilityCoupling*0.5*vope*vope)
	if precisionVol <= 0 {
		precisionVol = in.expectedPrecisionVol
	}
	meanVol := in.expectedMeanVol + 0.5*in.volatilityCoupling*in.nu/precisionVol*vope
	return volatilityResult{meanVol: meanVol, precisionVol: precisionVol}
}

// ehgfUpdater is the mean-first variant, grounded on
// volatile_node_posterior_update_ehgf.py: it computes the volatility-level
// posterior mean first, dividing by the *expected* (not posterior)
// volatility-level precision, and only then the precision correction,
// which is cheaper and more stable than the standard variant at the cost
// of being a first-order approximation.
type ehgfUpdater struct{}

func (ehgfUpdater) UpdateVolatility(in *volatilityInput) volatilityResult {
	ratio := in.expectedPrecision / in.precision
	vope := ratio - 1 + in.expectedPrecision*in.nu*(1-ratio)
	meanVol := in.expectedMeanVol + 0.5*in.volatilityCoupling*in.nu/in.expectedPrecisionVol*vope
	precisionVol := in.expectedPrecisionVol + 0.5*in.volatilityCoupling*in.volatilityCoupling*in.nu*in.nu*
		math.Max(0, in.expectedPrecisionVol)
	if precisionVol <= 0 {
		precisionVol = in.expectedPrecisionVol
	}
	return volatilityResult{meanVol: meanVol, precisionVol: precisionVol}
}

// unboundedUpdater blends two quadratic approximations of the posterior
// (one accurate for small prediction errors, one for large) via a
// smoothed rectangular weighting function, grounded on
// volatile_node_posterior_update_unbounded.py. The clip(-80,80) guard and
// the 2+sqrt(3) constant (the inflection point of the weighting window)
// are carried over bit-for-bit since they are tuned constants, not
// derived ones.
type unboundedUpdater struct{}

const twoPlusSqrt3 = 2 + 1.7320508075688772 // 2 + sqrt(3)

func (unboundedUpdater) UpdateVolatility(in *volatilityInput) volatilityResult {
	ratio := in.expectedPrecision / in.precision
	vope := ratio - 1 + in.expectedPrecision*in.nu*(1-ratio)

	// L1: the small-prediction-error quadratic approximation (same shape
	// as the standard variant's correction).
	precisionVolL1 := in.expectedPrecisionVol + 0.5*in.volatilityCoupling*in.volatilityCoupling*in.nu*in.nu*
		math.Max(0, in.expectedPrecisionVol)
	meanVolL1 := in.expectedMeanVol + 0.5*in.volatilityCoupling*in.nu*precisionVolL1*vope

	// L2: the large-prediction-error quadratic approximation, which
	// saturates rather than blowing up as |vope| grows.
	bounded := mathx.ClipExp(-math.Abs(vope))
	precisionVolL2 := in.expectedPrecisionVol * bounded
	meanVolL2 := in.expectedMeanVol + 0.5*in.volatilityCoupling*in.nu*in.expectedPrecisionVol*bounded*vope

	weight := mathx.SmoothedRectangular(vope, -twoPlusSqrt3, 1, twoPlusSqrt3, 1)
	precisionVol := weight*precisionVolL1 + (1-weight)*precisionVolL2
	meanVol := weight*meanVolL1 + (1-weight)*meanVolL2
	if precisionVol <= 0 {
		precisionVol = in.expectedPrecisionVol
	}
	return volatilityResult{meanVol: meanVol, precisionVol: precisionVol}
}
