package kernel

import (
	"math"

	"hgf/attrs"
	"hgf/graph"
	"hgf/mathx"

	"gonum.org/v1/gonum/floats"
)

// predictContinuous computes the expected mean/precision of a
// ContinuousState or VolatileState node's value level (spec.md §4.3).
// The expected mean is a drift plus a coupling-weighted pull from each
// value parent's previous posterior mean, passed through that parent's
// link function for this edge; the expected precision comes from
// inverting a predicted variance that inflates the node's own process
// variance by an exp(volatility) term contributed by each volatility
// parent.
func predictContinuous(nodes []attrs.Node, g *graph.Graph, idx int, dt float64) {
	n := &nodes[idx]
	gn := &g.Nodes[idx]

	pulled := make([]float64, len(gn.ValueParents))
	for j, parent := range gn.ValueParents {
		fn := couplingFnParentToChild(g, parent, idx)
		pulled[j] = fn.Apply(nodes[parent].Mean)
	}
	drift := n.TonicDrift + floats.Dot(n.ValueCouplingParents, pulled)
	n.ExpectedMean = n.Mean + dt*drift

	volParentMeans := make([]float64, len(gn.VolatilityParents))
	for j, parent := range gn.VolatilityParents {
		volParentMeans[j] = nodes[parent].Mean
	}
	logVol := n.TonicVolatility + floats.Dot(n.VolatilityCouplingParents, volParentMeans)
	if gn.Kind == graph.VolatileState {
		// A VolatileState node's value level is driven by its own implicit
		// volatility level rather than (only) external volatility parents:
		// the same VolatilityCouplingInternal*MeanVol term
		// updateVolatilityLevel already folds into its own nu (spec.md §3
		// volatility_coupling_internal, §8 scenario 6: a combined volatile
		// node's value level must match the explicit 2-node construction's
		// continuous value parent, whose predicted variance widens with the
		// volatility parent's mean).
		logVol += n.VolatilityCouplingInternal * n.MeanVol
	}
	variance := 1/n.Precision + dt*mathx.ClipExp(logVol)
	n.CurrentVariance = variance
	n.ExpectedPrecision = 1 / variance
}

// updateValueLevel computes a ContinuousState or VolatileState node's
// posterior value-level mean/precision from the prediction errors its
// value children just absorbed (spec.md §4.3, generalising
// original_source/pyhgf's per-child-kind accumulation so a node's
// children may be any mix of continuous and binary state/input kinds).
//
// A continuous-kind child c contributes psi^2 * pihat_c to the precision
// sum and psi * pihat_c * vape_c to the mean numerator, where vape_c =
// mean_c - expected_mean_c (pyhgf's "value prediction error"). A
// binary-state child contributes 1/pihat_c to the precision sum and
// vape_c (unweighted: the coupling weight on a binary edge is always 1)
// to the mean numerator, per pyhgf.binary.binary_node_update.
func updateValueLevel(nodes []attrs.Node, g *graph.Graph, idx int) {
	n := &nodes[idx]
	n.Precision, n.Mean = ProspectivePosterior(nodes, g, idx)
}

// ProspectivePosterior computes what node idx's value-level posterior
// precision/mean would be given its value children's current prediction
// errors, without mutating the store. updateValueLevel commits this
// result directly; learn.Apply calls it a second time, against the same
// already-updated children, to infer the "prospective reconfiguration"
// mean a value parent's coupling weight should explain (spec.md §4.6),
// grounded on posterior_update_precision_value_level /
// posterior_update_mean_value_level
// (original_source/pyhgf/updates/posterior/volatile/
// volatile_node_posterior_update.py) and their use in
// original_source/pyhgf/updates/learning.py's learning_weights_fixed/
// learning_weights_dynamic, which recompute the parent's posterior this
// way rather than trust its already-committed one so the learner's result
// does not depend on whether it runs before or after that parent's own
// update step this timestep.
func ProspectivePosterior(nodes []attrs.Node, g *graph.Graph, idx int) (precision, mean float64) {
	n := &nodes[idx]
	gn := &g.Nodes[idx]

	precision = n.ExpectedPrecision
	numerator := 0.0
	for _, child := range gn.ValueChildren {
		cn := &nodes[child]
		if g.Nodes[child].Kind.IsInput() && !cn.Observed {
			// An unobserved input carries no prediction error this step.
			continue
		}
		vape := cn.Mean - cn.ExpectedMean
		switch g.Nodes[child].Kind {
		case graph.BinaryState:
			precision += 1 / cn.ExpectedPrecision
			numerator += vape
		default:
			psi := couplingWeight(nodes, g, idx, child)
			precision += psi * psi * cn.ExpectedPrecision
			numerator += psi * cn.ExpectedPrecision * vape
		}
	}
	mean = n.ExpectedMean + numerator/precision
	return precision, mean
}

// updateContinuousInput absorbs an external observation: the input's
// "mean" becomes the observed value outright (an input has no prior of
// its own to blend with, spec.md §3), and its surprise is the negative
// log density of that observation under the predicted Gaussian formed by
// its value parent's expected mean/precision and the input's own
// observation noise.
func updateContinuousInput(nodes []attrs.Node, g *graph.Graph, idx int) {
	n := &nodes[idx]

	expectedMean := 0.0
	for _, parent := range g.Nodes[idx].ValueParents {
		fn := couplingFnParentToChild(g, parent, idx)
		expectedMean += couplingWeight(nodes, g, parent, idx) * fn.Apply(nodes[parent].ExpectedMean)
	}
	n.ExpectedMean = expectedMean

	if !n.Observed {
		// Missing-data step (ObservationMode Deprived, spec.md §9): leave
		// the value parent's posterior at its predicted (expected) state.
		return
	}
	n.Mean = n.ObservedValue
	n.Precision = n.InputPrecision
	n.ExpectedPrecision = n.InputPrecision

	if len(g.Nodes[idx].ValueParents) == 0 {
		return
	}
	parent := g.Nodes[idx].ValueParents[0]
	pn := &nodes[parent]
	totalPrecision := 1 / (1/pn.ExpectedPrecision + 1/n.InputPrecision)
	n.Surprise = -mathx.SafeLog(math.Sqrt(totalPrecision/(2*math.Pi))) +
		0.5*totalPrecision*(n.ObservedValue-expectedMean)*(n.ObservedValue-expectedMean)
}
