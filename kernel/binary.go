package kernel

import (
	"math"

	"hgf/attrs"
	"hgf/graph"
	"hgf/mathx"
)

// predictBinary computes a BinaryState node's expected probability from
// its value parents' previous-step posterior means mapped to the
// probability scale, grounded on
// pyhgf.binary.binary_node_prediction: muhat = sigmoid(mean of the
// parent driving this node's log-odds), pihat = 1/(muhat*(1-muhat)), the
// variance of a Bernoulli with that mean.
func predictBinary(nodes []attrs.Node, g *graph.Graph, idx int) {
	n := &nodes[idx]
	gn := &g.Nodes[idx]

	logOdds := 0.0
	for j, parent := range gn.ValueParents {
		fn := couplingFnParentToChild(g, parent, idx)
		logOdds += n.ValueCouplingParents[j] * fn.Apply(nodes[parent].Mean)
	}
	muhat := mathx.StdSigmoid(logOdds)
	n.ExpectedMean = muhat
	n.ExpectedPrecision = 1 / (muhat * (1 - muhat))
}

// updateBinaryInput absorbs a binary observation. pyhgf.binary.binary_
// input_update has two branches: when the input carries finite precision
// (eta0/eta1 distinguish two noisy emission channels), the posterior is a
// closed-form Bayes fusion of the two channel likelihoods; when the input
// precision is infinite (the Dirac/noiseless boundary, spec.md §3
// "π̂=∞"), the observation passes straight through and the value parent's
// posterior mean collapses to the observed 0/1 value itself.
//
// The result is written directly into idx's value parent (the
// BinaryState node), matching the push-style write pyhgf's
// binary_input_update performs; the BinaryState's own Update step
// (kernel.Update, case graph.BinaryState) is then a no-op.
func updateBinaryInput(nodes []attrs.Node, g *graph.Graph, idx int) error {
	n := &nodes[idx]
	if len(g.Nodes[idx].ValueParents) == 0 {
		return graph.ErrMissingFields
	}
	parent := g.Nodes[idx].ValueParents[0]
	pn := &nodes[parent]

	if !n.Observed {
		// Missing-data step: the parent's posterior collapses to its own
		// prediction, and no surprise is registered.
		pn.Mean = pn.ExpectedMean
		pn.Precision = pn.ExpectedPrecision
		n.Surprise = 0
		return nil
	}

	x := n.ObservedValue
	if math.IsInf(n.InputPrecision, 1) {
		pn.Mean = x
		pn.Precision = math.Inf(1)
	} else {
		lik1 := mathx.GaussianDensity(x, n.Eta1, n.InputPrecision)
		lik0 := mathx.GaussianDensity(x, n.Eta0, n.InputPrecision)
		muhat := pn.ExpectedMean
		num := muhat * lik1
		den := num + (1-muhat)*lik0
		pn.Mean = num / den
		pn.Precision = 1 / (pn.Mean * (1 - pn.Mean))
	}
	n.Surprise = mathx.BinarySurprise(x, pn.ExpectedMean)
	return nil
}
