// Package learn implements the coupling-weight learner: the "prospective
// reconfiguration" step that nudges a value-coupling weight towards
// whatever value would best explain the child's already-absorbed
// observation, grounded on original_source/pyhgf/updates/learning.py's
// learning_weights_fixed/learning_weights_dynamic.
package learn

import (
	"math"

	"hgf/attrs"
	"hgf/graph"
	"hgf/kernel"
)

// Mode selects the weighting applied to the learning-rate step.
type Mode int

const (
	// Fixed scales every edge's update by 1/n_parents * lr, independent
	// of how confident either endpoint currently is.
	Fixed Mode = iota
	// Dynamic additionally scales by each edge's share of the combined
	// expected precision of child and parent, so a confident edge moves
	// less than an uncertain one for the same lr.
	Dynamic
)

func (m Mode) String() string {
	switch m {
	case Fixed:
		return "fixed"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Apply runs one coupling-learning pass for node idx against every one of
// its value parents. For each parent it recomputes a *prospective*
// posterior mean via kernel.ProspectivePosterior — the same
// precision/mean a parent's own update step would commit, from the same
// already-absorbed child prediction errors — rather than trusting the
// parent's currently-stored posterior mean, per
// original_source/pyhgf/updates/learning.py's learning_weights_fixed/
// learning_weights_dynamic (which call
// posterior_update_precision_value_level/posterior_update_mean_value_level
// explicitly instead of reading attributes[value_parent_idx]["mu"]). This
// keeps the learner's result independent of whether it happens to run
// before or after that parent's own update step in the same timestep, and
// writes the updated weight into both endpoints' live coupling vectors.
func Apply(nodes []attrs.Node, g *graph.Graph, idx int, mode Mode, lr float64) {
	gn := &g.Nodes[idx]
	n := len(gn.ValueParents)
	if n == 0 {
		return
	}
	weighting := 1.0 / float64(n)

	for j, parent := range gn.ValueParents {
		cn := &nodes[idx]
		pn := &nodes[parent]
		oldWeight := cn.ValueCouplingParents[j]

		_, prospectiveMean := kernel.ProspectivePosterior(nodes, g, parent)

		fn := couplingFnParentToChild(g, parent, idx)
		gValue := fn.Apply(prospectiveMean)

		expected := cn.Mean / gValue
		if math.IsNaN(expected) || math.IsInf(expected, 0) {
			expected = oldWeight
		}

		// Dynamic mode weights by each endpoint's *prediction-time* expected
		// precision, not the prospective posterior computed above — using
		// the posterior here would reintroduce the very ordering asymmetry
		// this mode exists to avoid (spec.md §9 Open Question; learning.py's
		// dynamic branch reads attributes[...]["expected_precision"], never
		// the prospective_precision it only used to build prospective_mean).
		step := weighting
		if mode == Dynamic {
			step *= cn.ExpectedPrecision / (pn.ExpectedPrecision + cn.ExpectedPrecision)
		}
		newWeight := oldWeight + (expected-oldWeight)*lr*step
		if math.IsInf(newWeight, 0) {
			newWeight = oldWeight
		}

		setCoupling(nodes, g, parent, idx, newWeight)
	}
}

// couplingFnParentToChild mirrors kernel.couplingFnParentToChild: the
// link function lives on the parent, positionally parallel to its
// ValueChildren list.
func couplingFnParentToChild(g *graph.Graph, parent, child int) graph.CouplingFn {
	for j, c := range g.Nodes[parent].ValueChildren {
		if c == child {
			return g.Nodes[parent].CouplingFns[j]
		}
	}
	return graph.Identity
}

// setCoupling writes the new weight into both the child's
// ValueCouplingParents (positionally parallel to its ValueParents) and
// the parent's ValueCouplingChildren (positionally parallel to its
// ValueChildren), keeping the two live mirrors of the same edge in sync.
func setCoupling(nodes []attrs.Node, g *graph.Graph, parent, child int, weight float64) {
	for j, p := range g.Nodes[child].ValueParents {
		if p == parent {
			nodes[child].ValueCouplingParents[j] = weight
		}
	}
	for j, c := range g.Nodes[parent].ValueChildren {
		if c == child {
			nodes[parent].ValueCouplingChildren[j] = weight
		}
	}
}
