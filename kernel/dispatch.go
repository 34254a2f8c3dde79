package kernel

import (
	"fmt"

	"hgf/attrs"
	"hgf/graph"
)

// Predict computes node idx's expected mean/precision (and, for
// VolatileState, its expected volatility-level state) from its own prior
// state and its parents' previous-step posterior. Called once per
// non-input node per step, in the order compile.Build emits (spec.md
// §4.2); the formulas here only read *previous* timestep values, so the
// order among sibling nodes never matters (see compile/sequence.go).
func Predict(nodes []attrs.Node, g *graph.Graph, idx int, dt float64) error {
	switch g.Nodes[idx].Kind {
	case graph.ContinuousState:
		predictContinuous(nodes, g, idx, dt)
		return nil
	case graph.VolatileState:
		predictContinuous(nodes, g, idx, dt)
		predictVolatilityLevel(nodes, g, idx, dt)
		return nil
	case graph.EFState:
		predictEF(nodes, g, idx, dt)
		return nil
	case graph.BinaryState:
		predictBinary(nodes, g, idx)
		return nil
	default:
		return fmt.Errorf("kernel: Predict called on input node %d (%v)", idx, g.Nodes[idx].Kind)
	}
}

// Update computes node idx's posterior from its children's just-absorbed
// prediction errors (for a state node) or absorbs an external observation
// (for an input node; a binary input also writes the closed-form
// posterior into its value parent). Called once per node per step,
// children before parents (compile/sequence.go).
func Update(nodes []attrs.Node, g *graph.Graph, idx int, variant Variant) error {
	switch g.Nodes[idx].Kind {
	case graph.ContinuousState:
		updateValueLevel(nodes, g, idx)
		return nil
	case graph.VolatileState:
		updateValueLevel(nodes, g, idx)
		return updateVolatilityLevel(nodes, g, idx, variant)
	case graph.EFState:
		updateEF(nodes, g, idx)
		return nil
	case graph.BinaryState:
		// Already written directly by this node's binary-input child
		// (updateBinaryInput); nothing left to accumulate here since a
		// binary state has exactly one posterior (no separate
		// volatility level) and pyhgf's binary_node_update performs the
		// write as part of the child's own step.
		return nil
	case graph.ContinuousInput:
		updateContinuousInput(nodes, g, idx)
		return nil
	case graph.BinaryInput:
		return updateBinaryInput(nodes, g, idx)
	case graph.Categorical:
		return updateCategorical(nodes, g, idx)
	default:
		return fmt.Errorf("kernel: unknown kind %v at node %d", g.Nodes[idx].Kind, idx)
	}
}

// couplingWeight returns the value-coupling weight on the edge
// (parent, child), read from the child's live ValueCouplingParents vector
// at the position matching parent in child's static ValueParents list
// (spec.md §3 Invariants: the two are positionally parallel).
func couplingWeight(nodes []attrs.Node, g *graph.Graph, parent, child int) float64 {
	for j, p := range g.Nodes[child].ValueParents {
		if p == parent {
			return nodes[child].ValueCouplingParents[j]
		}
	}
	return 0
}

func volatilityCouplingWeight(nodes []attrs.Node, g *graph.Graph, parent, child int) float64 {
	for j, p := range g.Nodes[child].VolatilityParents {
		if p == parent {
			return nodes[child].VolatilityCouplingParents[j]
		}
	}
	return 0
}

// couplingFnParentToChild returns the link function the parent applies
// when predicting child, read from the parent's CouplingFns at the
// position matching child in the parent's ValueChildren list.
func couplingFnParentToChild(g *graph.Graph, parent, child int) graph.CouplingFn {
	for j, c := range g.Nodes[parent].ValueChildren {
		if c == child {
			return g.Nodes[parent].CouplingFns[j]
		}
	}
	return graph.Identity
}
