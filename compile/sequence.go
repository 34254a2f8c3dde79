// Package compile implements the update-sequence compiler: it turns a
// frozen graph.Graph into the ordered (node, kernel) lists a Driver
// executes every step, baking the chosen volatility-update Variant in at
// compile time rather than dispatching on it per node per step
// (spec.md §9 "Update-variant dispatch").
package compile

import (
	"fmt"
	"sort"

	"hgf/graph"
	"hgf/kernel"
)

// Step is one (node, kernel) pair in a compiled sequence.
type Step struct {
	NodeIdx int
	Kind    graph.Kind
	Variant kernel.Variant // meaningful only when Kind == graph.VolatileState
}

// Sequence is the pair of ordered step lists produced by Build.
type Sequence struct {
	Prediction []Step
	Update     []Step
}

// Build computes a topological order over g's value+volatility parent
// edges (children before parents, ascending node index as the tie-break)
// and emits the prediction/update step lists. Input-kind nodes (§3) carry
// no prediction step of their own — they have no mean/precision to
// predict, only an update step that absorbs the observation and computes
// surprise (spec.md §4.2 "Input-node-only actions").
//
// Both lists share the same children-before-parents order. spec.md §4.2
// describes Update as visiting "the reverse order" of Prediction, but the
// kernels it names (grounded on original_source's binary_input_update /
// binary_node_update / volatile_node_posterior_update) read each node's
// CHILDREN's just-finalised posterior mean and prediction error — data
// that only exists once the child's own update step has already run. A
// parent-before-child update order would read stale child state. We
// therefore resolve this as an Open Question (DESIGN.md): Update runs
// children-before-parents, identical to Prediction's order, which is the
// only order consistent with the kernels' actual data dependencies.
// Prediction order is unaffected by this: §4.3's formulas only read a
// node's parents' *previous* timestep posterior, so prediction has no
// same-step ordering dependency at all, and the compiler's choice of
// order is solely what makes the sequence reproducible (spec.md §4.2
// contract, §8 determinism property).
func Build(g *graph.Graph, variant kernel.Variant) (Sequence, error) {
	order, err := childrenBeforeParents(g.Nodes)
	if err != nil {
		return Sequence{}, err
	}

	var seq Sequence
	for _, idx := range order {
		kind := g.Nodes[idx].Kind
		if !kind.IsInput() {
			seq.Prediction = append(seq.Prediction, Step{NodeIdx: idx, Kind: kind, Variant: variant})
		}
		seq.Update = append(seq.Update, Step{NodeIdx: idx, Kind: kind, Variant: variant})
	}
	return seq, nil
}

// childrenBeforeParents returns a topological order in which every node
// precedes all of its value/volatility parents, ties broken by ascending
// index (Kahn's algorithm seeded with a sorted queue).
func childrenBeforeParents(nodes []graph.Node) ([]int, error) {
	n := len(nodes)
	indeg := make([]int, n)
	parentsOf := make([][]int, n)
	for i, node := range nodes {
		parentsOf[i] = append(parentsOf[i], node.ValueParents...)
		parentsOf[i] = append(parentsOf[i], node.VolatilityParents...)
	}
	for i := range nodes {
		for _, p := range parentsOf[i] {
			indeg[p]++
		}
	}
	queue := make([]int, 0, n)
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		sort.Ints(queue)
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		for _, p := range parentsOf[i] {
			indeg[p]--
			if indeg[p] == 0 {
				queue = append(queue, p)
			}
		}
	}
	if len(order) != n {
		return nil, fmt.Errorf("compile: graph is not a DAG")
	}
	return order, nil
}
