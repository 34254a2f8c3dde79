package graph

import "fmt"

// Graph is the frozen, immutable topology produced by Builder.Freeze.
// Only attribute *values* mutate after this point (spec.md §3 Lifecycle);
// Nodes is never resized or reordered again.
type Graph struct {
	Nodes []Node
}

// Freeze validates the builder's node table and returns an immutable
// Graph. Validation covers (spec.md §4.1): DAG-ness over value+volatility
// parent edges, coupling-vector/edge-list length parity, and a Categorical
// node's category count and binary-state parents. It does not check
// per-kind live fields; attrs.NewStore gives every field a default. All
// failures are configuration errors (spec.md §7.1).
func (b *Builder) Freeze() (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	g := &Graph{Nodes: b.nodes}

	if err := checkAcyclic(g.Nodes); err != nil {
		return nil, err
	}
	if err := checkCouplingLengths(g.Nodes); err != nil {
		return nil, err
	}
	if err := checkCategoricalShape(g.Nodes); err != nil {
		return nil, err
	}
	return g, nil
}

// checkAcyclic runs Kahn's algorithm over the union of value-parent and
// volatility-parent edges, taken parent -> child and starting from the
// nodes that have no parents. A DAG admits a full topological order; any leftover
// in-degree after the queue empties indicates a cycle.
func checkAcyclic(nodes []Node) error {
	n := len(nodes)
	indeg := make([]int, n)
	children := make([][]int, n)
	for i, node := range nodes {
		for _, p := range node.ValueParents {
			indeg[i]++
			children[p] = append(children[p], i)
		}
		for _, p := range node.VolatilityParents {
			indeg[i]++
			children[p] = append(children[p], i)
		}
	}
	queue := make([]int, 0, n)
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	visited := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		visited++
		for _, c := range children[i] {
			indeg[c]--
			if indeg[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	if visited != n {
		return fmt.Errorf("%w: value/volatility parent edges do not form a DAG", ErrCycle)
	}
	return nil
}

func checkCouplingLengths(nodes []Node) error {
	for i, node := range nodes {
		if len(node.ValueCouplingInit) != len(node.ValueParents) {
			return fmt.Errorf("%w: node %d value coupling length %d != %d parents",
				ErrCouplingLength, i, len(node.ValueCouplingInit), len(node.ValueParents))
		}
		if len(node.VolatilityCouplingInit) != len(node.VolatilityParents) {
			return fmt.Errorf("%w: node %d volatility coupling length %d != %d parents",
				ErrCouplingLength, i, len(node.VolatilityCouplingInit), len(node.VolatilityParents))
		}
		if len(node.CouplingFns) != len(node.ValueChildren) {
			return fmt.Errorf("%w: node %d coupling_fn length %d != %d children",
				ErrCouplingLength, i, len(node.CouplingFns), len(node.ValueChildren))
		}
	}
	return nil
}

func checkCategoricalShape(nodes []Node) error {
	for i, node := range nodes {
		if node.Kind != Categorical {
			continue
		}
		if node.NCategories != 0 && node.NCategories != len(node.ValueParents) {
			return fmt.Errorf("%w: categorical node %d declares %d categories but has %d binary value parents",
				ErrShape, i, node.NCategories, len(node.ValueParents))
		}
		for _, p := range node.ValueParents {
			if nodes[p].Kind != BinaryState {
				return fmt.Errorf("%w: categorical node %d value parent %d is not binary-state", ErrShape, i, p)
			}
		}
	}
	return nil
}
