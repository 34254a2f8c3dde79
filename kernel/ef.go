package kernel

import (
	"hgf/attrs"
	"hgf/graph"
)

// predictEF advances an exponential-family node's sufficient-statistic
// vector (nus, the expected natural parameters) by a value-coupling pull
// from its parents, the same drift shape predictContinuous uses but
// applied componentwise since an EFState node's state is a vector
// (spec.md §3 ef_parameters, §4.5).
func predictEF(nodes []attrs.Node, g *graph.Graph, idx int, dt float64) {
	n := &nodes[idx]
	gn := &g.Nodes[idx]

	if len(n.Nus) == 0 {
		return
	}
	for d := range n.Nus {
		drift := 0.0
		for j, parent := range gn.ValueParents {
			fn := couplingFnParentToChild(g, parent, idx)
			drift += n.ValueCouplingParents[j] * fn.Apply(nodes[parent].Mean)
		}
		n.Nus[d] += dt * drift
	}
}

// updateEF folds each value child's sufficient statistic into this
// node's xis, a running precision-weighted average analogous to
// updateValueLevel's scalar accumulation but carried per vector
// component (spec.md §4.5).
func updateEF(nodes []attrs.Node, g *graph.Graph, idx int) {
	n := &nodes[idx]
	gn := &g.Nodes[idx]

	for d := range n.Xis {
		sum := n.Nus[d]
		count := 1.0
		for _, child := range gn.ValueChildren {
			cn := &nodes[child]
			if d < len(cn.Xis) {
				sum += cn.Xis[d]
				count++
			}
		}
		n.Xis[d] = sum / count
	}
}
