package graph

// Node is the static, post-freeze topology of one node: its kind and the
// index lists of its value/volatility parents and children. Coupling
// *weights* are live attributes (see package attrs) since the coupling
// learner mutates them every step; only the link-function tag is fixed
// topology, carried here parallel to ValueChildren per the builder's
// positional-correspondence invariant (spec.md §3 Edge).
type Node struct {
	Kind Kind

	ValueParents       []int
	ValueChildren       []int
	VolatilityParents   []int
	VolatilityChildren  []int

	// ValueCouplingInit/VolatilityCouplingInit hold the initial coupling
	// weight for each entry of ValueParents/VolatilityParents, positionally
	// parallel. attrs.NewStore seeds the live coupling vectors from these.
	ValueCouplingInit      []float64
	VolatilityCouplingInit []float64

	// CouplingFns holds the link function applied when this node predicts
	// each of its ValueChildren, positionally parallel to ValueChildren.
	CouplingFns []CouplingFn

	// NCategories is only meaningful for Kind == Categorical: the number
	// of binary value parents expected beneath this aggregator.
	NCategories int

	// AutoconnectionStrength seeds VolatilityCouplingInternal for
	// VolatileState nodes. AddLayer/AddLayerStack also set it on the
	// ContinuousState nodes they create, where attrs.NewStore does not
	// read it.
	AutoconnectionStrength float64

	// Dim is the sufficient-statistic dimension for Kind == EFState.
	Dim int

	// Init carries scalar initial-value overrides supplied to AddNodes
	// (e.g. "mean", "precision", "tonic_volatility"), read by
	// attrs.NewStore when seeding the live store. Keys match the
	// lower-snake-case field names used throughout spec.md §3.
	Init map[string]float64

	// InitVec carries vector initial-value overrides (e.g. "alpha" for a
	// Categorical node, "xis"/"nus" for an EFState node).
	InitVec map[string][]float64
}

func (n *Node) addValueChild(child int, fn CouplingFn) {
	n.ValueChildren = append(n.ValueChildren, child)
	n.CouplingFns = append(n.CouplingFns, fn)
}

func (n *Node) addVolatilityChild(child int) {
	n.VolatilityChildren = append(n.VolatilityChildren, child)
}
