package attrs

import (
	"math"

	"hgf/graph"
)

// Store is the whole-graph mutable state carried through one timestep:
// the single thing a Driver.Step reads and rewrites (spec.md §4.1/§5).
type Store struct {
	Nodes []Node
	// Time is the global time_step persisted by the driver each step
	// (spec.md §4.7: "persists time_step in the store").
	Time float64
}

// NewStore builds the initial Store for g, seeding every node's live
// fields from graph.Node.Init/InitVec and from kind-appropriate defaults
// (e.g. an infinite input precision boundary case per spec.md §3).
func NewStore(g *graph.Graph) Store {
	nodes := make([]Node, len(g.Nodes))
	for i, gn := range g.Nodes {
		n := Node{
			Precision:      1.0,
			ExpectedPrecision: 1.0,
			InputPrecision: math.Inf(1),
		}
		n.ValueCouplingParents = append([]float64(nil), gn.ValueCouplingInit...)
		n.ValueCouplingChildren = make([]float64, len(gn.ValueChildren))
		n.VolatilityCouplingParents = append([]float64(nil), gn.VolatilityCouplingInit...)
		n.VolatilityCouplingChildren = make([]float64, len(gn.VolatilityChildren))
		for k, c := range gn.ValueChildren {
			for j, p := range g.Nodes[c].ValueParents {
				if p == i {
					n.ValueCouplingChildren[k] = g.Nodes[c].ValueCouplingInit[j]
				}
			}
		}
		for k, c := range gn.VolatilityChildren {
			for j, p := range g.Nodes[c].VolatilityParents {
				if p == i {
					n.VolatilityCouplingChildren[k] = g.Nodes[c].VolatilityCouplingInit[j]
				}
			}
		}

		switch gn.Kind {
		case graph.VolatileState:
			n.VolatilityCouplingInternal = gn.AutoconnectionStrength
			n.PrecisionVol = 1.0
			n.ExpectedPrecisionVol = 1.0
		case graph.EFState:
			if gn.Dim > 0 {
				n.Xis = make([]float64, gn.Dim)
				n.Nus = make([]float64, gn.Dim)
			}
		case graph.Categorical:
			k := len(gn.ValueParents)
			n.Alpha = ones(k)
			n.Xi = make([]float64, k)
			n.PE = make([]float64, k)
			n.CatValue = make([]float64, k)
			n.CatMean = make([]float64, k)
		}

		for field, v := range gn.Init {
			applyScalarInit(&n, field, v)
		}
		for field, v := range gn.InitVec {
			applyVectorInit(&n, field, v)
		}
		nodes[i] = n
	}
	return Store{Nodes: nodes}
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// applyScalarInit assigns a named float64 override. Unknown field names
// are ignored rather than erroring: they are a builder convenience, and
// the fixed set below covers every scalar field named in spec.md §3.
func applyScalarInit(n *Node, field string, v float64) {
	switch field {
	case "mean":
		n.Mean = v
	case "precision":
		n.Precision = v
	case "expected_mean":
		n.ExpectedMean = v
	case "expected_precision":
		n.ExpectedPrecision = v
	case "tonic_volatility":
		n.TonicVolatility = v
	case "tonic_drift":
		n.TonicDrift = v
	case "mean_vol":
		n.MeanVol = v
	case "precision_vol":
		n.PrecisionVol = v
	case "expected_mean_vol":
		n.ExpectedMeanVol = v
	case "expected_precision_vol":
		n.ExpectedPrecisionVol = v
	case "tonic_volatility_vol":
		n.TonicVolatilityVol = v
	case "volatility_coupling_internal":
		n.VolatilityCouplingInternal = v
	case "eta0":
		n.Eta0 = v
	case "eta1":
		n.Eta1 = v
	case "input_precision":
		n.InputPrecision = v
	}
}

func applyVectorInit(n *Node, field string, v []float64) {
	switch field {
	case "xis":
		n.Xis = append([]float64(nil), v...)
	case "nus":
		n.Nus = append([]float64(nil), v...)
	case "alpha":
		n.Alpha = append([]float64(nil), v...)
	}
}

// Get returns a pointer into s.Nodes for in-place mutation by kernels.
func (s Store) Get(i int) *Node {
	return &s.Nodes[i]
}

// Clone returns a deep, independent copy of s.
func (s Store) Clone() Store {
	nodes := make([]Node, len(s.Nodes))
	for i, n := range s.Nodes {
		nodes[i] = n.clone()
	}
	return Store{Nodes: nodes, Time: s.Time}
}

// Update clones s, applies fn to the clone's node slice in place, and
// returns the result. Kernels and the driver use this so a step is a
// pure function (attributes, inputs) -> attributes' even though the
// implementation mutates in place for one call (spec.md §5).
func (s Store) Update(fn func(nodes []Node)) Store {
	next := s.Clone()
	fn(next.Nodes)
	return next
}
