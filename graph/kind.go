// Package graph implements the node/edge data model for a hierarchical
// predictive filter: a flat node table plus typed coupling edge lists,
// built incrementally through a fluent Builder and frozen into an
// immutable Graph before any belief propagation takes place.
package graph

// Kind identifies the behaviour of a node: what live fields it carries in
// the attribute store and which kernels operate on it.
type Kind int

const (
	ContinuousState Kind = iota
	BinaryState
	VolatileState
	EFState
	ContinuousInput
	BinaryInput
	Categorical
)

func (k Kind) String() string {
	switch k {
	case ContinuousState:
		return "continuous-state"
	case BinaryState:
		return "binary-state"
	case VolatileState:
		return "volatile-state"
	case EFState:
		return "ef-state"
	case ContinuousInput:
		return "continuous-input"
	case BinaryInput:
		return "binary-input"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// IsInput reports whether a node is an observation boundary: it has no
// mean/precision of its own and receives values from outside the graph.
func (k Kind) IsInput() bool {
	switch k {
	case ContinuousInput, BinaryInput, Categorical:
		return true
	default:
		return false
	}
}

// CouplingFn is the tagged inventory of link functions a value-coupling
// edge may apply to a parent's prospective mean. Arbitrary callables are
// never accepted at the builder boundary (see graph.CouplingFn in
// SPEC_FULL.md §4); the fixed inventory keeps freezing and the
// coupling learner's g(.) lookups total functions.
type CouplingFn int

const (
	// Identity is the default (linear) coupling: g(x) = x.
	Identity CouplingFn = iota
	// Sigmoid coupling: g(x) = 1 / (1 + exp(-x)).
	Sigmoid
	// Log1p coupling: g(x) = log(1 + exp(x)), a softplus link.
	Log1p
)

func (f CouplingFn) String() string {
	switch f {
	case Identity:
		return "identity"
	case Sigmoid:
		return "sigmoid"
	case Log1p:
		return "log1p"
	default:
		return "unknown"
	}
}
