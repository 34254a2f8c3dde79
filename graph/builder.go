package graph

import "fmt"

// Builder incrementally constructs a node/edge table, fluently, then
// freezes it into an immutable Graph. Mirrors the teacher's
// Config-plus-fluent-method construction idiom
// (agent/linear/discrete/qlearning/Config.go's CreateAgent).
type Builder struct {
	nodes []Node
	err   error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NodeOption mutates build-time defaults for the node(s) an AddNodes call
// is about to create.
type NodeOption func(*Node)

// WithInit sets a scalar initial-value override (e.g. "mean", "precision",
// "tonic_volatility"). Field names match spec.md §3's lower-snake-case
// attribute names; attrs.NewStore interprets them.
func WithInit(field string, value float64) NodeOption {
	return func(n *Node) {
		if n.Init == nil {
			n.Init = map[string]float64{}
		}
		n.Init[field] = value
	}
}

// WithInitVec sets a vector initial-value override (e.g. "alpha", "xis").
func WithInitVec(field string, value []float64) NodeOption {
	return func(n *Node) {
		if n.InitVec == nil {
			n.InitVec = map[string][]float64{}
		}
		n.InitVec[field] = append([]float64(nil), value...)
	}
}

// WithCategories sets the expected binary-parent count of a Categorical
// node (spec.md §6 "categorical_parameters.n_categories").
func WithCategories(n int) NodeOption {
	return func(node *Node) {
		node.NCategories = n
	}
}

// WithDim sets the sufficient-statistic dimension of an EFState node.
func WithDim(dim int) NodeOption {
	return func(node *Node) {
		node.Dim = dim
	}
}

// WithAutoconnection sets the self-coupling strength of a VolatileState
// node's implicit volatility level. It has no effect on other kinds,
// including the ContinuousState nodes AddLayer creates.
func WithAutoconnection(strength float64) NodeOption {
	return func(node *Node) {
		node.AutoconnectionStrength = strength
	}
}

// ParentSpec names a parent node together with the initial coupling
// weight and (for value parents) link function used on that edge.
type ParentSpec struct {
	Node     int
	Weight   float64
	Coupling CouplingFn
}

// AddNodes creates n new nodes of the given kind, wires them as value/
// volatility children of valueParents/volatilityParents (each existing
// parent gains a reciprocal child edge), and applies opts. It returns the
// indices of the newly created nodes. An unknown kind or a parent index
// that is not yet defined is recorded as a configuration error surfaced
// by Freeze.
func (b *Builder) AddNodes(kind Kind, n int, valueParents, volatilityParents []ParentSpec, opts ...NodeOption) []int {
	if b.err != nil {
		return nil
	}
	if !validKind(kind) {
		b.err = fmt.Errorf("%w: %v", ErrUnknownKind, int(kind))
		return nil
	}
	idxs := make([]int, n)
	for i := 0; i < n; i++ {
		node := Node{Kind: kind}
		for _, opt := range opts {
			opt(&node)
		}
		idx := len(b.nodes)
		b.nodes = append(b.nodes, node)
		idxs[i] = idx

		for _, vp := range valueParents {
			if vp.Node < 0 || vp.Node >= idx {
				b.err = fmt.Errorf("%w: value parent %d not yet defined", ErrShape, vp.Node)
				return nil
			}
			b.nodes[idx].ValueParents = append(b.nodes[idx].ValueParents, vp.Node)
			b.nodes[idx].ValueCouplingInit = append(b.nodes[idx].ValueCouplingInit, vp.Weight)
			b.nodes[vp.Node].addValueChild(idx, vp.Coupling)
		}
		for _, vp := range volatilityParents {
			if vp.Node < 0 || vp.Node >= idx {
				b.err = fmt.Errorf("%w: volatility parent %d not yet defined", ErrShape, vp.Node)
				return nil
			}
			b.nodes[idx].VolatilityParents = append(b.nodes[idx].VolatilityParents, vp.Node)
			b.nodes[idx].VolatilityCouplingInit = append(b.nodes[idx].VolatilityCouplingInit, vp.Weight)
			b.nodes[vp.Node].addVolatilityChild(idx)
		}
	}
	return idxs
}

// AddLayer adds size new ContinuousState nodes, each fully connected as a
// value parent of every node in children, with the given initial coupling
// weight on every edge. It returns the indices of the new layer.
func (b *Builder) AddLayer(children []int, size int, weight, autoconnectionStrength float64, opts ...NodeOption) []int {
	if b.err != nil {
		return nil
	}
	layer := b.AddNodes(ContinuousState, size, nil, nil, append(opts, WithAutoconnection(autoconnectionStrength))...)
	if b.err != nil {
		return nil
	}
	for _, parent := range layer {
		for _, child := range children {
			if child < 0 || child >= parent {
				b.err = fmt.Errorf("%w: layer child %d not yet defined", ErrShape, child)
				return nil
			}
			b.nodes[child].ValueParents = append(b.nodes[child].ValueParents, parent)
			b.nodes[child].ValueCouplingInit = append(b.nodes[child].ValueCouplingInit, weight)
			b.nodes[parent].addValueChild(child, Identity)
		}
	}
	return layer
}

// AddLayerStack repeats AddLayer once per entry of layerSizes, each layer
// becoming the value-parent stack of the previous one (spec.md §6,
// supplemented per SPEC_FULL.md §12 from the pyhgf reference's
// add_layer_stack convenience).
func (b *Builder) AddLayerStack(valueChildren []int, layerSizes []int, weight, autoconnectionStrength float64) [][]int {
	layers := make([][]int, 0, len(layerSizes))
	current := valueChildren
	for _, size := range layerSizes {
		if b.err != nil {
			return layers
		}
		layer := b.AddLayer(current, size, weight, autoconnectionStrength)
		layers = append(layers, layer)
		current = layer
	}
	return layers
}

// SetCoupling overwrites the initial value-coupling weight on the edge
// (parent, child), keeping both endpoints' positional bookkeeping in sync
// (spec.md §3 Invariants).
func (b *Builder) SetCoupling(parent, child int, weight float64) {
	if b.err != nil {
		return
	}
	for j, p := range b.nodes[child].ValueParents {
		if p == parent {
			b.nodes[child].ValueCouplingInit[j] = weight
			return
		}
	}
	b.err = fmt.Errorf("%w: no edge (%d,%d)", ErrShape, parent, child)
}

// Err returns the first configuration error recorded during building, if
// any. Freeze also returns it, but callers may check early.
func (b *Builder) Err() error {
	return b.err
}

func validKind(k Kind) bool {
	switch k {
	case ContinuousState, BinaryState, VolatileState, EFState, ContinuousInput, BinaryInput, Categorical:
		return true
	default:
		return false
	}
}
