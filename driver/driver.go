package driver

import (
	"fmt"
	"math"
	"time"

	"hgf/attrs"
	"hgf/compile"
	"hgf/graph"
	"hgf/kernel"
	"hgf/learn"
	"hgf/mathx"
	"hgf/record"

	"github.com/samuelfneumann/progressbar"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Observation is one input node's external value for a single step.
type Observation struct {
	NodeIdx  int
	Value    float64
	Observed bool
}

// Driver owns a frozen Graph, its compiled Sequence, and the live Store
// it advances one step at a time, grounded on
// original_source/pyhgf/utils/beliefs_propagation.py's predict/observe/
// update/learn loop.
type Driver struct {
	graph  *graph.Graph
	seq    compile.Sequence
	store  attrs.Store
	cfg    Config
	action ActionFn

	learnable []int // input-kind nodes with at least one value parent
}

// New builds a Driver for g under cfg, compiling the update sequence once
// up front (spec.md §9 "Update-variant dispatch").
func New(g *graph.Graph, cfg Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seq, err := compile.Build(g, cfg.Variant)
	if err != nil {
		return nil, err
	}

	var learnable []int
	for i, n := range g.Nodes {
		if n.Kind.IsInput() && len(n.ValueParents) > 0 {
			learnable = append(learnable, i)
		}
	}

	return &Driver{
		graph:     g,
		seq:       seq,
		store:     attrs.NewStore(g),
		cfg:       cfg,
		learnable: learnable,
	}, nil
}

// SetAction installs the optional action hook run after prediction and
// before observation (driver/action.go).
func (d *Driver) SetAction(fn ActionFn) {
	d.action = fn
}

// Store returns the driver's current live state.
func (d *Driver) Store() attrs.Store {
	return d.store
}

// Step advances the filter by one timestep: predict, act, observe,
// update, learn — in that order (spec.md §4.2,
// original_source/pyhgf/utils/beliefs_propagation.py).
func (d *Driver) Step(observations []Observation) (attrs.Store, error) {
	next := d.store.Clone()
	next.Time++
	nodes := next.Nodes

	for _, step := range d.seq.Prediction {
		if err := kernel.Predict(nodes, d.graph, step.NodeIdx, d.cfg.Dt); err != nil {
			return attrs.Store{}, err
		}
	}

	if d.action != nil {
		nodes = d.action(nodes)
	}

	if err := d.assignObservations(nodes, observations); err != nil {
		return attrs.Store{}, err
	}

	for _, step := range d.seq.Update {
		if err := kernel.Update(nodes, d.graph, step.NodeIdx, step.Variant); err != nil {
			return attrs.Store{}, err
		}
	}

	if d.cfg.LearningRate > 0 {
		for _, idx := range d.learnable {
			learn.Apply(nodes, d.graph, idx, d.cfg.LearningMode, d.cfg.LearningRate)
		}
	}

	next.Nodes = nodes
	d.store = next
	return next, nil
}

// assignObservations sets every input node's Observed/ObservedValue for
// the step, per d.cfg.Observations (spec.md §9 "Generative mode").
func (d *Driver) assignObservations(nodes []attrs.Node, observations []Observation) error {
	switch d.cfg.Observations {
	case External:
		for _, o := range observations {
			n := &nodes[o.NodeIdx]
			n.Observed = o.Observed
			n.ObservedValue = o.Value
		}
		return nil
	case Deprived:
		for i := range nodes {
			if d.graph.Nodes[i].Kind.IsInput() {
				nodes[i].Observed = false
			}
		}
		return nil
	case Generative:
		return d.sampleObservations(nodes)
	default:
		return fmt.Errorf("driver: unknown ObservationMode %v", d.cfg.Observations)
	}
}

// sampleObservations draws each input node's value from its own
// predictive distribution, closing the simulation loop (supplemented
// from original_source's "generative" branch, which samples via the
// node's own predicted density rather than reading external data).
//
// Each draw uses a fresh rand.Source reseeded from (cfg.Seed, t, nodeIdx)
// rather than advancing one shared stream, per spec.md §9 "Generative
// sampling": the sample for a given (step, node) must not depend on how
// many other nodes were sampled before it in the same or earlier steps,
// so that reordering the prediction/update sequence can never perturb it.
func (d *Driver) sampleObservations(nodes []attrs.Node) error {
	t := int(d.store.Time)
	for i, gn := range d.graph.Nodes {
		if !gn.Kind.IsInput() {
			continue
		}
		n := &nodes[i]
		n.Observed = true
		src := rand.NewSource(subSeed(d.cfg.Seed, t, i))
		switch gn.Kind {
		case graph.ContinuousInput:
			if len(gn.ValueParents) == 0 {
				n.ObservedValue = 0
				continue
			}
			parent := &nodes[gn.ValueParents[0]]
			sd := 1 / mathxSqrt(parent.ExpectedPrecision)
			dist := distuv.Normal{Mu: parent.ExpectedMean, Sigma: sd, Src: src}
			n.ObservedValue = dist.Rand()
		case graph.BinaryInput:
			if len(gn.ValueParents) == 0 {
				n.ObservedValue = 0
				continue
			}
			parent := &nodes[gn.ValueParents[0]]
			dist := distuv.Bernoulli{P: parent.ExpectedMean, Src: src}
			n.ObservedValue = dist.Rand()
		default:
			// Categorical generative sampling would require sampling each
			// binary value parent jointly; left unimplemented since no
			// SPEC_FULL scenario exercises generative categorical input.
			n.Observed = false
		}
	}
	return nil
}

// subSeed derives a deterministic per-(step, node) seed from the driver's
// base seed via a splitmix64-style mix, so that distinct (t, nodeIdx)
// pairs get independent streams without sharing state across calls.
func subSeed(base uint64, t int, nodeIdx int) uint64 {
	mix := func(x uint64) uint64 {
		x ^= x >> 30
		x *= 0xbf58476d1ce4e5b9
		x ^= x >> 27
		x *= 0x94d049bb133111eb
		x ^= x >> 31
		return x
	}
	z := base
	z = mix(z + uint64(t)*0x9e3779b97f4a7c15 + 1)
	z = mix(z + uint64(nodeIdx)*0x9e3779b97f4a7c15 + 1)
	return z
}

func mathxSqrt(precision float64) float64 {
	return math.Sqrt(mathx.Clip(precision, 1e-12, 1e12))
}

// Run steps the driver nSteps times, pulling each step's observations
// from obsFn, and tracks every node in track into the returned
// Trajectories. Mirrors experiment/Online.RunEpisode's loop shape with
// the teacher's progressbar wired in (experiment/Online.go).
func (d *Driver) Run(nSteps int, track []int, obsFn func(step int) []Observation) (*record.Trajectories, error) {
	traj := record.NewTrajectories(track, nSteps)
	bar := progressbar.New(50, nSteps, time.Second, true)
	bar.Display()
	defer bar.Close()

	for t := 0; t < nSteps; t++ {
		bar.Increment()
		store, err := d.Step(obsFn(t))
		if err != nil {
			return nil, fmt.Errorf("driver: step %d: %w", t, err)
		}
		if err := traj.Track(store.Nodes); err != nil {
			return nil, err
		}
	}
	return traj, nil
}
