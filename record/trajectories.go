// Package record accumulates per-step belief-propagation output into
// dense, preallocated columns for post-hoc analysis, adapted from the
// teacher's experiment/tracker.Tracker (Track/Save shape) from per-
// episode scalar tracking to per-timestep multi-node dense tracking.
package record

import (
	"fmt"

	"hgf/attrs"

	"gonum.org/v1/gonum/mat"
)

// Trajectories holds one mean/precision/surprise column per tracked node,
// indexed by step, backed by gonum.org/v1/gonum/mat.Dense the same way
// the teacher's timestep.TimeStep carries its Observation as a
// mat.Matrix.
type Trajectories struct {
	nodeIdxs  []int
	steps     int
	written   int
	mean      *mat.Dense
	precision *mat.Dense
	surprise  *mat.Dense
}

// NewTrajectories preallocates storage for len(nodeIdxs) tracked nodes
// across steps timesteps.
func NewTrajectories(nodeIdxs []int, steps int) *Trajectories {
	return &Trajectories{
		nodeIdxs:  append([]int(nil), nodeIdxs...),
		steps:     steps,
		mean:      mat.NewDense(steps, len(nodeIdxs), nil),
		precision: mat.NewDense(steps, len(nodeIdxs), nil),
		surprise:  mat.NewDense(steps, len(nodeIdxs), nil),
	}
}

// Track appends one step's worth of tracked-node state as the next row.
func (t *Trajectories) Track(nodes []attrs.Node) error {
	if t.written >= t.steps {
		return fmt.Errorf("record: Trajectories is full (%d steps)", t.steps)
	}
	for col, idx := range t.nodeIdxs {
		n := &nodes[idx]
		t.mean.Set(t.written, col, n.Mean)
		t.precision.Set(t.written, col, n.Precision)
		t.surprise.Set(t.written, col, n.Surprise)
	}
	t.written++
	return nil
}

// At returns the tracked mean/precision/surprise for nodeIdx at step.
func (t *Trajectories) At(step int, nodeIdx int) (mean, precision, surprise float64, err error) {
	col := -1
	for i, idx := range t.nodeIdxs {
		if idx == nodeIdx {
			col = i
			break
		}
	}
	if col == -1 {
		return 0, 0, 0, fmt.Errorf("record: node %d is not tracked", nodeIdx)
	}
	if step < 0 || step >= t.written {
		return 0, 0, 0, fmt.Errorf("record: step %d out of range [0,%d)", step, t.written)
	}
	return t.mean.At(step, col), t.precision.At(step, col), t.surprise.At(step, col), nil
}

// Mean returns the full mean trajectory matrix (steps x tracked nodes).
func (t *Trajectories) Mean() mat.Matrix { return t.mean.Slice(0, t.written, 0, len(t.nodeIdxs)) }

// Precision returns the full precision trajectory matrix.
func (t *Trajectories) Precision() mat.Matrix {
	return t.precision.Slice(0, t.written, 0, len(t.nodeIdxs))
}

// Surprise returns the full surprise trajectory matrix.
func (t *Trajectories) Surprise() mat.Matrix {
	return t.surprise.Slice(0, t.written, 0, len(t.nodeIdxs))
}

// Len returns the number of steps actually tracked so far.
func (t *Trajectories) Len() int { return t.written }
