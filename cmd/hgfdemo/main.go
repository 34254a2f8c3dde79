// Command hgfdemo runs a small two-level continuous hierarchical filter
// against a synthetic observation sequence and prints the tracked
// trajectories, the way the teacher's examples/*.go scripts build a small
// agent/environment pair and hand it to an experiment.Online run
// (examples/QlearningMountainCar.go).
package main

import (
	"fmt"
	"math"

	"hgf/driver"
	"hgf/graph"
	"hgf/kernel"
	"hgf/learn"
)

func main() {
	// Build a two-level continuous chain: x1 (continuous input) observes
	// x2 (continuous state), which is driven in turn by a volatile parent
	// x3 controlling x2's process volatility.
	b := graph.NewBuilder()

	x3 := b.AddNodes(graph.VolatileState, 1, nil, nil,
		graph.WithInit("mean", 0), graph.WithInit("tonic_volatility", -2),
		graph.WithAutoconnection(-4))[0]

	x2 := b.AddNodes(graph.ContinuousState, 1, nil,
		[]graph.ParentSpec{{Node: x3, Weight: 1}},
		graph.WithInit("mean", 0), graph.WithInit("tonic_volatility", -6))[0]

	x1 := b.AddNodes(graph.ContinuousInput, 1,
		[]graph.ParentSpec{{Node: x2, Weight: 1}}, nil,
		graph.WithInit("input_precision", 1e4))[0]

	g, err := b.Freeze()
	if err != nil {
		panic(err)
	}

	cfg := driver.Config{
		Dt:           1,
		Variant:      kernel.Standard,
		LearningMode: learn.Fixed,
		LearningRate: 0,
		Observations: driver.External,
		Seed:         42,
	}
	d, err := driver.New(g, cfg)
	if err != nil {
		panic(err)
	}

	observations := make([]float64, 100)
	for t := range observations {
		observations[t] = math.Sin(float64(t) / 10)
	}

	traj, err := d.Run(len(observations), []int{x1, x2, x3}, func(t int) []driver.Observation {
		return []driver.Observation{{NodeIdx: x1, Value: observations[t], Observed: true}}
	})
	if err != nil {
		panic(err)
	}

	for t := 0; t < traj.Len(); t += 10 {
		mean, precision, surprise, err := traj.At(t, x2)
		if err != nil {
			panic(err)
		}
		fmt.Printf("t=%3d  x2.mean=%+.4f  x2.precision=%.4f  x2.surprise=%.4f\n",
			t, mean, precision, surprise)
	}
}
