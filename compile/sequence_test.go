package compile

import (
	"testing"

	"hgf/graph"
	"hgf/kernel"
)

func TestBuildOrdersChildrenBeforeParents(t *testing.T) {
	b := graph.NewBuilder()
	x2 := b.AddNodes(graph.ContinuousState, 1, nil, nil)[0]
	x1 := b.AddNodes(graph.ContinuousInput, 1, []graph.ParentSpec{{Node: x2, Weight: 1}}, nil)[0]

	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	seq, err := Build(g, kernel.Standard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// x1 is an input: it has no Prediction step, only Update.
	if len(seq.Prediction) != 1 || seq.Prediction[0].NodeIdx != x2 {
		t.Fatalf("Prediction sequence = %+v, want [x2 only]", seq.Prediction)
	}
	if len(seq.Update) != 2 {
		t.Fatalf("Update sequence length = %d, want 2", len(seq.Update))
	}
	pos := map[int]int{}
	for i, step := range seq.Update {
		pos[step.NodeIdx] = i
	}
	if pos[x1] >= pos[x2] {
		t.Errorf("child x1 (input) must update before its parent x2: positions %v", pos)
	}
}

func TestBuildRejectsCyclicGraph(t *testing.T) {
	b := graph.NewBuilder()
	x2 := b.AddNodes(graph.ContinuousState, 1, nil, nil)[0]
	x1 := b.AddNodes(graph.ContinuousInput, 1, []graph.ParentSpec{{Node: x2, Weight: 1}}, nil)[0]

	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	// Corrupt the frozen graph after the fact so childrenBeforeParents sees
	// a cycle: Build must surface that error rather than panic or loop.
	g.Nodes[x2].ValueParents = append(g.Nodes[x2].ValueParents, x1)

	if _, err := Build(g, kernel.Standard); err == nil {
		t.Fatal("Build should reject a cyclic graph")
	}
}

func TestBuildBakesVariantIntoVolatileSteps(t *testing.T) {
	b := graph.NewBuilder()
	x3 := b.AddNodes(graph.VolatileState, 1, nil, nil)[0]
	b.AddNodes(graph.ContinuousState, 1, nil, []graph.ParentSpec{{Node: x3, Weight: 1}})

	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	seq, err := Build(g, kernel.EHGF)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, step := range seq.Update {
		if step.Kind == graph.VolatileState && step.Variant != kernel.EHGF {
			t.Errorf("volatile step Variant = %v, want %v", step.Variant, kernel.EHGF)
		}
	}
}
