package attrs

import (
	"math"
	"testing"

	"hgf/graph"
)

func TestNewStoreSeedsDefaults(t *testing.T) {
	b := graph.NewBuilder()
	b.AddNodes(graph.ContinuousState, 1, nil, nil)
	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	s := NewStore(g)
	if s.Nodes[0].Precision != 1.0 {
		t.Errorf("default Precision = %v, want 1.0", s.Nodes[0].Precision)
	}
	if s.Nodes[0].ExpectedPrecision != 1.0 {
		t.Errorf("default ExpectedPrecision = %v, want 1.0", s.Nodes[0].ExpectedPrecision)
	}
}

func TestNewStoreInputPrecisionDefaultsInfinite(t *testing.T) {
	b := graph.NewBuilder()
	x2 := b.AddNodes(graph.ContinuousState, 1, nil, nil)[0]
	b.AddNodes(graph.ContinuousInput, 1, []graph.ParentSpec{{Node: x2, Weight: 1}}, nil)
	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	s := NewStore(g)
	if !math.IsInf(s.Nodes[1].InputPrecision, 1) {
		t.Errorf("default InputPrecision = %v, want +Inf", s.Nodes[1].InputPrecision)
	}
}

func TestWithInitOverridesDefault(t *testing.T) {
	b := graph.NewBuilder()
	b.AddNodes(graph.ContinuousState, 1, nil, nil, graph.WithInit("mean", 3.5))
	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	s := NewStore(g)
	if s.Nodes[0].Mean != 3.5 {
		t.Errorf("Mean = %v, want 3.5", s.Nodes[0].Mean)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := graph.NewBuilder()
	b.AddNodes(graph.ContinuousState, 1, nil, nil)
	g, _ := b.Freeze()
	s := NewStore(g)

	clone := s.Clone()
	clone.Nodes[0].Mean = 42
	if s.Nodes[0].Mean == 42 {
		t.Fatal("mutating a clone's node mutated the original store")
	}
}

func TestUpdateReturnsNewStoreLeavingOriginalUntouched(t *testing.T) {
	b := graph.NewBuilder()
	b.AddNodes(graph.ContinuousState, 1, nil, nil)
	g, _ := b.Freeze()
	s := NewStore(g)

	next := s.Update(func(nodes []Node) {
		nodes[0].Mean = 7
	})
	if s.Nodes[0].Mean != 0 {
		t.Errorf("original store was mutated: Mean = %v", s.Nodes[0].Mean)
	}
	if next.Nodes[0].Mean != 7 {
		t.Errorf("returned store was not updated: Mean = %v", next.Nodes[0].Mean)
	}
}
