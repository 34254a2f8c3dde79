package kernel

import (
	"math"
	"testing"

	"hgf/attrs"
	"hgf/graph"
)

// chain builds x2 (ContinuousState) <- x1 (ContinuousInput), x2's prior
// mean/precision seeded away from zero so prediction-error accumulation is
// observable.
func chain(t *testing.T) (*graph.Graph, attrs.Store) {
	t.Helper()
	b := graph.NewBuilder()
	x2 := b.AddNodes(graph.ContinuousState, 1, nil, nil, graph.WithInit("mean", 1.0))[0]
	b.AddNodes(graph.ContinuousInput, 1, []graph.ParentSpec{{Node: x2, Weight: 1}}, nil,
		graph.WithInit("input_precision", 1e4))
	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	return g, attrs.NewStore(g)
}

func TestPredictContinuousStateUsesDrift(t *testing.T) {
	g, s := chain(t)
	x2 := 0
	nodes := s.Nodes
	if err := Predict(nodes, g, x2, 1.0); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if nodes[x2].ExpectedMean != nodes[x2].Mean+1.0*nodes[x2].TonicDrift {
		t.Errorf("ExpectedMean = %v, want Mean + dt*drift", nodes[x2].ExpectedMean)
	}
	if nodes[x2].ExpectedPrecision <= 0 {
		t.Errorf("ExpectedPrecision must stay positive, got %v", nodes[x2].ExpectedPrecision)
	}
}

func TestPredictOnInputNodeErrors(t *testing.T) {
	g, s := chain(t)
	x1 := 1
	if err := Predict(s.Nodes, g, x1, 1.0); err == nil {
		t.Fatal("Predict on an input node should return an error")
	}
}

func TestUpdateContinuousInputLeavesUnobservedNodeUnabsorbed(t *testing.T) {
	g, s := chain(t)
	x1, x2 := 1, 0
	nodes := s.Nodes
	if err := Predict(nodes, g, x2, 1.0); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	nodes[x1].Observed = false
	if err := Update(nodes, g, x1, Standard); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if nodes[x1].Mean != 0 {
		t.Errorf("unobserved input node absorbed a value: Mean = %v", nodes[x1].Mean)
	}
}

func TestUpdateContinuousInputProducesNonzeroPredictionError(t *testing.T) {
	g, s := chain(t)
	x1, x2 := 1, 0
	nodes := s.Nodes
	if err := Predict(nodes, g, x2, 1.0); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	nodes[x1].Observed = true
	nodes[x1].ObservedValue = 5.0
	if err := Update(nodes, g, x1, Standard); err != nil {
		t.Fatalf("Update: %v", err)
	}
	// ExpectedMean must come from the parent's prediction, not the
	// observed value, or the parent's posterior update never moves.
	if nodes[x1].ExpectedMean == nodes[x1].ObservedValue {
		t.Fatal("ExpectedMean must not equal the just-absorbed observed value")
	}
	if nodes[x1].Surprise <= 0 {
		t.Errorf("Surprise for an observation 4 away from the predicted mean should be positive, got %v", nodes[x1].Surprise)
	}
}

func TestUpdateValueLevelMovesTowardChildPredictionError(t *testing.T) {
	g, s := chain(t)
	x1, x2 := 1, 0
	nodes := s.Nodes

	if err := Predict(nodes, g, x2, 1.0); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	priorMean := nodes[x2].Mean
	nodes[x1].Observed = true
	nodes[x1].ObservedValue = priorMean + 10
	if err := Update(nodes, g, x1, Standard); err != nil {
		t.Fatalf("Update input: %v", err)
	}
	if err := Update(nodes, g, x2, Standard); err != nil {
		t.Fatalf("Update parent: %v", err)
	}
	if nodes[x2].Mean <= priorMean {
		t.Errorf("parent posterior mean should move toward a high observation: got %v, prior %v", nodes[x2].Mean, priorMean)
	}
}

func TestBinaryInputDiracBoundaryPassesValueThrough(t *testing.T) {
	b := graph.NewBuilder()
	state := b.AddNodes(graph.BinaryState, 1, nil, nil)[0]
	b.AddNodes(graph.BinaryInput, 1, []graph.ParentSpec{{Node: state, Weight: 1}}, nil,
		graph.WithInit("input_precision", math.Inf(1)))
	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	s := attrs.NewStore(g)
	nodes := s.Nodes
	input := 1
	nodes[input].Observed = true
	nodes[input].ObservedValue = 1

	if err := Predict(nodes, g, state, 1.0); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if err := Update(nodes, g, input, Standard); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !math.IsInf(nodes[state].Precision, 1) {
		t.Errorf("Dirac boundary should drive the parent's Precision to +Inf, got %v", nodes[state].Precision)
	}
	if nodes[state].Mean != 1 {
		t.Errorf("Dirac boundary should pass the observed value straight through, got Mean = %v", nodes[state].Mean)
	}
}

func TestVolatilityVariantsStayPositiveAtZeroPredictionError(t *testing.T) {
	b := graph.NewBuilder()
	x3 := b.AddNodes(graph.VolatileState, 1, nil, nil, graph.WithInit("tonic_volatility", -4))[0]
	x2 := b.AddNodes(graph.ContinuousState, 1, nil, []graph.ParentSpec{{Node: x3, Weight: 1}})[0]
	b.AddNodes(graph.ContinuousInput, 1, []graph.ParentSpec{{Node: x2, Weight: 1}}, nil,
		graph.WithInit("input_precision", 1e4))
	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	for _, variant := range []Variant{Standard, EHGF, Unbounded} {
		s := attrs.NewStore(g)
		nodes := s.Nodes
		if err := Predict(nodes, g, x3, 1.0); err != nil {
			t.Fatalf("Predict x3 (%v): %v", variant, err)
		}
		if err := Predict(nodes, g, x2, 1.0); err != nil {
			t.Fatalf("Predict x2 (%v): %v", variant, err)
		}
		nodes[2].Observed = true
		nodes[2].ObservedValue = nodes[x2].ExpectedMean // zero prediction error at x2
		if err := Update(nodes, g, 2, variant); err != nil {
			t.Fatalf("Update input (%v): %v", variant, err)
		}
		if err := Update(nodes, g, x2, variant); err != nil {
			t.Fatalf("Update x2 (%v): %v", variant, err)
		}
		if err := Update(nodes, g, x3, variant); err != nil {
			t.Fatalf("Update x3 (%v): %v", variant, err)
		}
		if nodes[x3].PrecisionVol <= 0 {
			t.Errorf("variant %v: PrecisionVol must stay positive, got %v", variant, nodes[x3].PrecisionVol)
		}
	}
}

func TestCategoricalAggregatorDirichletSelfKLIsZero(t *testing.T) {
	b := graph.NewBuilder()
	bin := b.AddNodes(graph.BinaryState, 2, nil, nil)
	b.AddNodes(graph.Categorical, 1,
		[]graph.ParentSpec{{Node: bin[0], Weight: 1}, {Node: bin[1], Weight: 1}}, nil,
		graph.WithCategories(2))
	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	s := attrs.NewStore(g)
	nodes := s.Nodes
	cat := 2
	if err := updateCategorical(nodes, g, cat); err != nil {
		t.Fatalf("updateCategorical: %v", err)
	}
	// First step from the seeded all-ones alpha: delta_xi is 0, so every
	// new alpha entry is NaN and replaced by 1, leaving prior == posterior.
	if math.Abs(nodes[cat].KLDivergence) > 1e-9 {
		t.Errorf("KLDivergence of the unchanged Dirichlet = %v, want 0", nodes[cat].KLDivergence)
	}
	sum := 0.0
	for _, p := range nodes[cat].CatMean {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("CatMean should be normalised to sum to 1, got sum %v", sum)
	}
}
