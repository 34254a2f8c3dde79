package kernel

import (
	"math"

	"hgf/attrs"
	"hgf/graph"
	"hgf/mathx"

	"gorgonia.org/tensor"
)

// updateCategorical absorbs one observation from a Categorical node's
// binary-state value parents, re-estimates its Dirichlet concentration
// vector via the nu/delta_xi learning-rate recurrence, and computes the
// Bayesian surprise of the outcome as the KL divergence between the prior
// and posterior Dirichlet plus the summed binary surprise of every
// parent's own outcome, grounded verbatim on
// src/pyhgf/updates/categorical.py's categorical_input_update.
//
// n.Xi/n.PE carry the *previous* step's expectation/prediction-error per
// category (spec.md §3: "xi (last expectation vector), pe (last PE
// vector)"), read here before being overwritten with this step's values.
//
// The concentration vector is carried through a gorgonia.org/tensor.Dense
// rather than a plain slice so the running mean (alpha normalised to sum
// 1) is a one-line tensor division rather than a hand-rolled loop,
// exercising the same array package the ef/continuous layers' reference
// examples use for batched numeric work.
func updateCategorical(nodes []attrs.Node, g *graph.Graph, idx int) error {
	n := &nodes[idx]
	gn := &g.Nodes[idx]
	k := len(gn.ValueParents)
	if k == 0 {
		return graph.ErrMissingFields
	}

	alphaPrior := append([]float64(nil), n.Alpha...)
	oldXi := append([]float64(nil), n.Xi...)
	oldPE := append([]float64(nil), n.PE...)

	// new_xi: the expected probability (muhat) each binary parent predicted
	// for this step, then the nu/delta_xi learning-rate recurrence against
	// last step's xi/pe (categorical.py lines 59-77).
	newXi := make([]float64, k)
	alpha := make([]float64, k)
	for i, parent := range gn.ValueParents {
		newXi[i] = nodes[parent].ExpectedMean

		deltaXi := newXi[i] - oldXi[i]
		nu := oldPE[i]/deltaXi - 1
		a := nu*newXi[i] + 1
		if math.IsNaN(a) {
			a = 1
		}
		alpha[i] = a
	}

	// KL(prior || posterior), computed before alpha overwrites n.Alpha
	// (categorical.py lines 95-97).
	n.KLDivergence = mathx.DirichletKL(alphaPrior, alpha)

	// The realised value at k, this step's PE, and the binary surprise of
	// each parent's outcome against its own newly-updated xi (categorical.py
	// lines 80-102).
	pe := make([]float64, k)
	binarySurprise := 0.0
	for i, parent := range gn.ValueParents {
		value := nodes[parent].Mean
		n.CatValue[i] = value
		pe[i] = value - newXi[i]
		binarySurprise += mathx.BinarySurprise(value, newXi[i])
	}

	n.PE = pe
	n.Xi = newXi
	n.Alpha = alpha
	n.BinarySurprise = binarySurprise
	n.Surprise = n.KLDivergence + n.BinarySurprise

	alphaTensor := tensor.New(tensor.WithShape(k), tensor.WithBacking(append([]float64(nil), n.Alpha...)))
	sumTensor, err := alphaTensor.Sum()
	if err != nil {
		return err
	}
	total := sumTensor.ScalarValue().(float64)
	normalised, err := alphaTensor.DivScalar(total, true)
	if err != nil {
		return err
	}
	copy(n.CatMean, normalised.Data().([]float64))

	return nil
}
