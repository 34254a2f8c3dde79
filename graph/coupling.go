package graph

import "math"

// Apply evaluates the link function named by f at x. Identity is the
// default used when a builder call omits an explicit coupling function.
func (f CouplingFn) Apply(x float64) float64 {
	switch f {
	case Sigmoid:
		return 1 / (1 + math.Exp(-x))
	case Log1p:
		return math.Log1p(math.Exp(x))
	default:
		return x
	}
}
