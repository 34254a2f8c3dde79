package graph

import "errors"

// Sentinel errors for the configuration-error class (spec.md §7.1/§7.2).
// All but ErrMissingFields are raised eagerly at build/freeze time.
var (
	// ErrUnknownKind is returned when AddNodes is called with a Kind the
	// builder does not recognise.
	ErrUnknownKind = errors.New("graph: unknown node kind")

	// ErrShape is returned when a builder call's parent/child index list
	// refers to an out-of-range node, or a categorical node's declared
	// category count does not match its wired binary value parents.
	ErrShape = errors.New("graph: shape mismatch")

	// ErrCycle is returned by Freeze when the value/volatility parent
	// edges do not form a DAG.
	ErrCycle = errors.New("graph: cycle detected")

	// ErrCouplingLength is returned by Freeze when a coupling-weight
	// vector's length drifts from its corresponding edge list.
	ErrCouplingLength = errors.New("graph: coupling vector length mismatch")

	// ErrMissingFields is returned during a step by the kernel package's
	// binary-input and categorical updates when the node has no value
	// parent; Freeze does not return it.
	ErrMissingFields = errors.New("graph: missing required fields for kind")
)
