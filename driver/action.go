package driver

import "hgf/attrs"

// ActionFn lets a caller act on or transform the predicted state after
// the prediction sequence runs and before observations are assigned,
// grounded on original_source/pyhgf/utils/beliefs_propagation.py's
// optional action_fn parameter ("can implement action, decisions or
// transformation in the environment"). A Driver with a nil ActionFn skips
// this step entirely.
type ActionFn func(nodes []attrs.Node) []attrs.Node
