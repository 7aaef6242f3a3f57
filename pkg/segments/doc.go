// Package segments implements segment membership evaluation: leaf condition
// matching, the recursive AND/OR/NONE rule tree, and the segment matcher
// that feeds the flag resolver.
//
// A segment is a rule-defined cohort of identities. Rules form a tree of
// arbitrary depth; each node combines its direct conditions and its child
// rules under one combinator:
//
//	ALL  - every condition and child rule must match
//	ANY  - at least one condition or child rule must match
//	NONE - no condition and no child rule may match
//
// A node with no conditions and no children is vacuously true. An identity
// belongs to a segment when every top-level rule holds:
//
//	eval := segments.NewEvaluator(segments.WithLogger(log))
//	if eval.Matches(segment, identityKey, traitSet) {
//		// identity is in the cohort
//	}
//
// PERCENTAGE_SPLIT conditions bucket identities deterministically on the
// [segment id, identity key] hash via the bucketing package, enabling
// gradual rollouts that are stable across processes and over time.
//
// Evaluation never fails: missing traits, malformed regex patterns and
// unparseable numeric values all evaluate as non-matching, with a log line
// for operator visibility.
package segments
