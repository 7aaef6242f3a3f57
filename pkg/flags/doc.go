// Package flags models features and feature states and implements the two
// deterministic halves of flag resolution: the priority resolver that picks
// one state per feature, and the multivariate selector that picks one value
// per state.
//
// A FeatureState scopes a feature's enabled/value pair to exactly one of:
// an environment (the default), a segment override, or an identity
// override. Given the candidate states for an identity, HighestPriority
// collapses them to one winner per feature under a strict total order:
//
//	identity override > segment override (by ascending FeatureSegment
//	priority, then ascending id) > environment default
//
// Multivariate features then pick their value through
// FeatureState.ResolveValue, which buckets the identity's hash key into the
// state's weighted option ranges via the bucketing package. Both halves are
// pure functions of their inputs; resolving the same identity against the
// same configuration always produces byte-identical results, which SDK
// caching depends on.
package flags
