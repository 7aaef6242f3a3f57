// Package bucketing provides the deterministic percentage hashing used for
// percentage-split segment rules and multivariate value selection.
//
// The single exported function maps an ordered list of entity identifiers to
// a float in [0, 100):
//
//	bucket := bucketing.Percentage(segmentID, identityKey)
//	if bucket < splitValue {
//		// identity falls inside the rollout
//	}
//
// Determinism is the hard requirement here: SDKs cache and diff evaluation
// results, so the same identifiers must map to the same bucket in every
// process, forever. The implementation mirrors the MD5-based scheme used by
// the official SDKs so that buckets agree across local and remote
// evaluation modes.
package bucketing
