// Package snapshot provides the denormalized environment document the
// resolver evaluates against, plus the cache port and implementations that
// bound how often the document is rebuilt.
//
// A Document bundles the environment, its features, feature states,
// segments and segment overrides as one consistent point-in-time view.
// Evaluations read a single document and nothing else, so concurrent admin
// edits are invisible mid-evaluation and no torn state is observable.
//
// Source is a read-through wrapper over a Loader and a Cache:
//
//	source, err := snapshot.NewSource(loadFromDB,
//		snapshot.WithCache(snapshot.NewMemoryCache(1024, time.Minute)),
//	)
//	doc, err := source.Get(ctx, apiKey)
//
// Staleness is bounded by the cache TTL and by explicit Invalidate calls
// the write boundary fires after committing relevant mutations. Two cache
// implementations are provided: an in-process LRU with per-entry TTL, and
// a Redis-backed cache for multi-replica deployments.
package snapshot
