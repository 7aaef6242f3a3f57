// Package resolver is the flag resolution engine: given an environment
// document, an identity and its traits, it deterministically computes the
// effective feature state for every feature.
//
// Resolution runs in four steps, all pure given the document snapshot:
//
//  1. match the identity against segments holding overrides in the
//     environment (pkg/segments)
//  2. collect live candidate states scoped to the environment, the
//     identity, or a matching segment
//  3. collapse candidates to one winner per feature under the priority
//     order identity > segment > environment (pkg/flags)
//  4. pick multivariate values by deterministic bucketing and apply the
//     hide-disabled-flags filter
//
// The same inputs always produce byte-identical output, across processes
// and over time; SDKs cache and diff results and depend on that.
//
//	r, err := resolver.New(store, resolver.WithEmitter(broker))
//	flagList, err := r.Resolve(ctx, doc, "user-1")
//
// UpdateAndResolve additionally runs the trait merge engine first,
// persisting changes only when the project allows it, and rejecting
// client-key trait writes explicitly when the environment forbids them.
package resolver
