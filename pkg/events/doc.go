// Package events defines the domain events the write boundary publishes
// after committing changes, and an in-process broker that fans them out to
// subscribers such as the webhook dispatcher.
//
// Events replace implicit save-signal side effects: a write path commits,
// then explicitly emits FeatureStateChanged or TraitsUpdated. The flag
// resolver's read path never publishes anything.
//
//	broker := events.NewBroker()
//	sub := broker.Subscribe()
//	_ = broker.Emit(ctx, events.NewFeatureStateChanged(events.FeatureStateChanged{...}))
//
// Publishing never blocks; slow subscribers lose events (counted and
// logged) rather than stalling write paths.
package events
