// Package audit records the change history of flags, segments, and
// environments.
//
// Every committed change at the write boundary produces one Record with a
// canonical message, so the history reads uniformly across code paths:
//
//	log, err := audit.NewLogger(storage)
//	err = log.Log(ctx, projectID, audit.ObjectFeature, featureID,
//		audit.FeatureCreatedMessage("dark_mode"),
//		audit.WithEnvironment(envID))
//
// Records are queried through a Reader with Criteria filters. The package
// ships a MemoryStorage; production deployments provide their own Storage
// implementation.
package audit
