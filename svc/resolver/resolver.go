package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/flagmate/flagmate/pkg/events"
	"github.com/flagmate/flagmate/pkg/flags"
	"github.com/flagmate/flagmate/pkg/segments"
	"github.com/flagmate/flagmate/pkg/snapshot"
	"github.com/flagmate/flagmate/pkg/traits"
)

// Origin says which kind of key the calling SDK authenticated with.
// Client-side keys can be barred from writing traits per environment.
type Origin string

const (
	OriginClient Origin = "client"
	OriginServer Origin = "server"
)

// Flag is one resolved feature for one identity: the winning state's
// enabled bit and effective value. Source fields are retained so the
// serialization boundary can redact them when an environment hides
// sensitive data; the engine itself never drops them.
type Flag struct {
	Feature        flags.Feature         `json:"feature"`
	Enabled        bool                  `json:"enabled"`
	Value          traits.Value          `json:"feature_state_value"`
	FeatureStateID int64                 `json:"id"`
	EnvironmentID  int64                 `json:"environment"`
	IdentityID     *int64                `json:"identity"`
	FeatureSegment *flags.FeatureSegment `json:"feature_segment"`
}

// UpdateResult is the combined outcome of an identify call: the merged
// trait list (shown to the caller even when persistence is disabled) and
// the flags resolved against it.
type UpdateResult struct {
	Identity Identity       `json:"identity"`
	Traits   []traits.Trait `json:"traits"`
	Flags    []Flag         `json:"flags"`
}

// Resolver computes effective feature states for identities. It is a pure
// reader over environment documents: safe for unlimited concurrent use,
// no internal locking, no side effects on the resolve path.
type Resolver struct {
	identities IdentityStore
	evaluator  *segments.Evaluator
	emitter    events.Emitter
	log        *slog.Logger
	now        func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for operator-visibility warnings.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithEmitter sets the emitter trait updates are published through.
func WithEmitter(emitter events.Emitter) Option {
	return func(r *Resolver) {
		if emitter != nil {
			r.emitter = emitter
		}
	}
}

// WithEvaluator overrides the segment evaluator.
func WithEvaluator(evaluator *segments.Evaluator) Option {
	return func(r *Resolver) {
		if evaluator != nil {
			r.evaluator = evaluator
		}
	}
}

// WithClock overrides the time source used for live-state checks.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Resolver backed by the given identity store.
func New(identities IdentityStore, opts ...Option) (*Resolver, error) {
	if identities == nil {
		return nil, ErrIdentityStoreRequired
	}
	r := &Resolver{
		identities: identities,
		emitter:    events.Discard,
		log:        slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.evaluator == nil {
		r.evaluator = segments.NewEvaluator(segments.WithLogger(r.log))
	}
	return r, nil
}

// resolveOptions carries per-call knobs.
type resolveOptions struct {
	featureName string
	traits      []traits.Trait
	haveTraits  bool
}

// ResolveOption configures one Resolve call.
type ResolveOption func(*resolveOptions)

// WithFeatureName restricts the result to a single named feature. Resolve
// returns ErrFeatureNotFound when the feature is absent (or hidden by the
// hide-disabled-flags setting).
func WithFeatureName(name string) ResolveOption {
	return func(o *resolveOptions) {
		o.featureName = name
	}
}

// WithTraits overrides the identity's stored traits for this evaluation,
// e.g. for transient traits an SDK sends without persisting.
func WithTraits(list []traits.Trait) ResolveOption {
	return func(o *resolveOptions) {
		o.traits = list
		o.haveTraits = true
	}
}

// Resolve computes the effective flag set for an identifier against the
// environment document, honoring the override priority order:
//
//	identity override > segment override > environment default
//
// Absent data yields an empty result, never an error; the one exception is
// WithFeatureName, where a missing feature is a not-found signal the
// transport layer turns into a 404.
func (r *Resolver) Resolve(ctx context.Context, doc *snapshot.Document, identifier string, opts ...ResolveOption) ([]Flag, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	var options resolveOptions
	for _, opt := range opts {
		opt(&options)
	}

	identity, err := r.identities.GetOrCreate(ctx, doc.Environment.ID, identifier)
	if err != nil {
		return nil, err
	}

	traitList := options.traits
	if !options.haveTraits {
		traitList, err = r.identities.Traits(ctx, identity.ID)
		if err != nil {
			return nil, err
		}
	}

	result := r.resolve(doc, identity, traitList)

	if options.featureName != "" {
		for _, flag := range result {
			if flag.Feature.Name == options.featureName {
				return []Flag{flag}, nil
			}
		}
		return nil, ErrFeatureNotFound
	}

	return result, nil
}

// resolve is the pure core: no I/O, a deterministic function of the
// document, the identity and the trait list.
func (r *Resolver) resolve(doc *snapshot.Document, identity Identity, traitList []traits.Trait) []Flag {
	set := traits.NewSet(traitList)
	now := r.now()

	matching := r.evaluator.MatchingSegments(doc.OverriddenSegments(), identity.SegmentKey(), set)
	matchingIDs := make(map[int64]struct{}, len(matching))
	for _, segment := range matching {
		matchingIDs[segment.ID] = struct{}{}
	}

	var candidates []*flags.FeatureState
	for i := range doc.States {
		state := &doc.States[i]
		if !state.Live(now) || state.EnvironmentID != doc.Environment.ID {
			continue
		}
		switch {
		case state.IdentityID != nil:
			if *state.IdentityID != identity.ID {
				continue
			}
		case state.FeatureSegment != nil:
			if state.FeatureSegment.EnvironmentID != doc.Environment.ID {
				continue
			}
			if _, ok := matchingIDs[state.FeatureSegment.SegmentID]; !ok {
				continue
			}
		}
		candidates = append(candidates, state)
	}

	winners := flags.HighestPriority(candidates)

	hideDisabled := doc.Environment.EffectiveHideDisabledFlags()
	hashKey := identity.HashKey(doc.Environment)

	result := make([]Flag, 0, len(winners))
	for _, state := range winners {
		if hideDisabled && !state.Enabled {
			continue
		}
		result = append(result, Flag{
			Feature:        state.Feature,
			Enabled:        state.Enabled,
			Value:          state.ResolveValue(hashKey),
			FeatureStateID: state.ID,
			EnvironmentID:  state.EnvironmentID,
			IdentityID:     state.IdentityID,
			FeatureSegment: state.FeatureSegment,
		})
	}
	return result
}

// UpdateAndResolve merges incoming trait updates into the identity's
// stored traits, persists the change when the project allows trait
// persistence, and resolves flags against the merged set.
//
// When the environment disallows client-written traits and the call
// originates from a client key, the update is rejected outright: silently
// dropping it would change observable behavior without telling anyone.
//
// When the project has trait persistence disabled the merge still runs and
// the merged traits are returned and used for resolution, but nothing is
// written.
func (r *Resolver) UpdateAndResolve(ctx context.Context, doc *snapshot.Document, identifier string, updates []traits.Update, origin Origin) (UpdateResult, error) {
	if doc == nil {
		return UpdateResult{}, ErrNilDocument
	}

	if len(updates) > 0 && origin == OriginClient && !doc.Environment.AllowClientTraits {
		return UpdateResult{}, ErrTraitsNotAllowed
	}

	identity, err := r.identities.GetOrCreate(ctx, doc.Environment.ID, identifier)
	if err != nil {
		return UpdateResult{}, err
	}

	stored, err := r.identities.Traits(ctx, identity.ID)
	if err != nil {
		return UpdateResult{}, err
	}

	merge := traits.Merge(stored, updates)

	if merge.Changed() && doc.Environment.Project.PersistTraitData {
		if err := r.identities.ApplyChanges(ctx, identity.ID, merge); err != nil {
			return UpdateResult{}, err
		}
		event := events.NewTraitsUpdated(events.TraitsUpdated{
			EnvironmentID: doc.Environment.ID,
			Identifier:    identifier,
			Created:       merge.Created,
			Updated:       merge.Updated,
			DeletedKeys:   merge.DeletedKeys,
		})
		if err := r.emitter.Emit(ctx, event); err != nil {
			r.log.WarnContext(ctx, "failed to emit traits updated event",
				"identifier", identifier, "error", err)
		}
	}

	return UpdateResult{
		Identity: identity,
		Traits:   merge.Result,
		Flags:    r.resolve(doc, identity, merge.Result),
	}, nil
}
