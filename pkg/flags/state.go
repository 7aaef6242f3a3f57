package flags

import (
	"sort"
	"time"

	"github.com/flagmate/flagmate/pkg/traits"
)

// FeatureState is the enabled/value pair for one feature in one scope. A
// state is exactly one of: environment default (no identity, no segment),
// segment override, or identity override. Rows violating that invariant
// are a write-boundary fault; the resolver still ranks them defensively
// (identity wins) instead of misbehaving silently.
type FeatureState struct {
	ID             int64               `json:"id"`
	Feature        Feature             `json:"feature"`
	EnvironmentID  int64               `json:"environment"`
	IdentityID     *int64              `json:"identity"`
	FeatureSegment *FeatureSegment     `json:"feature_segment"`
	Enabled        bool                `json:"enabled"`
	Value          traits.Value        `json:"feature_state_value"`
	LiveFrom       *time.Time          `json:"live_from"`
	Version        *int                `json:"version"`
	Multivariate   []MultivariateValue `json:"multivariate_feature_state_values,omitempty"`
}

// Live reports whether the state is visible to resolution: it must carry a
// version (drafts have none) and its live_from must have passed.
func (fs *FeatureState) Live(now time.Time) bool {
	return fs.Version != nil && fs.LiveFrom != nil && !fs.LiveFrom.After(now)
}

// priority tiers, higher wins.
const (
	tierEnvironmentDefault = 0
	tierSegmentOverride    = 1
	tierIdentityOverride   = 2
)

func (fs *FeatureState) tier() int {
	// Identity is checked first so a corrupt row carrying both scopes
	// ranks as an identity override.
	switch {
	case fs.IdentityID != nil:
		return tierIdentityOverride
	case fs.FeatureSegment != nil:
		return tierSegmentOverride
	default:
		return tierEnvironmentDefault
	}
}

// HigherPriority reports whether fs outranks other for the same feature.
// The order is total and deterministic:
//
//	identity override > segment override > environment default
//
// Among segment overrides the lower FeatureSegment.Priority wins, then the
// lower FeatureSegment.ID. Equal tiers otherwise fall back to the lower
// state id, so duplicate rows caused by write races still resolve the same
// way on every evaluation.
func (fs *FeatureState) HigherPriority(other *FeatureState) bool {
	if other == nil {
		return true
	}

	fsTier, otherTier := fs.tier(), other.tier()
	if fsTier != otherTier {
		return fsTier > otherTier
	}

	if fsTier == tierSegmentOverride {
		if fs.FeatureSegment.Priority != other.FeatureSegment.Priority {
			return fs.FeatureSegment.Priority < other.FeatureSegment.Priority
		}
		if fs.FeatureSegment.ID != other.FeatureSegment.ID {
			return fs.FeatureSegment.ID < other.FeatureSegment.ID
		}
	}

	return fs.ID < other.ID
}

// HighestPriority collapses candidate states to one winner per feature,
// returned in ascending feature id order for reproducible output.
func HighestPriority(states []*FeatureState) []*FeatureState {
	winners := make(map[int64]*FeatureState, len(states))
	for _, state := range states {
		current, ok := winners[state.Feature.ID]
		if !ok || state.HigherPriority(current) {
			winners[state.Feature.ID] = state
		}
	}

	result := make([]*FeatureState, 0, len(winners))
	for _, state := range winners {
		result = append(result, state)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Feature.ID < result[j].Feature.ID
	})
	return result
}

// DefaultStates builds the environment-default feature states created when
// an environment (or feature) comes into existence: one per feature,
// enabled per the feature default unless the project prevents flag
// defaults from propagating.
func DefaultStates(features []Feature, environmentID int64, preventDefaults bool, now time.Time) []FeatureState {
	states := make([]FeatureState, 0, len(features))
	for _, feature := range features {
		enabled := feature.DefaultEnabled
		if preventDefaults {
			enabled = false
		}
		version := 1
		liveFrom := now
		states = append(states, FeatureState{
			Feature:       feature,
			EnvironmentID: environmentID,
			Enabled:       enabled,
			Value:         feature.InitialValue,
			LiveFrom:      &liveFrom,
			Version:       &version,
		})
	}
	return states
}

// Clone copies the state into another environment. Identity overrides are
// never cloned; callers filter those out when cloning an environment.
func (fs *FeatureState) Clone(environmentID int64) FeatureState {
	clone := *fs
	clone.ID = 0
	clone.EnvironmentID = environmentID
	if fs.FeatureSegment != nil {
		segment := *fs.FeatureSegment
		segment.ID = 0
		segment.EnvironmentID = environmentID
		clone.FeatureSegment = &segment
	}
	if fs.LiveFrom != nil {
		liveFrom := *fs.LiveFrom
		clone.LiveFrom = &liveFrom
	}
	if fs.Version != nil {
		version := *fs.Version
		clone.Version = &version
	}
	clone.Multivariate = make([]MultivariateValue, len(fs.Multivariate))
	copy(clone.Multivariate, fs.Multivariate)
	return clone
}
