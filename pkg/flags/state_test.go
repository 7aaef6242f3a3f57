package flags_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagmate/flagmate/pkg/flags"
	"github.com/flagmate/flagmate/pkg/traits"
)

func ptr[T any](v T) *T { return &v }

func liveState(id int64, feature flags.Feature) flags.FeatureState {
	liveFrom := time.Now().Add(-time.Hour)
	return flags.FeatureState{
		ID:            id,
		Feature:       feature,
		EnvironmentID: 1,
		Enabled:       true,
		LiveFrom:      &liveFrom,
		Version:       ptr(1),
	}
}

func TestLive(t *testing.T) {
	t.Parallel()

	now := time.Now()
	feature := flags.Feature{ID: 1, Name: "f"}

	t.Run("live state", func(t *testing.T) {
		t.Parallel()
		fs := liveState(1, feature)
		assert.True(t, fs.Live(now))
	})

	t.Run("draft without version", func(t *testing.T) {
		t.Parallel()
		fs := liveState(1, feature)
		fs.Version = nil
		assert.False(t, fs.Live(now))
	})

	t.Run("not yet live", func(t *testing.T) {
		t.Parallel()
		fs := liveState(1, feature)
		fs.LiveFrom = ptr(now.Add(time.Hour))
		assert.False(t, fs.Live(now))
	})

	t.Run("nil live_from", func(t *testing.T) {
		t.Parallel()
		fs := liveState(1, feature)
		fs.LiveFrom = nil
		assert.False(t, fs.Live(now))
	})
}

func TestHigherPriorityTiers(t *testing.T) {
	t.Parallel()

	feature := flags.Feature{ID: 10, Name: "f"}

	environmentDefault := liveState(1, feature)

	segmentOverride := liveState(2, feature)
	segmentOverride.FeatureSegment = &flags.FeatureSegment{ID: 5, SegmentID: 3, FeatureID: 10, EnvironmentID: 1, Priority: 2}

	identityOverride := liveState(3, feature)
	identityOverride.IdentityID = ptr(int64(99))

	assert.True(t, identityOverride.HigherPriority(&segmentOverride))
	assert.True(t, identityOverride.HigherPriority(&environmentDefault))
	assert.True(t, segmentOverride.HigherPriority(&environmentDefault))

	assert.False(t, environmentDefault.HigherPriority(&segmentOverride))
	assert.False(t, environmentDefault.HigherPriority(&identityOverride))
	assert.False(t, segmentOverride.HigherPriority(&identityOverride))
}

func TestHigherPrioritySegmentTieBreaks(t *testing.T) {
	t.Parallel()

	feature := flags.Feature{ID: 10, Name: "f"}

	priorityOne := liveState(1, feature)
	priorityOne.FeatureSegment = &flags.FeatureSegment{ID: 9, Priority: 1}

	priorityTwo := liveState(2, feature)
	priorityTwo.FeatureSegment = &flags.FeatureSegment{ID: 4, Priority: 2}

	// Lower priority integer wins regardless of ids.
	assert.True(t, priorityOne.HigherPriority(&priorityTwo))
	assert.False(t, priorityTwo.HigherPriority(&priorityOne))

	// Equal priorities: lower feature segment id wins.
	tieA := liveState(3, feature)
	tieA.FeatureSegment = &flags.FeatureSegment{ID: 7, Priority: 1}
	tieB := liveState(4, feature)
	tieB.FeatureSegment = &flags.FeatureSegment{ID: 8, Priority: 1}

	assert.True(t, tieA.HigherPriority(&tieB))
	assert.False(t, tieB.HigherPriority(&tieA))
}

func TestHigherPriorityCorruptRowRanksAsIdentity(t *testing.T) {
	t.Parallel()

	feature := flags.Feature{ID: 10, Name: "f"}

	corrupt := liveState(1, feature)
	corrupt.IdentityID = ptr(int64(99))
	corrupt.FeatureSegment = &flags.FeatureSegment{ID: 1, Priority: 1}

	segmentOverride := liveState(2, feature)
	segmentOverride.FeatureSegment = &flags.FeatureSegment{ID: 2, Priority: 1}

	assert.True(t, corrupt.HigherPriority(&segmentOverride))
}

func TestHighestPriority(t *testing.T) {
	t.Parallel()

	featureA := flags.Feature{ID: 1, Name: "a"}
	featureB := flags.Feature{ID: 2, Name: "b"}

	defaultA := liveState(1, featureA)
	identityA := liveState(2, featureA)
	identityA.IdentityID = ptr(int64(7))
	defaultB := liveState(3, featureB)

	result := flags.HighestPriority([]*flags.FeatureState{&defaultA, &identityA, &defaultB})
	require.Len(t, result, 2)

	// Ascending feature id, identity override wins for feature a.
	assert.Equal(t, int64(2), result[0].ID)
	assert.Equal(t, int64(3), result[1].ID)
}

func TestHighestPriorityDeterministicForDuplicates(t *testing.T) {
	t.Parallel()

	feature := flags.Feature{ID: 1, Name: "a"}
	first := liveState(10, feature)
	second := liveState(11, feature)

	// Duplicate environment defaults from a write race: lower id wins, in
	// either input order.
	forward := flags.HighestPriority([]*flags.FeatureState{&first, &second})
	backward := flags.HighestPriority([]*flags.FeatureState{&second, &first})

	require.Len(t, forward, 1)
	require.Len(t, backward, 1)
	assert.Equal(t, int64(10), forward[0].ID)
	assert.Equal(t, int64(10), backward[0].ID)
}

func TestDefaultStates(t *testing.T) {
	t.Parallel()

	now := time.Now()
	features := []flags.Feature{
		{ID: 1, Name: "on-by-default", DefaultEnabled: true, InitialValue: traits.NewString("v1")},
		{ID: 2, Name: "off-by-default", DefaultEnabled: false},
	}

	states := flags.DefaultStates(features, 42, false, now)
	require.Len(t, states, 2)

	assert.True(t, states[0].Enabled)
	assert.Equal(t, traits.NewString("v1"), states[0].Value)
	assert.False(t, states[1].Enabled)
	for _, fs := range states {
		assert.Equal(t, int64(42), fs.EnvironmentID)
		assert.True(t, fs.Live(now))
		assert.Nil(t, fs.IdentityID)
		assert.Nil(t, fs.FeatureSegment)
	}

	prevented := flags.DefaultStates(features, 42, true, now)
	assert.False(t, prevented[0].Enabled, "prevent-defaults forces states off")
}

func TestClone(t *testing.T) {
	t.Parallel()

	feature := flags.Feature{ID: 1, Name: "f"}
	original := liveState(5, feature)
	original.FeatureSegment = &flags.FeatureSegment{ID: 3, SegmentID: 2, FeatureID: 1, EnvironmentID: 1, Priority: 1}
	original.Multivariate = []flags.MultivariateValue{{ID: 1, OptionID: 1, PercentageAllocation: 30}}

	clone := original.Clone(99)

	assert.Zero(t, clone.ID)
	assert.Equal(t, int64(99), clone.EnvironmentID)
	assert.Equal(t, int64(99), clone.FeatureSegment.EnvironmentID)
	assert.Zero(t, clone.FeatureSegment.ID)
	assert.Equal(t, original.Enabled, clone.Enabled)
	require.Len(t, clone.Multivariate, 1)

	// Mutating the clone must not leak into the original.
	clone.Multivariate[0].PercentageAllocation = 70
	clone.FeatureSegment.Priority = 9
	assert.Equal(t, float64(30), original.Multivariate[0].PercentageAllocation)
	assert.Equal(t, 1, original.FeatureSegment.Priority)
}
