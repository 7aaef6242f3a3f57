package snapshot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagmate/flagmate/pkg/flags"
	"github.com/flagmate/flagmate/pkg/segments"
	"github.com/flagmate/flagmate/pkg/snapshot"
	"github.com/flagmate/flagmate/pkg/traits"
)

func ptr[T any](v T) *T { return &v }

func testDocument() *snapshot.Document {
	liveFrom := time.Now().Add(-time.Hour)
	version := 1
	identityID := int64(7)

	return &snapshot.Document{
		Environment: snapshot.Environment{
			ID:     1,
			APIKey: "env-key",
			Name:   "production",
			Project: snapshot.Project{
				ID: 1, Name: "proj", PersistTraitData: true,
			},
		},
		Features: []flags.Feature{{ID: 1, Name: "f", InitialValue: traits.NewInt(42)}},
		Segments: []segments.Segment{
			{ID: 10, Name: "overridden"},
			{ID: 11, Name: "unused"},
		},
		FeatureSegments: []flags.FeatureSegment{
			{ID: 1, FeatureID: 1, SegmentID: 10, EnvironmentID: 1, Priority: 1},
			{ID: 2, FeatureID: 1, SegmentID: 11, EnvironmentID: 2, Priority: 1},
		},
		States: []flags.FeatureState{
			{
				ID: 1, Feature: flags.Feature{ID: 1, Name: "f"}, EnvironmentID: 1,
				Value: traits.NewString("on"), LiveFrom: &liveFrom, Version: &version,
			},
			{
				ID: 2, Feature: flags.Feature{ID: 1, Name: "f"}, EnvironmentID: 1,
				IdentityID: &identityID, Value: traits.NewFloat(2.5),
				LiveFrom: &liveFrom, Version: &version,
			},
		},
		UpdatedAt: time.Now(),
	}
}

func TestEffectiveHideDisabledFlags(t *testing.T) {
	t.Parallel()

	env := snapshot.Environment{Project: snapshot.Project{HideDisabledFlags: true}}
	assert.True(t, env.EffectiveHideDisabledFlags(), "falls back to project default")

	env.HideDisabledFlags = ptr(false)
	assert.False(t, env.EffectiveHideDisabledFlags(), "environment override wins")
}

func TestCompositeKey(t *testing.T) {
	t.Parallel()

	env := snapshot.Environment{APIKey: "abc"}
	assert.Equal(t, "abc_user1", env.CompositeKey("user1"))
}

func TestOverriddenSegments(t *testing.T) {
	t.Parallel()

	doc := testDocument()
	overridden := doc.OverriddenSegments()

	// Segment 11's override belongs to another environment.
	require.Len(t, overridden, 1)
	assert.Equal(t, int64(10), overridden[0].ID)
}

func TestClone(t *testing.T) {
	t.Parallel()

	doc := testDocument()
	clone := doc.Clone(99, "staging", "")

	assert.Equal(t, int64(99), clone.Environment.ID)
	assert.Equal(t, "staging", clone.Environment.Name)
	assert.NotEmpty(t, clone.Environment.APIKey)
	assert.NotEqual(t, doc.Environment.APIKey, clone.Environment.APIKey)

	// Identity-scoped states are never cloned.
	require.Len(t, clone.States, 1)
	assert.Nil(t, clone.States[0].IdentityID)
	assert.Equal(t, int64(99), clone.States[0].EnvironmentID)

	require.Len(t, clone.FeatureSegments, 2)
	for _, fs := range clone.FeatureSegments {
		assert.Equal(t, int64(99), fs.EnvironmentID)
		assert.Zero(t, fs.ID)
	}
}

func TestCloneWithExplicitAPIKey(t *testing.T) {
	t.Parallel()

	clone := testDocument().Clone(99, "staging", "explicit-key")
	assert.Equal(t, "explicit-key", clone.Environment.APIKey)
}
