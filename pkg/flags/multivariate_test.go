package flags_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagmate/flagmate/pkg/flags"
	"github.com/flagmate/flagmate/pkg/traits"
)

func multivariateState() flags.FeatureState {
	fs := liveState(100, flags.Feature{ID: 1, Name: "mv", Type: flags.TypeMultivariate})
	fs.Value = traits.NewString("control")
	fs.Multivariate = []flags.MultivariateValue{
		{ID: 1, OptionID: 1, Value: traits.NewString("a"), PercentageAllocation: 30},
		{ID: 2, OptionID: 2, Value: traits.NewString("b"), PercentageAllocation: 70},
	}
	return fs
}

func TestResolveValueStandardFeature(t *testing.T) {
	t.Parallel()

	fs := liveState(1, flags.Feature{ID: 1, Name: "std"})
	fs.Value = traits.NewString("plain")

	assert.Equal(t, traits.NewString("plain"), fs.ResolveValue("any-key"))
}

func TestResolveValueStableForSameIdentity(t *testing.T) {
	t.Parallel()

	fs := multivariateState()
	first := fs.ResolveValue("env-key_user-1")
	for range 50 {
		assert.Equal(t, first, fs.ResolveValue("env-key_user-1"))
	}
}

func TestResolveValueDistribution(t *testing.T) {
	t.Parallel()

	fs := multivariateState()
	counts := map[string]int{}
	const n = 10000
	for i := range n {
		value := fs.ResolveValue(fmt.Sprintf("identity-%d", i))
		counts[value.Str]++
	}

	// 30/70 split with no remainder: the base value never appears and the
	// empirical ratio sits within a few percent of the allocations.
	assert.Zero(t, counts["control"])
	assert.InDelta(t, 0.30, float64(counts["a"])/n, 0.03)
	assert.InDelta(t, 0.70, float64(counts["b"])/n, 0.03)
}

func TestResolveValueRemainderFallsBackToBaseValue(t *testing.T) {
	t.Parallel()

	fs := multivariateState()
	// 10 + 10 leaves an 80% remainder resolving to the state's own value.
	fs.Multivariate[0].PercentageAllocation = 10
	fs.Multivariate[1].PercentageAllocation = 10

	counts := map[string]int{}
	const n = 5000
	for i := range n {
		value := fs.ResolveValue(fmt.Sprintf("identity-%d", i))
		counts[value.Str]++
	}

	assert.InDelta(t, 0.80, float64(counts["control"])/n, 0.04)
}

func TestResolveValueOrderIndependentOfStorage(t *testing.T) {
	t.Parallel()

	ordered := multivariateState()
	shuffled := multivariateState()
	shuffled.Multivariate = []flags.MultivariateValue{
		shuffled.Multivariate[1], shuffled.Multivariate[0],
	}

	// Selection walks options by ascending option id, so storage order
	// cannot shift bucket boundaries.
	for i := range 200 {
		key := fmt.Sprintf("identity-%d", i)
		require.Equal(t, ordered.ResolveValue(key), shuffled.ResolveValue(key))
	}
}

func TestResolveValueDependsOnStateID(t *testing.T) {
	t.Parallel()

	one := multivariateState()
	other := multivariateState()
	other.ID = 200

	different := false
	for i := range 200 {
		key := fmt.Sprintf("identity-%d", i)
		if one.ResolveValue(key) != other.ResolveValue(key) {
			different = true
			break
		}
	}
	assert.True(t, different, "bucketing must incorporate the state id")
}
