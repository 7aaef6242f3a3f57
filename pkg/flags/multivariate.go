package flags

import (
	"sort"
	"strconv"

	"github.com/flagmate/flagmate/pkg/bucketing"
	"github.com/flagmate/flagmate/pkg/traits"
)

// ResolveValue returns the effective value of the state for the identity
// behind hashKey. Standard features return the state's own value. For
// multivariate states the identity is bucketed deterministically on
// [identity hash key, state id]: the option whose cumulative allocation
// range contains the bucket wins, and the remainder (allocations need not
// sum to 100) falls through to the state's base value.
//
// The selection is a pure function of (state id, option weights, hash key);
// repeated calls always pick the same option. No randomness is involved.
func (fs *FeatureState) ResolveValue(hashKey string) traits.Value {
	if len(fs.Multivariate) == 0 {
		return fs.Value
	}

	bucket := bucketing.Percentage(hashKey, strconv.FormatInt(fs.ID, 10))

	// Ascending option id keeps bucket boundaries identical everywhere a
	// state is evaluated, regardless of storage order.
	ordered := make([]MultivariateValue, len(fs.Multivariate))
	copy(ordered, fs.Multivariate)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].OptionID < ordered[j].OptionID
	})

	var runningTotal float64
	for _, mv := range ordered {
		runningTotal += mv.PercentageAllocation
		if bucket < runningTotal {
			return mv.Value
		}
	}

	return fs.Value
}
