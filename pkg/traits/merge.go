package traits

import "slices"

// MergeResult describes the outcome of reconciling incoming trait updates
// against an identity's stored traits. Result holds the full post-merge
// trait list; the change sets let a store apply the minimal write.
type MergeResult struct {
	Result      []Trait
	Created     []Trait
	Updated     []Trait
	DeletedKeys []string
}

// Changed reports whether the merge produced any write at all.
func (r MergeResult) Changed() bool {
	return len(r.Created) > 0 || len(r.Updated) > 0 || len(r.DeletedKeys) > 0
}

// Merge reconciles incoming updates against the existing trait list:
//
//   - nil value: the key is marked for deletion; deleting a key that does
//     not exist is a no-op, not an error
//   - existing key, unchanged value: skipped entirely
//   - existing key, new value: staged as an update
//   - new key: staged as a create
//
// Within one batch the last update for a key wins. The Result preserves the
// order of existing traits and appends new keys in first-seen incoming
// order, which keeps resolver input stable across repeated identify calls.
//
// Merge is pure; persisting (or deliberately not persisting) the change
// sets is the store's concern.
func Merge(existing []Trait, incoming []Update) MergeResult {
	current := make(map[string]Value, len(existing))
	for _, tr := range existing {
		current[tr.Key] = tr.Value
	}

	// Collapse the batch per key first so last-write-wins applies before
	// any comparison against stored values.
	final := make(map[string]*Value, len(incoming))
	var keyOrder []string
	for _, up := range incoming {
		if up.Key == "" {
			continue
		}
		if _, seen := final[up.Key]; !seen {
			keyOrder = append(keyOrder, up.Key)
		}
		final[up.Key] = up.Value
	}

	var result MergeResult
	deleted := make(map[string]struct{})

	for _, key := range keyOrder {
		value := final[key]

		if value == nil {
			if _, exists := current[key]; exists {
				result.DeletedKeys = append(result.DeletedKeys, key)
				deleted[key] = struct{}{}
			}
			continue
		}

		if existingValue, exists := current[key]; exists {
			if existingValue.Equal(*value) {
				continue
			}
			result.Updated = append(result.Updated, Trait{Key: key, Value: *value})
			current[key] = *value
			continue
		}

		result.Created = append(result.Created, Trait{Key: key, Value: *value})
	}

	result.Result = make([]Trait, 0, len(existing)+len(result.Created))
	for _, tr := range existing {
		if _, gone := deleted[tr.Key]; gone {
			continue
		}
		result.Result = append(result.Result, Trait{Key: tr.Key, Value: current[tr.Key]})
	}
	result.Result = append(result.Result, slices.Clone(result.Created)...)

	return result
}
