package traits

// Trait is a typed key/value fact about an identity. Keys are unique per
// identity; the merge engine enforces last-write-wins within a batch.
type Trait struct {
	Key   string `json:"trait_key"`
	Value Value  `json:"trait_value"`
}

// Set indexes traits by key for condition evaluation.
type Set map[string]Value

// NewSet builds a Set from a trait list. Later duplicates win, mirroring
// the merge engine's last-write-wins rule.
func NewSet(list []Trait) Set {
	set := make(Set, len(list))
	for _, tr := range list {
		set[tr.Key] = tr.Value
	}
	return set
}

// Update is one incoming identify-call item. A nil Value marks the key for
// deletion.
type Update struct {
	Key   string
	Value *Value
}
