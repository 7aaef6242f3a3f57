package segments

// Operator identifies how a single condition compares a trait against the
// condition's configured value.
type Operator string

const (
	OperatorEqual                Operator = "EQUAL"
	OperatorNotEqual             Operator = "NOT_EQUAL"
	OperatorGreaterThan          Operator = "GREATER_THAN"
	OperatorGreaterThanInclusive Operator = "GREATER_THAN_INCLUSIVE"
	OperatorLessThan             Operator = "LESS_THAN"
	OperatorLessThanInclusive    Operator = "LESS_THAN_INCLUSIVE"
	OperatorContains             Operator = "CONTAINS"
	OperatorNotContains          Operator = "NOT_CONTAINS"
	OperatorRegex                Operator = "REGEX"
	OperatorPercentageSplit      Operator = "PERCENTAGE_SPLIT"
	OperatorIsSet                Operator = "IS_SET"
	OperatorIsNotSet             Operator = "IS_NOT_SET"
	OperatorIn                   Operator = "IN"
)

// RuleType is the combinator applied to a rule node's conditions and child
// rules.
type RuleType string

const (
	RuleAll  RuleType = "ALL"  // every condition and child must match
	RuleAny  RuleType = "ANY"  // at least one condition or child must match
	RuleNone RuleType = "NONE" // no condition and no child may match
)

// Condition is a leaf comparison. Property names the trait key; it is empty
// for PERCENTAGE_SPLIT, which buckets on the hash key instead of a trait.
type Condition struct {
	Operator Operator `json:"operator"`
	Property string   `json:"property"`
	Value    string   `json:"value"`
}

// Rule is one node of a segment's rule tree: a combinator over leaf
// conditions and nested child rules, recursively and to arbitrary depth.
type Rule struct {
	Type       RuleType    `json:"type"`
	Conditions []Condition `json:"conditions,omitempty"`
	Rules      []Rule      `json:"rules,omitempty"`
}

// Segment is a named, rule-defined cohort of identities. An identity
// belongs to the segment when every top-level rule evaluates true.
type Segment struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Rules []Rule `json:"rules"`
}
