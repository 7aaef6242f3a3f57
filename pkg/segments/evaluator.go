package segments

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/flagmate/flagmate/pkg/bucketing"
	"github.com/flagmate/flagmate/pkg/traits"
)

// defaultMaxDepth bounds rule tree recursion. Authoring prevents cycles,
// but the evaluator refuses pathological depth rather than trusting that.
const defaultMaxDepth = 32

// Evaluator evaluates segment membership. The zero value is not usable;
// construct with NewEvaluator.
type Evaluator struct {
	log      *slog.Logger
	maxDepth int
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger routes configuration-error logs (bad regex, unparseable split
// values) to the given logger.
func WithLogger(log *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMaxDepth overrides the rule tree recursion bound.
func WithMaxDepth(depth int) EvaluatorOption {
	return func(e *Evaluator) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// NewEvaluator creates a segment evaluator.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		log:      slog.Default(),
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// evalContext carries the per-identity inputs through rule recursion.
type evalContext struct {
	segmentID   string
	identityKey string
	traits      traits.Set
}

// Matches reports whether the identity with the given traits belongs to
// the segment. Every top-level rule must hold. PERCENTAGE_SPLIT leaves
// bucket on [segment id, identity key] so a given identity lands in the
// same split for a segment everywhere, always.
func (e *Evaluator) Matches(segment Segment, identityKey string, set traits.Set) bool {
	ec := evalContext{
		segmentID:   strconv.FormatInt(segment.ID, 10),
		identityKey: identityKey,
		traits:      set,
	}

	for _, rule := range segment.Rules {
		if !e.evaluateRule(rule, ec, 0) {
			return false
		}
	}
	return true
}

// MatchingSegments filters segments down to those the identity belongs to,
// preserving input order. Callers pre-filter candidates to segments that
// actually hold an override in the environment.
func (e *Evaluator) MatchingSegments(all []Segment, identityKey string, set traits.Set) []Segment {
	var matched []Segment
	for _, segment := range all {
		if e.Matches(segment, identityKey, set) {
			matched = append(matched, segment)
		}
	}
	return matched
}

// evaluateRule applies the node's combinator across its conditions and its
// recursively evaluated children. A node with no conditions and no children
// is vacuously true, which permits pure-structural nesting.
func (e *Evaluator) evaluateRule(rule Rule, ec evalContext, depth int) bool {
	if depth > e.maxDepth {
		e.log.Warn("segment rule tree exceeds max depth, evaluating false",
			"segment_id", ec.segmentID, "max_depth", e.maxDepth)
		return false
	}

	if len(rule.Conditions) == 0 && len(rule.Rules) == 0 {
		return true
	}

	switch rule.Type {
	case RuleAny:
		for _, cond := range rule.Conditions {
			if e.evaluateCondition(cond, ec) {
				return true
			}
		}
		for _, child := range rule.Rules {
			if e.evaluateRule(child, ec, depth+1) {
				return true
			}
		}
		return false

	case RuleNone:
		for _, cond := range rule.Conditions {
			if e.evaluateCondition(cond, ec) {
				return false
			}
		}
		for _, child := range rule.Rules {
			if e.evaluateRule(child, ec, depth+1) {
				return false
			}
		}
		return true

	default: // ALL
		for _, cond := range rule.Conditions {
			if !e.evaluateCondition(cond, ec) {
				return false
			}
		}
		for _, child := range rule.Rules {
			if !e.evaluateRule(child, ec, depth+1) {
				return false
			}
		}
		return true
	}
}

// evaluateCondition evaluates one leaf. Configuration errors (malformed
// regex, unparseable numbers) and missing traits evaluate to non-match
// rather than aborting resolution: SDKs poll constantly and a single bad
// condition must not take down the whole flag response.
func (e *Evaluator) evaluateCondition(cond Condition, ec evalContext) bool {
	if cond.Operator == OperatorPercentageSplit {
		threshold, err := strconv.ParseFloat(cond.Value, 64)
		if err != nil {
			e.log.Warn("percentage split condition has non-numeric value",
				"segment_id", ec.segmentID, "value", cond.Value)
			return false
		}
		return bucketing.Percentage(ec.segmentID, ec.identityKey) < threshold
	}

	traitValue, hasTrait := ec.traits[cond.Property]

	switch cond.Operator {
	case OperatorIsSet:
		return hasTrait
	case OperatorIsNotSet:
		return !hasTrait
	}

	if !hasTrait {
		return false
	}

	switch cond.Operator {
	case OperatorEqual:
		return e.equal(traitValue, cond.Value)
	case OperatorNotEqual:
		return !e.equal(traitValue, cond.Value)
	case OperatorGreaterThan:
		return e.compare(traitValue, cond.Value) > 0
	case OperatorGreaterThanInclusive:
		return e.compare(traitValue, cond.Value) >= 0
	case OperatorLessThan:
		return e.compare(traitValue, cond.Value) < 0
	case OperatorLessThanInclusive:
		return e.compare(traitValue, cond.Value) <= 0
	case OperatorContains:
		return strings.Contains(traitValue.String(), cond.Value)
	case OperatorNotContains:
		return !strings.Contains(traitValue.String(), cond.Value)
	case OperatorRegex:
		re, err := regexp.Compile(cond.Value)
		if err != nil {
			e.log.Warn("regex condition failed to compile",
				"segment_id", ec.segmentID, "pattern", cond.Value, "error", err)
			return false
		}
		return re.MatchString(traitValue.String())
	case OperatorIn:
		for _, candidate := range strings.Split(cond.Value, ",") {
			if traitValue.String() == candidate {
				return true
			}
		}
		return false
	default:
		e.log.Warn("unknown condition operator", "operator", string(cond.Operator))
		return false
	}
}

// equal compares a trait against a condition value: boolean traits compare
// as booleans when the value parses as one, numeric traits compare
// numerically when both sides parse, everything else falls back to the
// trait's canonical string rendering.
func (e *Evaluator) equal(traitValue traits.Value, condValue string) bool {
	if traitValue.Type == traits.TypeBoolean {
		if b, err := strconv.ParseBool(strings.ToLower(condValue)); err == nil {
			return traitValue.Boolean == b
		}
		return false
	}

	traitFloat, traitOK := traitValue.AsFloat()
	condFloat, err := strconv.ParseFloat(condValue, 64)
	if traitOK && err == nil {
		return traitFloat == condFloat
	}

	return traitValue.String() == condValue
}

// compare returns -1/0/+1 for the ordered operators, numerically when both
// sides parse as numbers and lexicographically otherwise.
func (e *Evaluator) compare(traitValue traits.Value, condValue string) int {
	traitFloat, traitOK := traitValue.AsFloat()
	condFloat, err := strconv.ParseFloat(condValue, 64)
	if traitOK && err == nil {
		switch {
		case traitFloat < condFloat:
			return -1
		case traitFloat > condFloat:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(traitValue.String(), condValue)
}
