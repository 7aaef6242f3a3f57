package snapshot

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flagmate/flagmate/pkg/flags"
	"github.com/flagmate/flagmate/pkg/segments"
)

// Project is the denormalized project view an environment evaluates under.
type Project struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	HideDisabledFlags   bool   `json:"hide_disabled_flags"`
	PersistTraitData    bool   `json:"persist_trait_data"`
	PreventFlagDefaults bool   `json:"prevent_flag_defaults"`
}

// Environment is the evaluation-relevant environment snapshot.
type Environment struct {
	ID                int64   `json:"id"`
	APIKey            string  `json:"api_key"`
	Name              string  `json:"name"`
	HideDisabledFlags *bool   `json:"hide_disabled_flags"`
	UseMVV2Evaluation bool    `json:"use_mv_v2_evaluation"`
	AllowClientTraits bool    `json:"allow_client_traits"`
	HideSensitiveData bool    `json:"hide_sensitive_data"`
	Project           Project `json:"project"`
}

// EffectiveHideDisabledFlags resolves the effective setting: the
// environment's override when present, the project default otherwise.
func (e Environment) EffectiveHideDisabledFlags() bool {
	if e.HideDisabledFlags != nil {
		return *e.HideDisabledFlags
	}
	return e.Project.HideDisabledFlags
}

// CompositeKey builds the identity hash key used when consistent
// multivariate evaluation across SDKs is enabled.
func (e Environment) CompositeKey(identifier string) string {
	return e.APIKey + "_" + identifier
}

// Document is a consistent point-in-time view of everything an evaluation
// needs: the environment, its features, all live-relevant feature states,
// the project's segments and the environment's segment overrides. Cache
// entries hold whole documents so evaluations never observe a torn mix of
// old and new configuration.
type Document struct {
	Environment     Environment            `json:"environment"`
	Features        []flags.Feature        `json:"features"`
	States          []flags.FeatureState   `json:"feature_states"`
	Segments        []segments.Segment     `json:"segments"`
	FeatureSegments []flags.FeatureSegment `json:"feature_segments"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// OverriddenSegments returns the segments that hold at least one feature
// segment override in this environment, preserving segment order. These
// are the only candidates worth matching during flag resolution.
func (d *Document) OverriddenSegments() []segments.Segment {
	overridden := make(map[int64]struct{}, len(d.FeatureSegments))
	for _, fs := range d.FeatureSegments {
		if fs.EnvironmentID == d.Environment.ID {
			overridden[fs.SegmentID] = struct{}{}
		}
	}

	var result []segments.Segment
	for _, segment := range d.Segments {
		if _, ok := overridden[segment.ID]; ok {
			result = append(result, segment)
		}
	}
	return result
}

// NewAPIKey generates a client-side environment key.
func NewAPIKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Clone copies the document into a new environment: feature segments and
// non-identity feature states are carried over, identity overrides are
// deliberately left behind since identities are scoped to their source
// environment. The given apiKey is used when non-empty, otherwise a fresh
// one is generated.
func (d *Document) Clone(environmentID int64, name, apiKey string) *Document {
	if apiKey == "" {
		apiKey = NewAPIKey()
	}

	env := d.Environment
	env.ID = environmentID
	env.Name = name
	env.APIKey = apiKey

	clone := &Document{
		Environment: env,
		Features:    append([]flags.Feature(nil), d.Features...),
		Segments:    append([]segments.Segment(nil), d.Segments...),
		UpdatedAt:   time.Now(),
	}

	for _, fs := range d.FeatureSegments {
		fsClone := fs
		fsClone.ID = 0
		fsClone.EnvironmentID = environmentID
		clone.FeatureSegments = append(clone.FeatureSegments, fsClone)
	}

	for i := range d.States {
		if d.States[i].IdentityID != nil {
			continue
		}
		clone.States = append(clone.States, d.States[i].Clone(environmentID))
	}

	return clone
}
