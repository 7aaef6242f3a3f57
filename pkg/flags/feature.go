package flags

import (
	"time"

	"github.com/flagmate/flagmate/pkg/traits"
)

// FeatureType distinguishes plain on/off features from features whose value
// is picked among weighted multivariate options.
type FeatureType string

const (
	TypeStandard     FeatureType = "STANDARD"
	TypeMultivariate FeatureType = "MULTIVARIATE"
)

// Feature is a flag definition owned by a project. Name is unique within
// the project; per-environment behavior lives on FeatureState rows.
type Feature struct {
	ID             int64        `json:"id"`
	UUID           string       `json:"uuid"`
	Name           string       `json:"name"`
	Type           FeatureType  `json:"type"`
	DefaultEnabled bool         `json:"default_enabled"`
	InitialValue   traits.Value `json:"initial_value"`
	Description    string       `json:"description,omitempty"`
	CreatedAt      time.Time    `json:"created_date"`
	ProjectID      int64        `json:"project"`
}

// MultivariateOption is one weighted candidate value of a multivariate
// feature. DefaultPercentageAllocation seeds new feature states; each state
// can override the weight through its MultivariateValue rows.
type MultivariateOption struct {
	ID                          int64        `json:"id"`
	FeatureID                   int64        `json:"feature"`
	Value                       traits.Value `json:"value"`
	DefaultPercentageAllocation float64      `json:"default_percentage_allocation"`
}

// MultivariateValue links a feature state to a multivariate option with the
// allocation weight specific to that state. Walk order is ascending option
// id so bucket boundaries are stable.
type MultivariateValue struct {
	ID                   int64        `json:"id"`
	OptionID             int64        `json:"multivariate_feature_option"`
	Value                traits.Value `json:"value"`
	PercentageAllocation float64      `json:"percentage_allocation"`
}

// FeatureSegment associates a segment override with a feature inside an
// environment. Priority breaks ties between multiple segment overrides for
// the same feature: lower is stronger.
type FeatureSegment struct {
	ID            int64 `json:"id"`
	FeatureID     int64 `json:"feature"`
	SegmentID     int64 `json:"segment"`
	EnvironmentID int64 `json:"environment"`
	Priority      int   `json:"priority"`
}
