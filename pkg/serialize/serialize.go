package serialize

import (
	"time"

	"github.com/flagmate/flagmate/pkg/traits"
	"github.com/flagmate/flagmate/svc/resolver"
)

// FeatureView is the SDK-facing feature shape. Pointer fields are the ones
// nulled out when an environment hides sensitive data.
type FeatureView struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	CreatedDate    *time.Time `json:"created_date"`
	Description    *string    `json:"description"`
	InitialValue   any        `json:"initial_value"`
	DefaultEnabled *bool      `json:"default_enabled"`
}

// FlagView is the SDK-facing feature-state shape.
type FlagView struct {
	ID             *int64       `json:"id"`
	Feature        FeatureView  `json:"feature"`
	Enabled        bool         `json:"enabled"`
	Value          traits.Value `json:"feature_state_value"`
	Environment    *int64       `json:"environment"`
	Identity       *int64       `json:"identity"`
	FeatureSegment *int64       `json:"feature_segment"`
}

// TraitView is the SDK-facing trait shape.
type TraitView struct {
	Key   string       `json:"trait_key"`
	Value traits.Value `json:"trait_value"`
}

// Flags converts resolved flags to their wire shape. With hideSensitiveData
// set, fields an SDK consumer has no business seeing are nulled: feature
// metadata (created date, description, initial value, default enabled) and
// the state's provenance (row id, environment, identity, feature segment).
// The engine always hands over complete flags; redaction happens only here.
func Flags(list []resolver.Flag, hideSensitiveData bool) []FlagView {
	views := make([]FlagView, 0, len(list))
	for _, flag := range list {
		view := FlagView{
			Feature: FeatureView{
				ID:   flag.Feature.ID,
				Name: flag.Feature.Name,
				Type: string(flag.Feature.Type),
			},
			Enabled: flag.Enabled,
			Value:   flag.Value,
		}

		if !hideSensitiveData {
			createdDate := flag.Feature.CreatedAt
			description := flag.Feature.Description
			defaultEnabled := flag.Feature.DefaultEnabled
			view.Feature.CreatedDate = &createdDate
			view.Feature.Description = &description
			view.Feature.InitialValue = flag.Feature.InitialValue
			view.Feature.DefaultEnabled = &defaultEnabled

			stateID := flag.FeatureStateID
			environmentID := flag.EnvironmentID
			view.ID = &stateID
			view.Environment = &environmentID
			view.Identity = flag.IdentityID
			if flag.FeatureSegment != nil {
				segmentID := flag.FeatureSegment.ID
				view.FeatureSegment = &segmentID
			}
		}

		views = append(views, view)
	}
	return views
}

// Traits converts a trait list to its wire shape.
func Traits(list []traits.Trait) []TraitView {
	views := make([]TraitView, 0, len(list))
	for _, tr := range list {
		views = append(views, TraitView{Key: tr.Key, Value: tr.Value})
	}
	return views
}
