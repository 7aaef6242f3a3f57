package webhook

import (
	"time"

	"github.com/flagmate/flagmate/pkg/events"
)

// FeaturePayload is the feature block of a feature-state webhook body.
type FeaturePayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CreatedDate string `json:"created_date,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// EnvironmentPayload identifies the environment a change happened in.
type EnvironmentPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SegmentPayload identifies the segment behind a segment-override change.
type SegmentPayload struct {
	ID       int64 `json:"segment_id"`
	Priority *int  `json:"priority,omitempty"`
}

// FeatureStatePayload is the body delivered to feature-state webhooks.
type FeatureStatePayload struct {
	Feature        FeaturePayload     `json:"feature"`
	Environment    EnvironmentPayload `json:"environment"`
	Identity       *int64             `json:"identity"`
	FeatureSegment *SegmentPayload    `json:"feature_segment"`
	Enabled        bool               `json:"enabled"`
	Value          any                `json:"feature_state_value"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

// NewFeatureStatePayload shapes a FeatureStateChanged event into the
// webhook body format.
func NewFeatureStatePayload(event events.FeatureStateChanged, environmentName string) FeatureStatePayload {
	payload := FeatureStatePayload{
		Feature: FeaturePayload{
			ID:   event.FeatureID,
			Name: event.FeatureName,
		},
		Environment: EnvironmentPayload{
			ID:   event.EnvironmentID,
			Name: environmentName,
		},
		Identity:   event.IdentityID,
		Enabled:    event.Enabled,
		Value:      event.Value,
		OccurredAt: event.OccurredAt(),
	}
	if event.SegmentID != nil {
		payload.FeatureSegment = &SegmentPayload{ID: *event.SegmentID}
	}
	return payload
}
