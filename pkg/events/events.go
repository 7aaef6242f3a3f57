package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/flagmate/flagmate/pkg/traits"
)

// Kind identifies a domain event type.
type Kind string

const (
	KindFeatureStateChanged Kind = "feature_state.changed"
	KindTraitsUpdated       Kind = "traits.updated"
	KindEnvironmentCloned   Kind = "environment.cloned"
)

// Event is a domain event published by the write boundary after a commit.
// The resolver's read path never emits events.
type Event interface {
	Kind() Kind
	EventID() string
	OccurredAt() time.Time
}

// meta carries the fields shared by all event payloads.
type meta struct {
	ID string    `json:"event_id"`
	At time.Time `json:"occurred_at"`
}

func newMeta() meta {
	return meta{ID: uuid.NewString(), At: time.Now().UTC()}
}

func (m meta) EventID() string       { return m.ID }
func (m meta) OccurredAt() time.Time { return m.At }

// FeatureStateChanged is published when a feature state is created or
// updated through the write boundary.
type FeatureStateChanged struct {
	meta
	EnvironmentID  int64        `json:"environment_id"`
	EnvironmentKey string       `json:"environment_key"`
	FeatureID      int64        `json:"feature_id"`
	FeatureName    string       `json:"feature_name"`
	FeatureStateID int64        `json:"feature_state_id"`
	Enabled        bool         `json:"enabled"`
	Value          traits.Value `json:"value"`
	IdentityID     *int64       `json:"identity_id,omitempty"`
	SegmentID      *int64       `json:"segment_id,omitempty"`
}

func (FeatureStateChanged) Kind() Kind { return KindFeatureStateChanged }

// NewFeatureStateChanged stamps the event with an id and timestamp.
func NewFeatureStateChanged(e FeatureStateChanged) FeatureStateChanged {
	e.meta = newMeta()
	return e
}

// TraitsUpdated is published after an identify call changes stored traits.
type TraitsUpdated struct {
	meta
	EnvironmentID int64          `json:"environment_id"`
	Identifier    string         `json:"identifier"`
	Created       []traits.Trait `json:"created,omitempty"`
	Updated       []traits.Trait `json:"updated,omitempty"`
	DeletedKeys   []string       `json:"deleted_keys,omitempty"`
}

func (TraitsUpdated) Kind() Kind { return KindTraitsUpdated }

// NewTraitsUpdated stamps the event with an id and timestamp.
func NewTraitsUpdated(e TraitsUpdated) TraitsUpdated {
	e.meta = newMeta()
	return e
}

// EnvironmentCloned is published after an environment clone commits.
type EnvironmentCloned struct {
	meta
	SourceEnvironmentID int64  `json:"source_environment_id"`
	EnvironmentID       int64  `json:"environment_id"`
	Name                string `json:"name"`
}

func (EnvironmentCloned) Kind() Kind { return KindEnvironmentCloned }

// NewEnvironmentCloned stamps the event with an id and timestamp.
func NewEnvironmentCloned(e EnvironmentCloned) EnvironmentCloned {
	e.meta = newMeta()
	return e
}
