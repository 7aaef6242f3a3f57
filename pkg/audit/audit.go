package audit

import (
	"fmt"
	"time"
)

// ObjectType identifies the kind of object an audit record describes.
type ObjectType string

const (
	ObjectFeature      ObjectType = "feature"
	ObjectFeatureState ObjectType = "feature_state"
	ObjectSegment      ObjectType = "segment"
	ObjectEnvironment  ObjectType = "environment"
	ObjectIdentity     ObjectType = "identity"
)

// Record is one entry in the change history of a project.
type Record struct {
	ID            string         `json:"id"`
	ProjectID     int64          `json:"project_id"`
	EnvironmentID int64          `json:"environment_id,omitempty"`
	ObjectType    ObjectType     `json:"object_type"`
	ObjectID      int64          `json:"object_id"`
	Message       string         `json:"message"`
	Author        string         `json:"author,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Validate checks that the record carries the required fields.
func (r *Record) Validate() error {
	if r.Message == "" {
		return fmt.Errorf("%w: message is required", ErrRecordValidation)
	}
	if r.ObjectType == "" {
		return fmt.Errorf("%w: object type is required", ErrRecordValidation)
	}
	return nil
}

// Canonical message builders. Change messages follow fixed formats so the
// history reads uniformly regardless of which code path wrote the record.

func FeatureCreatedMessage(name string) string {
	return fmt.Sprintf("New flag created: %s", name)
}

func FeatureDeletedMessage(name string) string {
	return fmt.Sprintf("Flag deleted: %s", name)
}

func FeatureStateUpdatedMessage(name string) string {
	return fmt.Sprintf("Flag state updated for feature: %s", name)
}

func IdentityFeatureStateUpdatedMessage(feature, identifier string) string {
	return fmt.Sprintf("Flag state updated for feature %q and identity %q", feature, identifier)
}

func SegmentFeatureStateUpdatedMessage(feature, segment string) string {
	return fmt.Sprintf("Flag state updated for feature %q and segment %q", feature, segment)
}

func SegmentCreatedMessage(name string) string {
	return fmt.Sprintf("New segment created: %s", name)
}

func SegmentUpdatedMessage(name string) string {
	return fmt.Sprintf("Segment updated: %s", name)
}

func EnvironmentClonedMessage(name, source string) string {
	return fmt.Sprintf("New environment cloned: %s from %s", name, source)
}
