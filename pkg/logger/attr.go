package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// EnvironmentID records the environment under the key "environment_id".
func EnvironmentID(id int64) slog.Attr {
	return slog.Int64("environment_id", id)
}

// FeatureName records the feature under the key "feature".
func FeatureName(name string) slog.Attr {
	return slog.String("feature", name)
}

// Identifier records the identity identifier under the key "identifier".
func Identifier(identifier string) slog.Attr {
	return slog.String("identifier", identifier)
}

// SegmentID records the segment under the key "segment_id".
func SegmentID(id int64) slog.Attr {
	return slog.Int64("segment_id", id)
}
