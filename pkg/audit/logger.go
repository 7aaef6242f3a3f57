package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Storage persists audit records.
type Storage interface {
	Store(ctx context.Context, record Record) error
	Query(ctx context.Context, criteria Criteria) ([]Record, error)
}

// Criteria filters audit record queries. Zero values mean "any".
type Criteria struct {
	ProjectID     int64
	EnvironmentID int64
	ObjectType    ObjectType
	ObjectID      int64
	Since         time.Time
	Until         time.Time
	Limit         int
}

// RecordOption applies configuration to a Record during creation.
type RecordOption func(*Record)

// WithEnvironment scopes the record to an environment.
func WithEnvironment(id int64) RecordOption {
	return func(r *Record) { r.EnvironmentID = id }
}

// WithAuthor attributes the record to an actor.
func WithAuthor(author string) RecordOption {
	return func(r *Record) { r.Author = author }
}

// WithMetadata attaches a metadata key to the record.
func WithMetadata(key string, value any) RecordOption {
	return func(r *Record) {
		if r.Metadata == nil {
			r.Metadata = make(map[string]any)
		}
		r.Metadata[key] = value
	}
}

// Logger writes audit records to storage and mirrors them to slog so the
// change history shows up in the regular log stream too.
type Logger struct {
	storage Storage
	log     *slog.Logger
	now     func() time.Time
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithLogger routes the slog mirror to the given logger.
func WithLogger(log *slog.Logger) LoggerOption {
	return func(l *Logger) {
		if log != nil {
			l.log = log
		}
	}
}

// WithClock substitutes the time source, e.g. for tests.
func WithClock(now func() time.Time) LoggerOption {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger creates an audit logger backed by storage.
func NewLogger(storage Storage, opts ...LoggerOption) (*Logger, error) {
	if storage == nil {
		return nil, ErrStorageRequired
	}
	l := &Logger{
		storage: storage,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Log records a change against an object.
func (l *Logger) Log(ctx context.Context, projectID int64, objectType ObjectType, objectID int64, message string, opts ...RecordOption) error {
	record := Record{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		ObjectType: objectType,
		ObjectID:   objectID,
		Message:    message,
		CreatedAt:  l.now().UTC(),
	}
	for _, opt := range opts {
		opt(&record)
	}
	if err := record.Validate(); err != nil {
		return err
	}

	if err := l.storage.Store(ctx, record); err != nil {
		return err
	}

	l.log.InfoContext(ctx, "audit",
		"project_id", record.ProjectID,
		"object_type", string(record.ObjectType),
		"object_id", record.ObjectID,
		"message", record.Message,
	)
	return nil
}

// Reader queries the audit history.
type Reader struct {
	storage Storage
}

// NewReader creates an audit reader over storage.
func NewReader(storage Storage) (*Reader, error) {
	if storage == nil {
		return nil, ErrStorageRequired
	}
	return &Reader{storage: storage}, nil
}

// Find retrieves audit records matching the criteria, newest first.
func (r *Reader) Find(ctx context.Context, criteria Criteria) ([]Record, error) {
	return r.storage.Query(ctx, criteria)
}
