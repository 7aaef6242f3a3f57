package snapshot

import (
	"context"
	"errors"
	"log/slog"
)

// Loader fetches a fresh environment document for an api key from the
// system of record. It must return a consistent view: all collections read
// at one point in time.
type Loader func(ctx context.Context, apiKey string) (*Document, error)

// Source is a read-through document source: cache hit, else one
// synchronous load followed by a best-effort cache fill. Cache backend
// failures degrade to direct loads instead of failing evaluations.
type Source struct {
	loader Loader
	cache  Cache
	log    *slog.Logger
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithCache attaches a document cache. Without one every Get loads
// directly from the system of record.
func WithCache(cache Cache) SourceOption {
	return func(s *Source) {
		s.cache = cache
	}
}

// WithSourceLogger routes cache-degradation logs to the given logger.
func WithSourceLogger(log *slog.Logger) SourceOption {
	return func(s *Source) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSource creates a snapshot source around the given loader.
func NewSource(loader Loader, opts ...SourceOption) (*Source, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	s := &Source{
		loader: loader,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get returns the environment document for the api key. A miss triggers
// exactly one synchronous rebuild; there is no background refresh, so a
// caller never waits on more than one load.
func (s *Source) Get(ctx context.Context, apiKey string) (*Document, error) {
	if apiKey == "" {
		return nil, ErrEnvironmentNotFound
	}

	if s.cache != nil {
		doc, ok, err := s.cache.Get(ctx, apiKey)
		if err != nil {
			s.log.WarnContext(ctx, "snapshot cache read failed, loading directly",
				"api_key", apiKey, "error", err)
		} else if ok {
			return doc, nil
		}
	}

	doc, err := s.loader(ctx, apiKey)
	if err != nil {
		return nil, errors.Join(ErrEnvironmentNotFound, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, apiKey, doc); err != nil {
			s.log.WarnContext(ctx, "snapshot cache write failed",
				"api_key", apiKey, "error", err)
		}
	}

	return doc, nil
}

// Invalidate drops the cached document for the api key. The write boundary
// calls this after committing any feature, segment or override mutation.
func (s *Source) Invalidate(ctx context.Context, apiKey string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, apiKey)
}
