package resolver

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/flagmate/flagmate/pkg/snapshot"
	"github.com/flagmate/flagmate/pkg/traits"
)

// Identity is an end user within one environment. Identifier is unique per
// environment; rows are get-or-create on the first identify call.
type Identity struct {
	ID            int64     `json:"id"`
	Identifier    string    `json:"identifier"`
	EnvironmentID int64     `json:"environment_id"`
	CreatedAt     time.Time `json:"created_date"`
}

// HashKey returns the key multivariate bucketing composes with the state
// id. With consistent cross-SDK evaluation enabled the composite
// environment-key+identifier string is used so local and remote evaluation
// agree; legacy environments keep the numeric row id.
func (i Identity) HashKey(env snapshot.Environment) string {
	if env.UseMVV2Evaluation {
		return env.CompositeKey(i.Identifier)
	}
	return strconv.FormatInt(i.ID, 10)
}

// SegmentKey is the identity component of percentage-split hash keys.
func (i Identity) SegmentKey() string {
	return strconv.FormatInt(i.ID, 10)
}

// IdentityStore is the identity/trait collaborator the engine reads and
// writes through. Implementations tolerate concurrent identify calls for
// the same identity: duplicate creates are ignored and the last writer
// wins, by design.
type IdentityStore interface {
	// GetOrCreate returns the identity for identifier within the
	// environment, creating it on first sight.
	GetOrCreate(ctx context.Context, environmentID int64, identifier string) (Identity, error)

	// Traits returns the identity's current traits.
	Traits(ctx context.Context, identityID int64) ([]traits.Trait, error)

	// ApplyChanges persists a merge result: deletes nulled keys, updates
	// changed traits and creates new ones.
	ApplyChanges(ctx context.Context, identityID int64, result traits.MergeResult) error
}

// MemoryIdentityStore is an in-memory IdentityStore for tests and
// single-process setups.
type MemoryIdentityStore struct {
	mu         sync.Mutex
	nextID     int64
	identities map[string]Identity // keyed by envID:identifier
	traits     map[int64]map[string]traits.Value
	traitOrder map[int64][]string
}

// NewMemoryIdentityStore creates an empty in-memory store.
func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{
		identities: make(map[string]Identity),
		traits:     make(map[int64]map[string]traits.Value),
		traitOrder: make(map[int64][]string),
	}
}

func memoryKey(environmentID int64, identifier string) string {
	return strconv.FormatInt(environmentID, 10) + ":" + identifier
}

func (s *MemoryIdentityStore) GetOrCreate(_ context.Context, environmentID int64, identifier string) (Identity, error) {
	if identifier == "" {
		return Identity{}, ErrEmptyIdentifier
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey(environmentID, identifier)
	if identity, ok := s.identities[key]; ok {
		return identity, nil
	}

	s.nextID++
	identity := Identity{
		ID:            s.nextID,
		Identifier:    identifier,
		EnvironmentID: environmentID,
		CreatedAt:     time.Now(),
	}
	s.identities[key] = identity
	s.traits[identity.ID] = make(map[string]traits.Value)
	return identity, nil
}

func (s *MemoryIdentityStore) Traits(_ context.Context, identityID int64) ([]traits.Trait, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.traits[identityID]
	result := make([]traits.Trait, 0, len(stored))
	for _, key := range s.traitOrder[identityID] {
		if value, ok := stored[key]; ok {
			result = append(result, traits.Trait{Key: key, Value: value})
		}
	}
	return result, nil
}

func (s *MemoryIdentityStore) ApplyChanges(_ context.Context, identityID int64, result traits.MergeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.traits[identityID]
	if !ok {
		return ErrIdentityNotFound
	}

	for _, key := range result.DeletedKeys {
		delete(stored, key)
	}
	for _, tr := range result.Updated {
		stored[tr.Key] = tr.Value
	}
	for _, tr := range result.Created {
		// Ignore duplicate creates from racing identify calls.
		if _, exists := stored[tr.Key]; exists {
			continue
		}
		stored[tr.Key] = tr.Value
		s.traitOrder[identityID] = append(s.traitOrder[identityID], tr.Key)
	}

	// Rebuild order dropping deleted keys.
	order := s.traitOrder[identityID][:0]
	for _, key := range s.traitOrder[identityID] {
		if _, exists := stored[key]; exists {
			order = append(order, key)
		}
	}
	s.traitOrder[identityID] = order
	return nil
}
