package audit

import (
	"context"
	"sync"
)

// MemoryStorage keeps audit records in memory. Suitable for tests and
// single-process deployments; records are lost on restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStorage creates an empty in-memory audit storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store appends a record.
func (s *MemoryStorage) Store(_ context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Query returns matching records newest first.
func (s *MemoryStorage) Query(_ context.Context, criteria Criteria) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for i := len(s.records) - 1; i >= 0; i-- {
		record := s.records[i]
		if !matches(record, criteria) {
			continue
		}
		out = append(out, record)
		if criteria.Limit > 0 && len(out) == criteria.Limit {
			break
		}
	}
	return out, nil
}

func matches(record Record, criteria Criteria) bool {
	if criteria.ProjectID != 0 && record.ProjectID != criteria.ProjectID {
		return false
	}
	if criteria.EnvironmentID != 0 && record.EnvironmentID != criteria.EnvironmentID {
		return false
	}
	if criteria.ObjectType != "" && record.ObjectType != criteria.ObjectType {
		return false
	}
	if criteria.ObjectID != 0 && record.ObjectID != criteria.ObjectID {
		return false
	}
	if !criteria.Since.IsZero() && record.CreatedAt.Before(criteria.Since) {
		return false
	}
	if !criteria.Until.IsZero() && record.CreatedAt.After(criteria.Until) {
		return false
	}
	return true
}
