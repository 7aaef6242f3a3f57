package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flagmate/flagmate/pkg/pg"
	"github.com/flagmate/flagmate/pkg/traits"
	"github.com/flagmate/flagmate/svc/resolver"
)

// Store is the PostgreSQL-backed identity store. Trait values are stored
// as JSONB scalars so the typed wire representation round-trips without a
// separate type column.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over an open connection pool.
func New(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	return &Store{pool: pool}, nil
}

// GetOrCreate returns the identity for identifier within the environment,
// inserting it on first sight. Racing creates collapse onto the same row
// through the unique constraint.
func (s *Store) GetOrCreate(ctx context.Context, environmentID int64, identifier string) (resolver.Identity, error) {
	if identifier == "" {
		return resolver.Identity{}, resolver.ErrEmptyIdentifier
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO identities (environment_id, identifier)
		 VALUES ($1, $2)
		 ON CONFLICT (environment_id, identifier) DO NOTHING`,
		environmentID, identifier)
	if err != nil {
		return resolver.Identity{}, errors.Join(ErrQueryFailed, err)
	}

	var identity resolver.Identity
	err = s.pool.QueryRow(ctx,
		`SELECT id, identifier, environment_id, created_at
		 FROM identities
		 WHERE environment_id = $1 AND identifier = $2`,
		environmentID, identifier).
		Scan(&identity.ID, &identity.Identifier, &identity.EnvironmentID, &identity.CreatedAt)
	if err != nil {
		return resolver.Identity{}, errors.Join(ErrQueryFailed, err)
	}

	return identity, nil
}

// Traits returns the identity's traits in insertion order.
func (s *Store) Traits(ctx context.Context, identityID int64) ([]traits.Trait, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT trait_key, trait_value
		 FROM traits
		 WHERE identity_id = $1
		 ORDER BY id`,
		identityID)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer rows.Close()

	var result []traits.Trait
	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, errors.Join(ErrQueryFailed, err)
		}
		value, err := traits.ParseJSON(raw)
		if err != nil {
			return nil, errors.Join(ErrCorruptTraitValue, err)
		}
		result = append(result, traits.Trait{Key: key, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	return result, nil
}

// ApplyChanges persists a merge result in one transaction: deletes nulled
// keys, upserts updates, and inserts creates. Duplicate creates from
// racing identify calls are dropped by the unique constraint, matching the
// last-write-wins merge policy.
func (s *Store) ApplyChanges(ctx context.Context, identityID int64, result traits.MergeResult) error {
	if !result.Changed() {
		return nil
	}

	batch := &pgx.Batch{}
	if len(result.DeletedKeys) > 0 {
		batch.Queue(
			`DELETE FROM traits WHERE identity_id = $1 AND trait_key = ANY($2)`,
			identityID, result.DeletedKeys)
	}
	for _, tr := range result.Updated {
		raw, err := json.Marshal(tr.Value)
		if err != nil {
			return errors.Join(ErrCorruptTraitValue, err)
		}
		batch.Queue(
			`INSERT INTO traits (identity_id, trait_key, trait_value)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (identity_id, trait_key)
			 DO UPDATE SET trait_value = EXCLUDED.trait_value`,
			identityID, tr.Key, raw)
	}
	for _, tr := range result.Created {
		raw, err := json.Marshal(tr.Value)
		if err != nil {
			return errors.Join(ErrCorruptTraitValue, err)
		}
		batch.Queue(
			`INSERT INTO traits (identity_id, trait_key, trait_value)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (identity_id, trait_key) DO NOTHING`,
			identityID, tr.Key, raw)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return errors.Join(resolver.ErrIdentityNotFound, err)
		}
		return errors.Join(ErrQueryFailed, err)
	}

	return tx.Commit(ctx)
}
