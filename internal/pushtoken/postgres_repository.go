package pushtoken

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderpush/orderpush/internal/document"
)

// PostgresRepository reads registry entries stored as JSONB documents:
//
//	CREATE TABLE push_tokens (id TEXT PRIMARY KEY, data JSONB NOT NULL);
//	CREATE INDEX push_tokens_role_idx ON push_tokens ((data->>'role'), (data->>'ownerStoreId'));
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL registry repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListByRole returns every entry with the given role.
func (r *PostgresRepository) ListByRole(ctx context.Context, role Role) ([]*Entry, error) {
	query := `
		SELECT id, data
		FROM push_tokens
		WHERE data->>'role' = $1
		ORDER BY id
	`
	return r.query(ctx, query, string(role))
}

// ListOwnersByStore returns owner entries for the store.
func (r *PostgresRepository) ListOwnersByStore(ctx context.Context, storeID string) ([]*Entry, error) {
	query := `
		SELECT id, data
		FROM push_tokens
		WHERE data->>'role' = $1 AND data->>'ownerStoreId' = $2
		ORDER BY id
	`
	return r.query(ctx, query, string(RoleOwner), storeID)
}

// Get retrieves an entry by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Entry, error) {
	query := `SELECT data FROM push_tokens WHERE id = $1`

	var data map[string]any
	err := r.pool.QueryRow(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("query push token %s: %w", id, err)
	}
	return FromDocument(id, document.Fields(data)), nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...interface{}) ([]*Entry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query push tokens: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			id   string
			data map[string]any
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		entries = append(entries, FromDocument(id, document.Fields(data)))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
