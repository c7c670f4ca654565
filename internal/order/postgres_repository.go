package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderpush/orderpush/internal/document"
)

// PostgresRepository reads orders stored as JSONB documents:
//
//	CREATE TABLE orders (id TEXT PRIMARY KEY, data JSONB NOT NULL);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves an order by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Order, error) {
	query := `SELECT data FROM orders WHERE id = $1`

	var data map[string]any
	err := r.pool.QueryRow(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("query order %s: %w", id, err)
	}

	return FromDocument(id, document.Fields(data)), nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
