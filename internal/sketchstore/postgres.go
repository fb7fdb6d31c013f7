package sketchstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS sketches (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	data_uri   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS sketches_session_created_idx ON sketches (session_id, created_at DESC);
`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the sketches table if it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate sketches: %w", err)
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, sk Sketch) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO sketches (id, session_id, data_uri, created_at) VALUES ($1, $2, $3, $4)`,
		sk.ID, sk.SessionID, sk.DataURI, sk.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sketch: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id string) (Sketch, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, session_id, data_uri, created_at FROM sketches WHERE id = $1`, id)
	return scanSketch(row)
}

func (p *PostgresStore) Latest(ctx context.Context, sessionID string) (Sketch, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, session_id, data_uri, created_at FROM sketches
		 WHERE session_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, sessionID)
	return scanSketch(row)
}

func scanSketch(row pgx.Row) (Sketch, error) {
	var sk Sketch
	if err := row.Scan(&sk.ID, &sk.SessionID, &sk.DataURI, &sk.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sketch{}, ErrNotFound
		}
		return Sketch{}, fmt.Errorf("scan sketch: %w", err)
	}
	return sk, nil
}
