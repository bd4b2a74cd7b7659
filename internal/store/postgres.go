package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresCreateTable = `CREATE TABLE IF NOT EXISTS dbcanvas_slots (
	slot_key TEXT PRIMARY KEY,
	payload BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresSlot stores the slot in a PostgreSQL table through a pgx pool
type PostgresSlot struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

// NewPostgresSlot connects and ensures the slot table
func NewPostgresSlot(ctx context.Context, connString string) (*PostgresSlot, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresCreateTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create slot table: %w", err)
	}

	return &PostgresSlot{
		pool: pool,
		qb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

func (p *PostgresSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := p.qb.Select("payload").From(slotTable).
		Where(squirrel.Eq{"slot_key": key}).ToSql()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = p.pool.QueryRow(ctx, query, args...).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return payload, true, nil
}

func (p *PostgresSlot) Put(ctx context.Context, key string, value []byte) error {
	query, args, err := p.qb.Insert(slotTable).
		Columns("slot_key", "payload", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT (slot_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

func (p *PostgresSlot) Close() error {
	p.pool.Close()
	return nil
}
