package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// slotTable holds one row per key
const slotTable = "dbcanvas_slots"

// dialect carries the statements that differ between database/sql backends
type dialect struct {
	createTable string
	upsert      string
}

// sqlSlot is a Slot over a database/sql handle
type sqlSlot struct {
	db      *sql.DB
	qb      squirrel.StatementBuilderType
	dialect dialect
}

func newSQLSlot(ctx context.Context, db *sql.DB, d dialect) (*sqlSlot, error) {
	s := &sqlSlot{
		db:      db,
		qb:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		dialect: d,
	}
	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		return nil, fmt.Errorf("failed to create slot table: %w", err)
	}
	return s, nil
}

func (s *sqlSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := s.qb.Select("payload").From(slotTable).
		Where(squirrel.Eq{"slot_key": key}).ToSql()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return payload, true, nil
}

func (s *sqlSlot) Put(ctx context.Context, key string, value []byte) error {
	query, args, err := s.qb.Insert(slotTable).
		Columns("slot_key", "payload", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix(s.dialect.upsert).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

func (s *sqlSlot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
