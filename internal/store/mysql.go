package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

var mysqlDialect = dialect{
	createTable: `CREATE TABLE IF NOT EXISTS dbcanvas_slots (
		slot_key VARCHAR(255) NOT NULL PRIMARY KEY,
		payload LONGBLOB NOT NULL,
		updated_at DATETIME(6) NOT NULL
	)`,
	upsert: "ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)",
}

// NewMySQLSlot connects with a go-sql-driver DSN such as
// user:pass@tcp(host:3306)/db
func NewMySQLSlot(ctx context.Context, dsn string) (Slot, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("MySQL DSN must name a database")
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := sql.OpenDB(connector)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := newSQLSlot(ctx, db, mysqlDialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
