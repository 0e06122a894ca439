package db

import (
	"context"

	"github.com/go-pg/pg/v10"
)

// DB wraps a go-pg connection pool.
type DB struct {
	*pg.DB
}

func New(db *pg.DB) DB {
	return DB{DB: db}
}

// Ping verifies the connection is alive.
func (db DB) Ping(ctx context.Context) error {
	_, err := db.ExecContext(ctx, "SELECT 1")
	return err
}
