package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the management database, which owns every entity except the
// upstream production orders.
type Store struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}
