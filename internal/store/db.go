// Package store holds the persistence layer: one store per table, raw
// SQL with positional parameters, no query builder. Stores accept the
// narrow connection interfaces below so callers can pass either the
// shared pool or an open transaction.
package store

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DB is the pool-backed surface a store holds for its plain reads.
type DB interface {
	Execer
	Getter
	Selecter
}

// Tx is what a write path needs inside a transaction: statements plus
// single-row reads (RETURNING clauses, reference lookups).
type Tx interface {
	Execer
	Getter
}

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Both the sqlx pool and an open sqlx transaction satisfy the
// composites, so store methods never care which one they were handed.
var (
	_ DB = (*sqlx.DB)(nil)
	_ Tx = (*sqlx.Tx)(nil)
)
