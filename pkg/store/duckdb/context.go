package duckdb

import (
	"context"
	"database/sql"
)

type txKey struct{}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// QuerierFor returns the transaction stored in ctx, falling back to db, so
// reads issued while a mirror load is in flight see the uncommitted rows.
func QuerierFor(ctx context.Context, db *sql.DB) Querier {
	if tx := GetTransaction(ctx); tx != nil {
		return tx
	}
	return db
}
