package tx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type contextKey string

const activeTxKey contextKey = "active_sql_transaction"

// Querier is the subset of sqlx operations the repositories need. Both
// *sqlx.DB and *sqlx.Tx satisfy it, so repository code stays unaware of
// whether it runs inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
}

// WithTransaction returns a context carrying the given transaction.
func WithTransaction(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, activeTxKey, tx)
}

// TransactionFromContext reports the transaction carried by ctx, if any.
func TransactionFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(activeTxKey).(*sqlx.Tx)
	return tx, ok
}

// GetTransactional resolves the querier for ctx: the ambient transaction
// when one is present, the plain connection otherwise.
func GetTransactional(ctx context.Context, db *sqlx.DB) Querier {
	if tx, ok := TransactionFromContext(ctx); ok {
		return tx
	}
	return db
}
