package txmanager

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	dbtx "linequeue/db/tx"
)

// TransactionManager runs units of work inside Postgres transactions,
// propagating the open transaction through the context so repositories
// pick it up transparently.
type TransactionManager struct {
	db *sqlx.DB
}

func NewTransactionManager(db *sqlx.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// WithTransaction runs fn inside a transaction, committing on nil and
// rolling back on error or panic. Nested calls reuse the outer
// transaction instead of opening a second one.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := dbtx.TransactionFromContext(ctx); ok {
		log.Printf("📋 Joining ambient transaction")
		return fn(ctx)
	}

	log.Printf("📋 Starting transaction")
	tx, err := tm.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ Panic inside transaction, rolling back: %v", r)
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Printf("❌ Rollback after panic failed: %v", rollbackErr)
			}
			panic(r)
		}
	}()

	if err := fn(dbtx.WithTransaction(ctx, tx)); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("transaction failed: %w, rollback failed: %v", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("📋 Transaction committed")
	return nil
}

// BeginTransaction opens a transaction and returns a context carrying it.
// Callers own the commit or rollback.
func (tm *TransactionManager) BeginTransaction(ctx context.Context) (context.Context, error) {
	tx, err := tm.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return dbtx.WithTransaction(ctx, tx), nil
}

// CommitTransaction commits the transaction carried by ctx.
func (tm *TransactionManager) CommitTransaction(ctx context.Context) error {
	tx, ok := dbtx.TransactionFromContext(ctx)
	if !ok {
		return fmt.Errorf("no transaction found in context")
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollbackTransaction rolls back the transaction carried by ctx.
func (tm *TransactionManager) RollbackTransaction(ctx context.Context) error {
	tx, ok := dbtx.TransactionFromContext(ctx)
	if !ok {
		return fmt.Errorf("no transaction found in context")
	}
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
