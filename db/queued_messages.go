package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	dbtx "linequeue/db/tx"
	"linequeue/models"
)

type PostgresQueuedMessagesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for queued_messages table
var queuedMessagesColumns = []string{
	"id",
	"message_id",
	"name",
	"dedup_key",
	"payload",
	"status",
	"attempts",
	"created_at",
	"updated_at",
}

func NewPostgresQueuedMessagesRepository(db *sqlx.DB, schema string) *PostgresQueuedMessagesRepository {
	return &PostgresQueuedMessagesRepository{db: db, schema: schema}
}

// EnqueueMessage inserts a new queued message. When the message carries a
// dedup key and a row with the same (name, dedup_key) already exists, the
// insert is a no-op and the existing row is returned with inserted=false.
func (r *PostgresQueuedMessagesRepository) EnqueueMessage(
	ctx context.Context,
	msg *models.QueuedMessage,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(queuedMessagesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.queued_messages (id, message_id, name, dedup_key, payload, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, NOW(), NOW())
		ON CONFLICT (name, dedup_key) DO NOTHING
		RETURNING %s`, r.schema, columnsStr)

	var returned models.QueuedMessage
	err := db.QueryRowxContext(ctx, query,
		msg.ID, msg.MessageID, msg.Name, msg.DedupKey, msg.Payload, msg.Status).
		StructScan(&returned)
	if err != nil {
		if err == sql.ErrNoRows {
			// Conflict on the dedup index - an equivalent message is already queued
			return false, nil
		}
		return false, fmt.Errorf("failed to enqueue message: %w", err)
	}

	*msg = returned
	return true, nil
}

// ClaimNextMessage atomically claims the oldest queued message, marking it
// processing and bumping its attempt counter. SKIP LOCKED keeps concurrent
// dispatch loops from claiming the same row.
func (r *PostgresQueuedMessagesRepository) ClaimNextMessage(
	ctx context.Context,
) (mo.Option[*models.QueuedMessage], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(queuedMessagesColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.queued_messages
		SET status = $1, attempts = attempts + 1, updated_at = NOW()
		WHERE id = (
			SELECT id
			FROM %s.queued_messages
			WHERE status = $2
			ORDER BY created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING %s`, r.schema, r.schema, columnsStr)

	var msg models.QueuedMessage
	err := db.QueryRowxContext(ctx, query,
		models.QueuedMessageStatusProcessing, models.QueuedMessageStatusQueued).
		StructScan(&msg)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.QueuedMessage](), nil
		}
		return mo.None[*models.QueuedMessage](), fmt.Errorf("failed to claim queued message: %w", err)
	}

	return mo.Some(&msg), nil
}

func (r *PostgresQueuedMessagesRepository) UpdateMessageStatus(
	ctx context.Context,
	id string,
	status models.QueuedMessageStatus,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.queued_messages
		SET status = $2, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update message status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("queued message not found: %s", id)
	}

	return nil
}

// RequeueStaleMessages returns processing messages below the attempt cap to
// queued, and fails those at or above it. Called by the dispatch loop so a
// crashed consumer's messages are eventually retried (at-least-once).
func (r *PostgresQueuedMessagesRepository) RequeueStaleMessages(
	ctx context.Context,
	staleAfterMinutes int,
	maxAttempts int,
) (int, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.queued_messages
		SET status = CASE WHEN attempts >= $2 THEN $3 ELSE $4 END, updated_at = NOW()
		WHERE status = $5 AND updated_at < NOW() - ($1 || ' minutes')::interval`, r.schema)

	result, err := db.ExecContext(ctx, query,
		staleAfterMinutes, maxAttempts,
		models.QueuedMessageStatusFailed, models.QueuedMessageStatusQueued,
		models.QueuedMessageStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue stale messages: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}
