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

type PostgresAccountsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for accounts table
var accountsColumns = []string{
	"id",
	"user_id",
	"provider_id",
	"access_token",
	"created_at",
	"updated_at",
}

func NewPostgresAccountsRepository(db *sqlx.DB, schema string) *PostgresAccountsRepository {
	return &PostgresAccountsRepository{db: db, schema: schema}
}

// GetAccountByUserAndProvider resolves the stored credential for a user and
// provider pair. Absence is not an error at this layer - callers decide
// whether a missing credential is terminal.
func (r *PostgresAccountsRepository) GetAccountByUserAndProvider(
	ctx context.Context,
	userID, providerID string,
) (mo.Option[*models.Account], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(accountsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.accounts
		WHERE user_id = $1 AND provider_id = $2`, columnsStr, r.schema)

	var account models.Account
	err := db.GetContext(ctx, &account, query, userID, providerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Account](), nil
		}
		return mo.None[*models.Account](), fmt.Errorf("failed to get account: %w", err)
	}

	return mo.Some(&account), nil
}

func (r *PostgresAccountsRepository) UpsertAccount(
	ctx context.Context,
	account *models.Account,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(accountsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.accounts (id, user_id, provider_id, access_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, provider_id)
		DO UPDATE SET access_token = EXCLUDED.access_token, updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr)

	var upserted models.Account
	err := db.QueryRowxContext(ctx, query, account.ID, account.UserID, account.ProviderID, account.AccessToken).
		StructScan(&upserted)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	*account = upserted
	return nil
}
