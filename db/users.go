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

type PostgresUsersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for users table
var usersColumns = []string{
	"id",
	"auth_provider",
	"auth_provider_id",
	"created_at",
	"updated_at",
}

func NewPostgresUsersRepository(db *sqlx.DB, schema string) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db, schema: schema}
}

func (r *PostgresUsersRepository) GetUserByAuthProvider(
	ctx context.Context,
	authProvider, authProviderID string,
) (mo.Option[*models.User], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE auth_provider = $1 AND auth_provider_id = $2`, columnsStr, r.schema)

	var user models.User
	err := db.GetContext(ctx, &user, query, authProvider, authProviderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user by auth provider: %w", err)
	}

	return mo.Some(&user), nil
}

func (r *PostgresUsersRepository) GetUserByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.User], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE id = $1`, columnsStr, r.schema)

	var user models.User
	err := db.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user by ID: %w", err)
	}

	return mo.Some(&user), nil
}

func (r *PostgresUsersRepository) CreateUser(
	ctx context.Context,
	user *models.User,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.users (id, auth_provider, auth_provider_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr)

	var created models.User
	err := db.QueryRowxContext(ctx, query, user.ID, user.AuthProvider, user.AuthProviderID).
		StructScan(&created)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	*user = created
	return nil
}
