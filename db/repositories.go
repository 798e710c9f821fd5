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

type PostgresRepositoriesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for repositories table
var repositoriesColumns = []string{
	"id",
	"github_id",
	"owner",
	"name",
	"full_name",
	"url",
	"user_id",
	"created_at",
	"updated_at",
}

func NewPostgresRepositoriesRepository(db *sqlx.DB, schema string) *PostgresRepositoriesRepository {
	return &PostgresRepositoriesRepository{db: db, schema: schema}
}

func (r *PostgresRepositoriesRepository) CreateRepository(
	ctx context.Context,
	repo *models.Repository,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.repositories (id, github_id, owner, name, full_name, url, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr)

	var created models.Repository
	err := db.QueryRowxContext(ctx, query,
		repo.ID, repo.GitHubID, repo.Owner, repo.Name, repo.FullName, repo.URL, repo.UserID).
		StructScan(&created)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	*repo = created
	return nil
}

func (r *PostgresRepositoriesRepository) GetRepositoryByOwnerAndName(
	ctx context.Context,
	owner, name string,
) (mo.Option[*models.Repository], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.repositories
		WHERE owner = $1 AND name = $2`, columnsStr, r.schema)

	var repo models.Repository
	err := db.GetContext(ctx, &repo, query, owner, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Repository](), nil
		}
		return mo.None[*models.Repository](), fmt.Errorf("failed to get repository: %w", err)
	}

	return mo.Some(&repo), nil
}

func (r *PostgresRepositoriesRepository) GetRepositoryByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Repository], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.repositories
		WHERE id = $1`, columnsStr, r.schema)

	var repo models.Repository
	err := db.GetContext(ctx, &repo, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Repository](), nil
		}
		return mo.None[*models.Repository](), fmt.Errorf("failed to get repository by ID: %w", err)
	}

	return mo.Some(&repo), nil
}

func (r *PostgresRepositoriesRepository) GetRepositoryByGitHubID(
	ctx context.Context,
	githubID int64,
) (mo.Option[*models.Repository], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.repositories
		WHERE github_id = $1`, columnsStr, r.schema)

	var repo models.Repository
	err := db.GetContext(ctx, &repo, query, githubID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Repository](), nil
		}
		return mo.None[*models.Repository](), fmt.Errorf("failed to get repository by GitHub ID: %w", err)
	}

	return mo.Some(&repo), nil
}

func (r *PostgresRepositoriesRepository) GetRepositoriesByUserID(
	ctx context.Context,
	userID string,
) ([]*models.Repository, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.repositories
		WHERE user_id = $1
		ORDER BY created_at DESC`, columnsStr, r.schema)

	var repos []*models.Repository
	if err := db.SelectContext(ctx, &repos, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list repositories for user: %w", err)
	}

	return repos, nil
}

// DeleteRepository removes the row; reviews and commit activity cascade via
// foreign keys.
func (r *PostgresRepositoriesRepository) DeleteRepository(
	ctx context.Context,
	id string,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`DELETE FROM %s.repositories WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("repository not found: %s", id)
	}

	return nil
}
