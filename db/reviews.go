package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	dbtx "linequeue/db/tx"
	"linequeue/models"
)

type PostgresReviewsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for reviews table
var reviewsColumns = []string{
	"id",
	"repository_id",
	"pr_number",
	"pr_title",
	"pr_url",
	"review",
	"status",
	"created_at",
}

func NewPostgresReviewsRepository(db *sqlx.DB, schema string) *PostgresReviewsRepository {
	return &PostgresReviewsRepository{db: db, schema: schema}
}

func (r *PostgresReviewsRepository) CreateReview(
	ctx context.Context,
	review *models.Review,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(reviewsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.reviews (id, repository_id, pr_number, pr_title, pr_url, review, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING %s`, r.schema, columnsStr)

	var created models.Review
	err := db.QueryRowxContext(ctx, query,
		review.ID, review.RepositoryID, review.PRNumber, review.PRTitle,
		review.PRURL, review.Review, review.Status).
		StructScan(&created)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	*review = created
	return nil
}

// UpdateReviewOutcome finalizes a queued review. The status guard in the WHERE
// clause keeps transitions one-directional: a completed or failed review is
// never resurrected.
func (r *PostgresReviewsRepository) UpdateReviewOutcome(
	ctx context.Context,
	id string,
	body string,
	status models.ReviewStatus,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.reviews
		SET review = $2, status = $3
		WHERE id = $1 AND status = $4`, r.schema)

	result, err := db.ExecContext(ctx, query, id, body, status, models.ReviewStatusQueued)
	if err != nil {
		return fmt.Errorf("failed to update review outcome: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("review not found or no longer queued: %s", id)
	}

	return nil
}

// GetReviewsByUserID returns the newest reviews across all of the user's
// connected repositories.
func (r *PostgresReviewsRepository) GetReviewsByUserID(
	ctx context.Context,
	userID string,
	limit int,
) ([]*models.Review, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	prefixed := make([]string, len(reviewsColumns))
	for i, col := range reviewsColumns {
		prefixed[i] = "rv." + col
	}
	columnsStr := strings.Join(prefixed, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.reviews rv
		JOIN %s.repositories r ON r.id = rv.repository_id
		WHERE r.user_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2`, columnsStr, r.schema, r.schema)

	var reviews []*models.Review
	if err := db.SelectContext(ctx, &reviews, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list reviews for user: %w", err)
	}

	return reviews, nil
}

func (r *PostgresReviewsRepository) GetReviewsByRepositoryID(
	ctx context.Context,
	repositoryID string,
	limit int,
) ([]*models.Review, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(reviewsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.reviews
		WHERE repository_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, columnsStr, r.schema)

	var reviews []*models.Review
	if err := db.SelectContext(ctx, &reviews, query, repositoryID, limit); err != nil {
		return nil, fmt.Errorf("failed to list reviews for repository: %w", err)
	}

	return reviews, nil
}
