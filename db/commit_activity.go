package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	dbtx "linequeue/db/tx"
	"linequeue/models"
)

type PostgresCommitActivityRepository struct {
	db     *sqlx.DB
	schema string
}

// DBCommitActivity represents the database schema for the commit_activity table
type DBCommitActivity struct {
	ID             string    `db:"id"`
	AuthorName     string    `db:"author_name"`
	AuthorEmail    string    `db:"author_email"`
	AuthorUsername string    `db:"author_username"`
	AuthorAvatar   string    `db:"author_avatar"`
	CommitID       string    `db:"commit_id"`
	CommitMessage  string    `db:"commit_message"`
	CommitURL      string    `db:"commit_url"`
	Timestamp      time.Time `db:"timestamp"`
	RepoOwner      string    `db:"repo_owner"`
	RepoName       string    `db:"repo_name"`
	RepoFullName   string    `db:"repo_full_name"`
	Branch         string    `db:"branch"`
	RepoURL        string    `db:"repo_url"`
	FilesChanged   int       `db:"files_changed"`
	Changes        []byte    `db:"changes"`
	CreatedAt      time.Time `db:"created_at"`
}

// Column names for commit_activity table
var commitActivityColumns = []string{
	"id",
	"author_name",
	"author_email",
	"author_username",
	"author_avatar",
	"commit_id",
	"commit_message",
	"commit_url",
	"timestamp",
	"repo_owner",
	"repo_name",
	"repo_full_name",
	"branch",
	"repo_url",
	"files_changed",
	"changes",
	"created_at",
}

func NewPostgresCommitActivityRepository(db *sqlx.DB, schema string) *PostgresCommitActivityRepository {
	return &PostgresCommitActivityRepository{db: db, schema: schema}
}

// dbCommitActivityToModel converts a DBCommitActivity to models.CommitActivity
func dbCommitActivityToModel(dbActivity *DBCommitActivity) (*models.CommitActivity, error) {
	activity := &models.CommitActivity{
		ID:             dbActivity.ID,
		AuthorName:     dbActivity.AuthorName,
		AuthorEmail:    dbActivity.AuthorEmail,
		AuthorUsername: dbActivity.AuthorUsername,
		AuthorAvatar:   dbActivity.AuthorAvatar,
		CommitID:       dbActivity.CommitID,
		CommitMessage:  dbActivity.CommitMessage,
		CommitURL:      dbActivity.CommitURL,
		Timestamp:      dbActivity.Timestamp,
		RepoOwner:      dbActivity.RepoOwner,
		RepoName:       dbActivity.RepoName,
		RepoFullName:   dbActivity.RepoFullName,
		Branch:         dbActivity.Branch,
		RepoURL:        dbActivity.RepoURL,
		FilesChanged:   dbActivity.FilesChanged,
		CreatedAt:      dbActivity.CreatedAt,
	}

	if len(dbActivity.Changes) > 0 {
		if err := json.Unmarshal(dbActivity.Changes, &activity.Changes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal changes for commit activity %s: %w", dbActivity.ID, err)
		}
	}

	return activity, nil
}

// modelToDBCommitActivity converts a models.CommitActivity to DBCommitActivity
func modelToDBCommitActivity(activity *models.CommitActivity) (*DBCommitActivity, error) {
	changes, err := json.Marshal(activity.Changes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal changes: %w", err)
	}

	return &DBCommitActivity{
		ID:             activity.ID,
		AuthorName:     activity.AuthorName,
		AuthorEmail:    activity.AuthorEmail,
		AuthorUsername: activity.AuthorUsername,
		AuthorAvatar:   activity.AuthorAvatar,
		CommitID:       activity.CommitID,
		CommitMessage:  activity.CommitMessage,
		CommitURL:      activity.CommitURL,
		Timestamp:      activity.Timestamp,
		RepoOwner:      activity.RepoOwner,
		RepoName:       activity.RepoName,
		RepoFullName:   activity.RepoFullName,
		Branch:         activity.Branch,
		RepoURL:        activity.RepoURL,
		FilesChanged:   activity.FilesChanged,
		Changes:        changes,
		CreatedAt:      activity.CreatedAt,
	}, nil
}

func (r *PostgresCommitActivityRepository) CreateCommitActivity(
	ctx context.Context,
	activity *models.CommitActivity,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	dbActivity, err := modelToDBCommitActivity(activity)
	if err != nil {
		return fmt.Errorf("failed to convert commit activity to db model: %w", err)
	}

	columnsStr := strings.Join(commitActivityColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.commit_activity (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	var returned DBCommitActivity
	err = db.QueryRowxContext(ctx, query,
		dbActivity.ID, dbActivity.AuthorName, dbActivity.AuthorEmail, dbActivity.AuthorUsername,
		dbActivity.AuthorAvatar, dbActivity.CommitID, dbActivity.CommitMessage, dbActivity.CommitURL,
		dbActivity.Timestamp, dbActivity.RepoOwner, dbActivity.RepoName, dbActivity.RepoFullName,
		dbActivity.Branch, dbActivity.RepoURL, dbActivity.FilesChanged, dbActivity.Changes).
		StructScan(&returned)
	if err != nil {
		return fmt.Errorf("failed to create commit activity: %w", err)
	}

	converted, err := dbCommitActivityToModel(&returned)
	if err != nil {
		return fmt.Errorf("failed to convert created commit activity: %w", err)
	}
	*activity = *converted
	return nil
}

func (r *PostgresCommitActivityRepository) GetRecentCommitActivity(
	ctx context.Context,
	limit int,
) ([]*models.CommitActivity, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(commitActivityColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.commit_activity
		ORDER BY timestamp DESC
		LIMIT $1`, columnsStr, r.schema)

	var dbActivities []DBCommitActivity
	if err := db.SelectContext(ctx, &dbActivities, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent commit activity: %w", err)
	}

	return convertCommitActivities(dbActivities)
}

func (r *PostgresCommitActivityRepository) GetRecentCommitActivityByRepo(
	ctx context.Context,
	repoFullName string,
	limit int,
) ([]*models.CommitActivity, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(commitActivityColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.commit_activity
		WHERE repo_full_name = $1
		ORDER BY timestamp DESC
		LIMIT $2`, columnsStr, r.schema)

	var dbActivities []DBCommitActivity
	if err := db.SelectContext(ctx, &dbActivities, query, repoFullName, limit); err != nil {
		return nil, fmt.Errorf("failed to list commit activity for repo: %w", err)
	}

	return convertCommitActivities(dbActivities)
}

func convertCommitActivities(dbActivities []DBCommitActivity) ([]*models.CommitActivity, error) {
	activities := make([]*models.CommitActivity, 0, len(dbActivities))
	for i := range dbActivities {
		activity, err := dbCommitActivityToModel(&dbActivities[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert commit activity: %w", err)
		}
		activities = append(activities, activity)
	}
	return activities, nil
}
