package models

import (
	"time"
)

type ReviewStatus string

const (
	ReviewStatusQueued    ReviewStatus = "queued"
	ReviewStatusCompleted ReviewStatus = "completed"
	ReviewStatusFailed    ReviewStatus = "failed"
)

// Review is one AI review attempt for one pull request. Status transitions are
// one-directional: queued -> completed or queued -> failed.
type Review struct {
	ID           string       `db:"id"            json:"id"`
	RepositoryID string       `db:"repository_id" json:"repository_id"`
	PRNumber     int          `db:"pr_number"     json:"pr_number"`
	PRTitle      string       `db:"pr_title"      json:"pr_title"`
	PRURL        string       `db:"pr_url"        json:"pr_url"`
	Review       string       `db:"review"        json:"review"`
	Status       ReviewStatus `db:"status"        json:"status"`
	CreatedAt    time.Time    `db:"created_at"    json:"created_at"`
}
