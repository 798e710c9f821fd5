package models

import (
	"time"
)

// Repository is a connected GitHub repository. At most one row exists per
// GitHub numeric id; deletion cascades to reviews and commit activity.
type Repository struct {
	ID        string    `db:"id"         json:"id"`
	GitHubID  int64     `db:"github_id"  json:"github_id"`
	Owner     string    `db:"owner"      json:"owner"`
	Name      string    `db:"name"       json:"name"`
	FullName  string    `db:"full_name"  json:"full_name"`
	URL       string    `db:"url"        json:"url"`
	UserID    string    `db:"user_id"    json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
