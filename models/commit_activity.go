package models

import (
	"time"
)

// CommitChanges lists the file paths touched by one commit, grouped by kind.
// Stored as a JSONB column alongside the activity row.
type CommitChanges struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Removed  []string `json:"removed"`
}

// CommitActivity is one commit extracted from a push webhook delivery.
// Rows are written independently per commit - a failed insert does not roll
// back its siblings.
type CommitActivity struct {
	ID             string        `db:"id"              json:"id"`
	AuthorName     string        `db:"author_name"     json:"author_name"`
	AuthorEmail    string        `db:"author_email"    json:"author_email"`
	AuthorUsername string        `db:"author_username" json:"author_username"`
	AuthorAvatar   string        `db:"author_avatar"   json:"author_avatar"`
	CommitID       string        `db:"commit_id"       json:"commit_id"`
	CommitMessage  string        `db:"commit_message"  json:"commit_message"`
	CommitURL      string        `db:"commit_url"      json:"commit_url"`
	Timestamp      time.Time     `db:"timestamp"       json:"timestamp"`
	RepoOwner      string        `db:"repo_owner"      json:"repo_owner"`
	RepoName       string        `db:"repo_name"       json:"repo_name"`
	RepoFullName   string        `db:"repo_full_name"  json:"repo_full_name"`
	Branch         string        `db:"branch"          json:"branch"`
	RepoURL        string        `db:"repo_url"        json:"repo_url"`
	FilesChanged   int           `db:"files_changed"   json:"files_changed"`
	Changes        CommitChanges `db:"-"               json:"changes"`
	CreatedAt      time.Time     `db:"created_at"      json:"created_at"`
}
