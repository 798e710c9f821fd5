package models

import (
	"time"
)

// Durable message names routed through the queued-message runner.
const (
	MessageRepositoryConnected = "repository-connected"
	MessagePRReviewRequested   = "pr.review-requested"
)

type QueuedMessageStatus string

const (
	QueuedMessageStatusQueued     QueuedMessageStatus = "queued"
	QueuedMessageStatusProcessing QueuedMessageStatus = "processing"
	QueuedMessageStatusCompleted  QueuedMessageStatus = "completed"
	QueuedMessageStatusFailed     QueuedMessageStatus = "failed"
)

// QueuedMessage is one durable message row. Delivery is at-least-once: a
// message claimed by the dispatch loop but not completed is retried until the
// attempt cap is reached. DedupKey, when set, collapses duplicate sends under
// a (name, dedup_key) unique index.
type QueuedMessage struct {
	ID        string              `db:"id"         json:"id"`
	MessageID string              `db:"message_id" json:"message_id"`
	Name      string              `db:"name"       json:"name"`
	DedupKey  *string             `db:"dedup_key"  json:"dedup_key,omitempty"`
	Payload   []byte              `db:"payload"    json:"payload"`
	Status    QueuedMessageStatus `db:"status"     json:"status"`
	Attempts  int                 `db:"attempts"   json:"attempts"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt time.Time           `db:"updated_at" json:"updated_at"`
}

// RepositoryConnectedPayload triggers the indexing pipeline after connect.
type RepositoryConnectedPayload struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	UserID string `json:"userId"`
}

// PRReviewRequestedPayload triggers asynchronous review generation.
type PRReviewRequestedPayload struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	PRNumber int    `json:"prNumber"`
	UserID   string `json:"userId"`
	ReviewID string `json:"reviewId"`
}
