package models

import (
	"time"
)

// ProviderGitHub is the provider identifier for stored GitHub OAuth tokens.
const ProviderGitHub = "github"

// Account holds a user's OAuth access token for an external provider.
// A repository's effective GitHub credential is resolved through its owning
// user's GitHub account.
type Account struct {
	ID          string    `db:"id"           json:"id"`
	UserID      string    `db:"user_id"      json:"user_id"`
	ProviderID  string    `db:"provider_id"  json:"provider_id"`
	AccessToken string    `db:"access_token" json:"-"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}
