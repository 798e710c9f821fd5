package clients

import (
	"context"
)

// GitHubClient is the typed gateway to GitHub's REST surface. Every call
// authenticates with the access token passed in - clients are scoped to one
// token per call, never pooled across users.
type GitHubClient interface {
	// GetPullRequestDiff fetches PR metadata and the diff-formatted body in
	// two distinct requests. Fails if the PR number does not exist.
	GetPullRequestDiff(ctx context.Context, token, owner, repo string, prNumber int) (*PullRequestDiff, error)

	// CreateWebhook registers this application's webhook for pull_request,
	// push and issues events. Idempotent: if a hook already targets the
	// callback URL, it is returned unchanged.
	CreateWebhook(ctx context.Context, token, owner, repo string) (*Webhook, error)

	// DeleteWebhook removes only the hook matching this application's
	// callback URL. Returns false if none was found or on any API error.
	DeleteWebhook(ctx context.Context, token, owner, repo string) bool

	// GetRepoFileContents walks the repository tree and returns decoded text
	// files, skipping known binary extensions. The walk is bounded by the
	// client's configured max depth and max file count.
	GetRepoFileContents(ctx context.Context, token, owner, repo string) ([]RepoFile, error)

	// GetRepoFolderStructure builds a directory-only tree with per-directory
	// file counts, plus the branch's latest commit SHA.
	GetRepoFolderStructure(ctx context.Context, token, owner, repo, branch string) (*FolderStructure, error)

	// GetLatestCommitSHA returns the head commit SHA of the given branch.
	GetLatestCommitSHA(ctx context.Context, token, owner, repo, branch string) (string, error)

	// PostReviewComment posts the generated review wrapped in the fixed
	// comment template.
	PostReviewComment(ctx context.Context, token, owner, repo string, prNumber int, review string) error

	// GetCollaborators joins the collaborator list with per-author commit
	// counts and percentage shares of total commits.
	GetCollaborators(ctx context.Context, token, owner, repo string) (*CollaboratorStats, error)

	// AddCollaborator invites a collaborator; errors are returned as a
	// structured result, never propagated.
	AddCollaborator(ctx context.Context, token, owner, repo, username, permission string) *MutationResult

	// RemoveCollaborator removes a collaborator; errors are returned as a
	// structured result, never propagated.
	RemoveCollaborator(ctx context.Context, token, owner, repo, username string) *MutationResult

	// ListRepositoriesForUser lists the authenticated user's repositories,
	// most recently updated first.
	ListRepositoriesForUser(ctx context.Context, token string, page, perPage int) ([]UserRepository, error)
}

// Embedder converts text into fixed-length vectors for similarity search.
// Documents and queries use distinct task types so the two embedding spaces
// align.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ReviewModelClient produces review text from a PR diff conditioned on
// retrieved repository context.
type ReviewModelClient interface {
	GenerateReview(ctx context.Context, diff string, contextChunks []string) (string, error)
}
